package math3d

import (
	"errors"
	"math"
)

// ErrNotRigid is returned by AsRigid for matrices that are not a pure
// rotation plus translation.
var ErrNotRigid = errors.New("math3d: matrix is not a rotation+translation")

// rigidTolerance bounds the orthonormality error accepted by AsRigid.
const rigidTolerance = 1e-6

// Rigid is a rotation+translation matrix. Only values of this type can be
// inverted with QuickInverse.
type Rigid struct {
	m Mat4
}

// PointAt builds the camera basis at pos looking toward target. The rows
// are right, up, forward and the position.
func PointAt(pos, target, up Vec3) Rigid {
	forward := target.Sub(pos).Normalize()

	// Re-orthogonalize up against forward.
	a := forward.Scale(up.Dot(forward))
	newUp := up.Sub(a).Normalize()

	right := newUp.Cross(forward)

	return Rigid{m: Mat4{
		{right.X, right.Y, right.Z, 0},
		{newUp.X, newUp.Y, newUp.Z, 0},
		{forward.X, forward.Y, forward.Z, 0},
		{pos.X, pos.Y, pos.Z, 1},
	}}
}

// AsRigid checks that the upper 3x3 block of m is orthonormal and the last
// column is (0, 0, 0, 1).
func AsRigid(m Mat4) (Rigid, error) {
	if math.Abs(m[0][3]) > rigidTolerance || math.Abs(m[1][3]) > rigidTolerance ||
		math.Abs(m[2][3]) > rigidTolerance || math.Abs(m[3][3]-1) > rigidTolerance {
		return Rigid{}, ErrNotRigid
	}
	for i := range 3 {
		for j := range 3 {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(m.Row(i).Dot(m.Row(j))-want) > rigidTolerance {
				return Rigid{}, ErrNotRigid
			}
		}
	}
	return Rigid{m: m}, nil
}

// Mat4 returns the underlying matrix.
func (r Rigid) Mat4() Mat4 {
	return r.m
}

// QuickInverse inverts the transform by transposing the rotation block and
// negating the rotated translation.
func (r Rigid) QuickInverse() Mat4 {
	m := r.m
	var inv Mat4
	for i := range 3 {
		for j := range 3 {
			inv[i][j] = m[j][i]
		}
	}
	t := m.Translation()
	inv[3][0] = -t.Dot(m.Row(0))
	inv[3][1] = -t.Dot(m.Row(1))
	inv[3][2] = -t.Dot(m.Row(2))
	inv[3][3] = 1
	return inv
}
