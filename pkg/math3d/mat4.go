package math3d

import "math"

// Mat4 is a 4x4 matrix indexed m[row][col].
//
// Vectors are rows and multiply on the left: out = v * M. Composition
// therefore reads left to right, a.Mul(b) applies a first and then b.
//
// For an affine transform:
// | Xx Xy Xz 0 |   X,Y,Z = basis vectors (rotation/scale)
// | Yx Yy Yz 0 |   T = translation
// | Zx Zy Zz 0 |
// | Tx Ty Tz 1 |
type Mat4 [4][4]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{v.X, v.Y, v.Z, 1},
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		{v.X, 0, 0, 0},
		{0, v.Y, 0, 0},
		{0, 0, v.Z, 0},
		{0, 0, 0, 1},
	}
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		{1, 0, 0, 0},
		{0, c, s, 0},
		{0, -s, c, 0},
		{0, 0, 0, 1},
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		{c, 0, s, 0},
		{0, 1, 0, 0},
		{-s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		{c, s, 0, 0},
		{-s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Projection creates a perspective projection matrix.
// fovDeg is the field of view in degrees, aspect is height/width.
// The caller must guarantee far > near; far == near divides by zero.
//
// The projected W equals the view-space Z, so MulVec3 performs the
// perspective divide.
func Projection(fovDeg, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovDeg*0.5/180.0*math.Pi)

	var m Mat4
	m[0][0] = aspect * f
	m[1][1] = f
	m[2][2] = far / (far - near)
	m[3][2] = (-far * near) / (far - near)
	m[2][3] = 1
	m[3][3] = 0
	return m
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row][k] * b[k][col]
			}
			m[row][col] = sum
		}
	}
	return m
}

// MulVec4 transforms a homogeneous row vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		v.X*m[0][0] + v.Y*m[1][0] + v.Z*m[2][0] + v.W*m[3][0],
		v.X*m[0][1] + v.Y*m[1][1] + v.Z*m[2][1] + v.W*m[3][1],
		v.X*m[0][2] + v.Y*m[1][2] + v.Z*m[2][2] + v.W*m[3][2],
		v.X*m[0][3] + v.Y*m[1][3] + v.Z*m[2][3] + v.W*m[3][3],
	}
}

// MulVec3 transforms a Vec3 as a point (w=1) and divides by the resulting
// w when it is non-zero. For affine matrices w is 1 and the divide is a
// no-op; after a projection matrix it is the perspective divide.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 1)).PerspectiveDivide()
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 0)).Vec3()
}

// Row returns the first three entries of row i.
func (m Mat4) Row(i int) Vec3 {
	return Vec3{m[i][0], m[i][1], m[i][2]}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for row := range 4 {
		for col := range 4 {
			t[col][row] = m[row][col]
		}
	}
	return t
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	var det float64
	sign := 1.0
	for col := range 4 {
		det += sign * m[0][col] * m.minor(0, col)
		sign = -sign
	}
	return det
}

// minor returns the determinant of the 3x3 matrix left after removing row r
// and column c.
func (m Mat4) minor(r, c int) float64 {
	var s [3][3]float64
	si := 0
	for row := range 4 {
		if row == r {
			continue
		}
		sj := 0
		for col := range 4 {
			if col == c {
				continue
			}
			s[si][sj] = m[row][col]
			sj++
		}
		si++
	}
	return s[0][0]*(s[1][1]*s[2][2]-s[1][2]*s[2][1]) -
		s[0][1]*(s[1][0]*s[2][2]-s[1][2]*s[2][0]) +
		s[0][2]*(s[1][0]*s[2][1]-s[1][1]*s[2][0])
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return m.Row(3)
}
