package render

import (
	"github.com/taigrr/painter/pkg/math3d"
)

// Plane is a clip plane given by a point on it and a unit normal. Points on
// the normal's side are inside.
type Plane struct {
	Point  math3d.Vec3
	Normal math3d.Vec3
}

// NewPlane creates a plane, normalizing the normal.
func NewPlane(point, normal math3d.Vec3) Plane {
	return Plane{Point: point, Normal: normal.Normalize()}
}

// SignedDistance returns the signed distance from the plane to a point.
// Positive = inside (same side as normal), negative = outside.
func (p Plane) SignedDistance(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) - p.Normal.Dot(p.Point)
}

// Intersect returns where the segment from a to b crosses the plane.
func (p Plane) Intersect(a, b math3d.Vec3) math3d.Vec3 {
	v, _ := math3d.IntersectPlane(p.Point, p.Normal, a, b)
	return v
}

// ClipAgainstPlane clips tri against plane and returns the surviving
// fragments in out[:n], n in {0, 1, 2}. A vertex at distance >= 0 counts as
// inside. Outputs keep the input's winding and shade.
func ClipAgainstPlane(plane Plane, tri Triangle) (out [2]Triangle, n int) {
	plane.Normal = plane.Normal.Normalize()

	var inside, outside [3]int
	nIn, nOut := 0, 0
	for i := range 3 {
		if plane.SignedDistance(tri.P[i]) >= 0 {
			inside[nIn] = i
			nIn++
		} else {
			outside[nOut] = i
			nOut++
		}
	}

	switch nIn {
	case 0:
		return out, 0

	case 3:
		out[0] = tri
		return out, 1

	case 1:
		// Walk the vertices starting at the lone inside one so the output
		// keeps the input's cyclic order.
		k := inside[0]
		a := tri.P[k]
		b := tri.P[(k+1)%3]
		c := tri.P[(k+2)%3]

		out[0] = Triangle{
			P:     [3]math3d.Vec3{a, plane.Intersect(a, b), plane.Intersect(a, c)},
			Shade: tri.Shade,
		}
		return out, 1

	case 2:
		// The clipped shape is a quad (ab, b, c, ca) in input order. Split it
		// along b-ab so both halves share the intersection on edge a-b.
		k := outside[0]
		a := tri.P[k]
		b := tri.P[(k+1)%3]
		c := tri.P[(k+2)%3]

		ab := plane.Intersect(b, a)
		ca := plane.Intersect(c, a)

		out[0] = Triangle{
			P:     [3]math3d.Vec3{b, c, ab},
			Shade: tri.Shade,
		}
		out[1] = Triangle{
			P:     [3]math3d.Vec3{c, ca, ab},
			Shade: tri.Shade,
		}
		return out, 2
	}

	// nIn is always 0..3.
	panic("render: impossible inside count")
}
