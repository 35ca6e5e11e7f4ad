// Package render implements the painter geometry pipeline: transform and
// back-face cull, near-plane clip, projection to screen space, screen-edge
// clip and back-to-front depth sort.
package render

import (
	"math"

	"github.com/taigrr/painter/pkg/math3d"
)

// MinShade is the floor applied to the shade intensity so no visible face
// renders fully black.
const MinShade = 0.1

// Triangle is a pipeline triangle: three vertices and a flat shade
// intensity. Triangles are values; every stage returns new ones.
type Triangle struct {
	P     [3]math3d.Vec3
	Shade float64
}

// Tri builds a triangle with full shade.
func Tri(p0, p1, p2 math3d.Vec3) Triangle {
	return Triangle{P: [3]math3d.Vec3{p0, p1, p2}, Shade: 1}
}

// Transform applies m to all three vertices.
func (t Triangle) Transform(m math3d.Mat4) Triangle {
	return Triangle{
		P: [3]math3d.Vec3{
			m.MulVec3(t.P[0]),
			m.MulVec3(t.P[1]),
			m.MulVec3(t.P[2]),
		},
		Shade: t.Shade,
	}
}

// Normal returns the unit face normal cross(p1-p0, p2-p0).
func (t Triangle) Normal() math3d.Vec3 {
	line1 := t.P[1].Sub(t.P[0])
	line2 := t.P[2].Sub(t.P[0])
	return line1.Cross(line2).Normalize()
}

// AvgZ returns the mean depth of the three vertices.
func (t Triangle) AvgZ() float64 {
	return (t.P[0].Z + t.P[1].Z + t.P[2].Z) / 3
}

// Screen returns the 2D screen points handed to the rasterizer.
func (t Triangle) Screen() [3]math3d.Vec2 {
	return [3]math3d.Vec2{t.P[0].XY(), t.P[1].XY(), t.P[2].XY()}
}

// Area returns the signed area of the XY projection.
func (t Triangle) Area() float64 {
	s := t.Screen()
	return s[1].Sub(s[0]).Cross(s[2].Sub(s[0])) / 2
}

// ShadeFor returns the flat-shade intensity of a face with the given unit
// normal under a light direction, floored at MinShade.
func ShadeFor(normal, light math3d.Vec3) float64 {
	return math.Max(MinShade, light.Normalize().Dot(normal))
}
