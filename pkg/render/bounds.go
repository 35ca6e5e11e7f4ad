package render

import (
	"github.com/taigrr/painter/pkg/math3d"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Bounded is implemented by meshes that know their model-space bounds.
type Bounded interface {
	Bounds() (min, max math3d.Vec3)
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// Transform returns an AABB that bounds the original AABB after transformation.
// This computes a new AABB that contains all 8 transformed corners.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := b.Corners()

	newMin := m.MulVec3(corners[0])
	newMax := newMin
	for _, c := range corners[1:] {
		p := m.MulVec3(c)
		newMin = newMin.Min(p)
		newMax = newMax.Max(p)
	}

	return AABB{Min: newMin, Max: newMax}
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Outside reports whether the whole box lies on the outside of the plane.
// Only the corner furthest along the normal needs testing.
func (b AABB) Outside(p Plane) bool {
	n := p.Normal.Normalize()
	pVertex := math3d.V3(
		selectComponent(n.X >= 0, b.Max.X, b.Min.X),
		selectComponent(n.Y >= 0, b.Max.Y, b.Min.Y),
		selectComponent(n.Z >= 0, b.Max.Z, b.Min.Z),
	)
	return Plane{Point: p.Point, Normal: n}.SignedDistance(pVertex) < 0
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
