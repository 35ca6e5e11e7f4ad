package render

import (
	"cmp"
	"slices"

	"github.com/taigrr/painter/pkg/math3d"
)

// MeshSource supplies model-space triangles to the pipeline.
type MeshSource interface {
	TriangleCount() int
	Triangle(i int) [3]math3d.Vec3
}

// Viewport is the pixel size of the target surface.
type Viewport struct {
	Width  int
	Height int
}

// Aspect returns height/width, the aspect term of the projection matrix.
func (v Viewport) Aspect() float64 {
	return float64(v.Height) / float64(v.Width)
}

// EdgePlanes returns the screen-space clip planes in clip order: top,
// bottom, left, right.
func (v Viewport) EdgePlanes() [4]Plane {
	w := float64(v.Width)
	h := float64(v.Height)
	return [4]Plane{
		{Point: math3d.V3(0, 0, 0), Normal: math3d.V3(0, 1, 0)},
		{Point: math3d.V3(0, h-1, 0), Normal: math3d.V3(0, -1, 0)},
		{Point: math3d.V3(0, 0, 0), Normal: math3d.V3(1, 0, 0)},
		{Point: math3d.V3(w-1, 0, 0), Normal: math3d.V3(-1, 0, 0)},
	}
}

// NearPlane returns the view-space near clip plane at distance near.
func NearPlane(near float64) Plane {
	return Plane{Point: math3d.V3(0, 0, near), Normal: math3d.V3(0, 0, 1)}
}

// WorldMatrix composes the model-to-world transform: rotation about Y
// first, then translation.
func WorldMatrix(theta float64, offset math3d.Vec3) math3d.Mat4 {
	return math3d.RotateY(theta).Mul(math3d.Translate(offset))
}

// Facing reports whether a world-space triangle with the given unit normal
// faces the eye. Faces with dot(normal, p0-eye) >= 0 point away.
func Facing(t Triangle, normal, eye math3d.Vec3) bool {
	camRay := t.P[0].Sub(eye)
	return normal.Dot(camRay) < 0
}

// TransformAndCull moves every mesh triangle to world space, drops the ones
// facing away from eye and shades the survivors. Survivors are appended to
// dst in mesh order.
func TransformAndCull(dst []Triangle, mesh MeshSource, world math3d.Mat4, eye, light math3d.Vec3) []Triangle {
	for i := range mesh.TriangleCount() {
		p := mesh.Triangle(i)
		tri := Triangle{P: p}.Transform(world)

		normal := tri.Normal()
		if !Facing(tri, normal, eye) {
			continue
		}

		tri.Shade = ShadeFor(normal, light)
		dst = append(dst, tri)
	}
	return dst
}

// ProjectToScreen projects a view-space triangle, flips X and Y and maps
// normalized device coordinates to pixels.
func ProjectToScreen(t Triangle, proj math3d.Mat4, vp Viewport) Triangle {
	out := t.Transform(proj)

	halfW := 0.5 * float64(vp.Width)
	halfH := 0.5 * float64(vp.Height)
	offset := math3d.V3(1, 1, 0)
	for i := range out.P {
		p := out.P[i]
		p.X = -p.X
		p.Y = -p.Y
		p = p.Add(offset)
		p.X *= halfW
		p.Y *= halfH
		out.P[i] = p
	}
	return out
}

// ProjectAndClip takes world-space triangles to view space, clips them
// against near and projects the fragments to screen space. It appends to
// dst and returns the number of triangles the near plane changed or dropped.
func ProjectAndClip(dst []Triangle, tris []Triangle, view, proj math3d.Mat4, near Plane, vp Viewport) ([]Triangle, int) {
	clipped := 0
	for _, t := range tris {
		viewed := t.Transform(view)

		frags, n := ClipAgainstPlane(near, viewed)
		if n != 1 || frags[0] != viewed {
			clipped++
		}
		for _, f := range frags[:n] {
			dst = append(dst, ProjectToScreen(f, proj, vp))
		}
	}
	return dst, clipped
}

// ClipScreenEdges clips screen-space triangles against the four viewport
// edges. Each plane consumes the whole queue before the next one runs, so a
// fragment is never tested twice against the same edge.
func ClipScreenEdges(tris []Triangle, vp Viewport) []Triangle {
	queue := slices.Clone(tris)
	next := make([]Triangle, 0, len(tris))

	for _, plane := range vp.EdgePlanes() {
		next = next[:0]
		for _, t := range queue {
			frags, n := ClipAgainstPlane(plane, t)
			next = append(next, frags[:n]...)
		}
		queue, next = next, queue
	}
	return queue
}

// DepthSort orders triangles back to front by average Z. Ties keep no
// particular order.
func DepthSort(tris []Triangle) {
	slices.SortFunc(tris, func(a, b Triangle) int {
		return cmp.Compare(b.AvgZ(), a.AvgZ())
	})
}
