package render

import (
	"github.com/taigrr/painter/pkg/math3d"
)

// Projection holds the perspective parameters. Far must exceed Near.
type Projection struct {
	FOV  float64 // degrees
	Near float64
	Far  float64
}

// DefaultProjection returns a 90 degree projection with near 0.1 and far 1000.
func DefaultProjection() Projection {
	return Projection{FOV: 90, Near: 0.1, Far: 1000}
}

// Matrix builds the projection matrix for a viewport.
func (p Projection) Matrix(vp Viewport) math3d.Mat4 {
	return math3d.Projection(p.FOV, vp.Aspect(), p.Near, p.Far)
}

// World places the mesh: a rotation about Y followed by a translation.
// Spin advances Theta by radians per second on every frame.
type World struct {
	Offset math3d.Vec3
	Theta  float64
	Spin   float64
}

// Matrix returns the model-to-world transform.
func (w World) Matrix() math3d.Mat4 {
	return WorldMatrix(w.Theta, w.Offset)
}

// FrameStats counts what each stage did during one frame.
type FrameStats struct {
	Input        int  // mesh triangles
	Culled       int  // back faces dropped
	Visible      int  // survivors of back-face culling
	NearClipped  int  // visible triangles changed or dropped by the near plane
	Projected    int  // triangles reaching the screen-edge clip
	Emitted      int  // triangles handed to the rasterizer
	MeshRejected bool // mesh bounds entirely behind the near plane
}

// Context owns everything one pipeline needs: the mesh, camera, world
// placement, projection and viewport. Contexts share no state.
type Context struct {
	Mesh       MeshSource
	Camera     *Camera
	World      World
	Light      math3d.Vec3
	Projection Projection

	viewport Viewport
	proj     math3d.Mat4
	bounds   AABB
	bounded  bool
}

// NewContext creates a context rendering mesh into a viewport of the given
// size with the default camera, projection and light.
func NewContext(mesh MeshSource, width, height int) *Context {
	c := &Context{
		Camera:     NewCamera(),
		World:      World{Offset: math3d.V3(0, 0, 5)},
		Light:      math3d.V3(0, 1, -1),
		Projection: DefaultProjection(),
	}
	c.SetMesh(mesh)
	c.Resize(width, height)
	return c
}

// SetMesh replaces the mesh and refreshes the cached bounds.
func (c *Context) SetMesh(mesh MeshSource) {
	c.Mesh = mesh
	c.bounded = false
	if b, ok := mesh.(Bounded); ok {
		lo, hi := b.Bounds()
		c.bounds = NewAABB(lo, hi)
		c.bounded = true
	}
}

// SetProjection replaces the projection parameters.
func (c *Context) SetProjection(p Projection) {
	c.Projection = p
	c.proj = p.Matrix(c.viewport)
}

// Resize changes the viewport and rebuilds the projection matrix.
func (c *Context) Resize(width, height int) {
	c.viewport = Viewport{Width: width, Height: height}
	c.proj = c.Projection.Matrix(c.viewport)
}

// Viewport returns the current viewport.
func (c *Context) Viewport() Viewport {
	return c.viewport
}

// ProjectionMatrix returns the cached projection matrix.
func (c *Context) ProjectionMatrix() math3d.Mat4 {
	return c.proj
}

// Frame advances the camera and world by dt seconds and runs the geometry
// pipeline. The result is ordered back to front.
func (c *Context) Frame(mv Movement, dt float64) ([]Triangle, FrameStats) {
	c.Camera.Apply(mv, dt)
	c.World.Theta += c.World.Spin * dt
	return c.Render()
}

// Render runs the pipeline for the current state without advancing time.
func (c *Context) Render() ([]Triangle, FrameStats) {
	var stats FrameStats
	if c.Mesh == nil {
		return nil, stats
	}
	stats.Input = c.Mesh.TriangleCount()

	world := c.World.Matrix()
	view := c.Camera.View()
	near := NearPlane(c.Projection.Near)

	if c.bounded && c.bounds.Transform(world.Mul(view)).Outside(near) {
		stats.MeshRejected = true
		return nil, stats
	}

	visible := TransformAndCull(make([]Triangle, 0, stats.Input), c.Mesh, world, c.Camera.Position, c.Light)
	stats.Visible = len(visible)
	stats.Culled = stats.Input - stats.Visible

	projected, nearClipped := ProjectAndClip(make([]Triangle, 0, len(visible)), visible, view, c.proj, near, c.viewport)
	stats.NearClipped = nearClipped
	stats.Projected = len(projected)

	out := ClipScreenEdges(projected, c.viewport)
	DepthSort(out)
	stats.Emitted = len(out)

	return out, stats
}
