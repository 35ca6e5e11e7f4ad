package render

import (
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/taigrr/painter/pkg/math3d"
	"github.com/taigrr/painter/pkg/models"
)

func cubeContext(offset math3d.Vec3) *Context {
	c := NewContext(models.UnitCube(), 1280, 720)
	c.World.Offset = offset
	return c
}

func shades(tris []Triangle) []float64 {
	out := make([]float64, len(tris))
	for i, t := range tris {
		out[i] = t.Shade
	}
	slices.Sort(out)
	return out
}

func isBackToFront(tris []Triangle) bool {
	return slices.IsSortedFunc(tris, func(a, b Triangle) int {
		switch {
		case a.AvgZ() > b.AvgZ():
			return -1
		case a.AvgZ() < b.AvgZ():
			return 1
		}
		return 0
	})
}

func TestCubeVisibleFaces(t *testing.T) {
	cube := models.UnitCube()
	eye := math3d.Zero3()

	tests := []struct {
		name   string
		offset math3d.Vec3
		want   []int
	}{
		{"front face only", math3d.V3(-0.5, -0.5, 3), []int{0, 1}},
		{"south west bottom", math3d.V3(1, 1, 3), []int{0, 1, 6, 7, 10, 11}},
		{"edge-on sides culled", math3d.V3(0, 0, 5), []int{0, 1}},
		{"north face from behind", math3d.V3(-0.5, -0.5, -3), []int{4, 5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			world := WorldMatrix(0, tc.offset)

			var got []int
			for i := range cube.TriangleCount() {
				tri := Triangle{P: cube.Triangle(i)}.Transform(world)
				if Facing(tri, tri.Normal(), eye) {
					got = append(got, i)
				}
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("visible triangles (-want +got):\n%s", diff)
			}
		})
	}
}

func TestContextCubeScenarios(t *testing.T) {
	half := math.Sqrt2 / 2

	tests := []struct {
		name       string
		offset     math3d.Vec3
		wantStats  FrameStats
		wantShades []float64
	}{
		{
			name:   "front face only",
			offset: math3d.V3(-0.5, -0.5, 3),
			wantStats: FrameStats{
				Input: 12, Culled: 10, Visible: 2, Projected: 2, Emitted: 2,
			},
			wantShades: []float64{half, half},
		},
		{
			name:   "three faces",
			offset: math3d.V3(1, 1, 3),
			wantStats: FrameStats{
				Input: 12, Culled: 6, Visible: 6, Projected: 6, Emitted: 6,
			},
			wantShades: []float64{MinShade, MinShade, MinShade, MinShade, half, half},
		},
		{
			name:      "behind the camera",
			offset:    math3d.V3(0, 0, -5),
			wantStats: FrameStats{Input: 12, MeshRejected: true},
		},
		{
			name:   "front face behind near plane",
			offset: math3d.V3(-0.5, -0.5, 0.05),
			wantStats: FrameStats{
				Input: 12, Culled: 10, Visible: 2, NearClipped: 2,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tris, stats := cubeContext(tc.offset).Render()

			if diff := cmp.Diff(tc.wantStats, stats); diff != "" {
				t.Errorf("stats mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantShades, shades(tris), approx, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("shades mismatch (-want +got):\n%s", diff)
			}
			if !isBackToFront(tris) {
				t.Error("output is not sorted back to front")
			}
		})
	}
}

func TestContextScreenClip(t *testing.T) {
	c := cubeContext(math3d.V3(-0.5, -0.5, 0.3))
	tris, stats := c.Render()

	if stats.Visible != 2 || stats.Projected != 2 {
		t.Fatalf("stats = %+v, want the front face projected", stats)
	}
	if stats.Emitted <= stats.Projected {
		t.Errorf("Emitted = %d, want more fragments than the %d projected", stats.Emitted, stats.Projected)
	}

	vp := c.Viewport()
	maxX := float64(vp.Width - 1)
	maxY := float64(vp.Height - 1)
	for i, tri := range tris {
		for _, p := range tri.P {
			if p.X < -eps || p.X > maxX+eps || p.Y < -eps || p.Y > maxY+eps {
				t.Errorf("triangle %d vertex %v outside the viewport", i, p)
			}
		}
		if math.Abs(tri.Shade-math.Sqrt2/2) > eps {
			t.Errorf("triangle %d shade = %v, fragments must keep the face shade", i, tri.Shade)
		}
	}
}

func TestContextNearClipSplits(t *testing.T) {
	// The near plane cuts through the front face.
	c := NewContext(triList{
		{math3d.V3(-1, -1, 0.05), math3d.V3(-1, 1, 0.05), math3d.V3(1, 1, 2)},
	}, 200, 200)
	c.World.Offset = math3d.Zero3()

	_, stats := c.Render()
	if stats.Visible != 1 || stats.NearClipped != 1 {
		t.Fatalf("stats = %+v, want one near-clipped triangle", stats)
	}
	if stats.Projected < 1 || stats.Projected > 2 {
		t.Errorf("Projected = %d, want 1 or 2", stats.Projected)
	}
}

func TestContextUnboundedMesh(t *testing.T) {
	// triList has no Bounds, so only per-triangle work rejects it.
	c := NewContext(triList{
		{math3d.V3(-1, -1, -5), math3d.V3(-1, 1, -5), math3d.V3(1, 1, -5)},
	}, 200, 200)
	c.World.Offset = math3d.Zero3()

	tris, stats := c.Render()
	if stats.MeshRejected {
		t.Error("unbounded mesh should not be rejected by bounds")
	}
	if len(tris) != 0 {
		t.Errorf("got %d triangles, want none", len(tris))
	}
}

func TestContextNilMesh(t *testing.T) {
	c := NewContext(nil, 100, 100)
	tris, stats := c.Render()
	if tris != nil || stats != (FrameStats{}) {
		t.Errorf("Render with nil mesh = %v, %+v", tris, stats)
	}
}

func TestContextFrame(t *testing.T) {
	c := cubeContext(math3d.V3(-0.5, -0.5, 3))
	c.World.Spin = 1

	_, stats := c.Frame(Movement{Forward: 1}, 0.25)

	if c.World.Theta != 0.25 {
		t.Errorf("Theta = %v, want 0.25", c.World.Theta)
	}
	if diff := cmp.Diff(math3d.V3(0, 0, 2), c.Camera.Position, approx); diff != "" {
		t.Errorf("camera position (-want +got):\n%s", diff)
	}
	if stats.Input != 12 || stats.Emitted == 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestContextResize(t *testing.T) {
	c := cubeContext(math3d.V3(-0.5, -0.5, 3))
	before := c.ProjectionMatrix()

	c.Resize(100, 100)

	if c.Viewport() != (Viewport{Width: 100, Height: 100}) {
		t.Errorf("Viewport = %v", c.Viewport())
	}
	if c.ProjectionMatrix() == before {
		t.Error("projection matrix not rebuilt on resize")
	}

	c.SetProjection(Projection{FOV: 60, Near: 0.5, Far: 100})
	want := math3d.Projection(60, 1, 0.5, 100)
	if diff := cmp.Diff(want, c.ProjectionMatrix(), approx); diff != "" {
		t.Errorf("projection (-want +got):\n%s", diff)
	}
}

func TestContextsAreIndependent(t *testing.T) {
	a := cubeContext(math3d.V3(-0.5, -0.5, 3))
	b := cubeContext(math3d.V3(-0.5, -0.5, 3))

	a.Frame(Movement{Forward: 1, Yaw: 1}, 0.5)

	if b.Camera.Position != math3d.Zero3() || b.Camera.LookDir != math3d.Forward() {
		t.Error("moving one context's camera moved the other")
	}
	_, stats := b.Render()
	if stats.Emitted != 2 {
		t.Errorf("untouched context emitted %d, want 2", stats.Emitted)
	}
}

func BenchmarkContextRender(b *testing.B) {
	mesh := models.UnitCube()
	c := NewContext(mesh, 320, 200)
	c.World.Offset = math3d.V3(-0.5, -0.5, 2)
	c.World.Spin = 0.7

	for b.Loop() {
		c.Frame(Movement{}, 1.0/60)
	}
}
