package render

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/taigrr/painter/pkg/math3d"
)

func TestNewCameraView(t *testing.T) {
	c := NewCamera()

	if diff := cmp.Diff(math3d.Identity(), c.View(), approx); diff != "" {
		t.Errorf("default view is not identity (-want +got):\n%s", diff)
	}
	if got := c.Right(); got != math3d.V3(-1, 0, 0) {
		t.Errorf("Right = %v, want (-1,0,0)", got)
	}
}

func TestCameraApply(t *testing.T) {
	tests := []struct {
		name    string
		move    Movement
		dt      float64
		wantPos math3d.Vec3
		wantDir math3d.Vec3
	}{
		{"idle", Movement{}, 1, math3d.V3(0, 0, 0), math3d.V3(0, 0, 1)},
		{"forward", Movement{Forward: 1}, 0.5, math3d.V3(0, 0, 4), math3d.V3(0, 0, 1)},
		{"backward", Movement{Forward: -1}, 0.25, math3d.V3(0, 0, -2), math3d.V3(0, 0, 1)},
		{"up", Movement{Vertical: 1}, 0.5, math3d.V3(0, 4, 0), math3d.V3(0, 0, 1)},
		{"strafe right", Movement{Strafe: 1}, 0.5, math3d.V3(-4, 0, 0), math3d.V3(0, 0, 1)},
		{"quarter turn", Movement{Yaw: 1}, math.Pi / 4, math3d.V3(0, 0, 0), math3d.V3(-1, 0, 0)},
		{"zero dt", Movement{Forward: 1, Yaw: 1}, 0, math3d.V3(0, 0, 0), math3d.V3(0, 0, 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCamera()
			c.Apply(tc.move, tc.dt)

			if diff := cmp.Diff(tc.wantPos, c.Position, approx); diff != "" {
				t.Errorf("position (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantDir, c.LookDir, approx); diff != "" {
				t.Errorf("look direction (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCameraTurnThenMove(t *testing.T) {
	c := NewCamera()
	c.Apply(Movement{Yaw: 1}, math.Pi/4)
	c.Apply(Movement{Forward: 1}, 0.125)

	if diff := cmp.Diff(math3d.V3(-1, 0, 0), c.Position, approx); diff != "" {
		t.Errorf("position (-want +got):\n%s", diff)
	}
	if l := c.LookDir.Len(); math.Abs(l-1) > eps {
		t.Errorf("look direction length = %v", l)
	}
}

func TestCameraViewMapsPositionToOrigin(t *testing.T) {
	c := NewCamera()
	c.Position = math3d.V3(3, -2, 7)
	c.Apply(Movement{Yaw: 0.3}, 1)

	view := c.View()
	if diff := cmp.Diff(math3d.Zero3(), view.MulVec3(c.Position), approx); diff != "" {
		t.Errorf("eye in view space (-want +got):\n%s", diff)
	}

	ahead := view.MulVec3(c.Position.Add(c.LookDir.Scale(5)))
	if diff := cmp.Diff(math3d.V3(0, 0, 5), ahead, approx); diff != "" {
		t.Errorf("point ahead in view space (-want +got):\n%s", diff)
	}
}

func TestMovementIsZero(t *testing.T) {
	if !(Movement{}).IsZero() {
		t.Error("empty movement should be zero")
	}
	if (Movement{Yaw: 0.1}).IsZero() {
		t.Error("yaw movement should not be zero")
	}
}
