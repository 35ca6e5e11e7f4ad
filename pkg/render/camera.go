package render

import (
	"github.com/taigrr/painter/pkg/math3d"
)

// Movement is one frame's camera input. Each axis is a rate in [-1, 1]
// that Camera.Apply scales by speed and elapsed time.
type Movement struct {
	Strafe   float64 // +right
	Forward  float64 // +along the look direction
	Vertical float64 // +up
	Yaw      float64 // +turn right
}

// IsZero reports whether the movement does nothing.
func (m Movement) IsZero() bool {
	return m == Movement{}
}

// Camera is a free-fly camera with a fixed world up of (0, 1, 0).
type Camera struct {
	Position math3d.Vec3
	LookDir  math3d.Vec3 // unit length

	Speed    float64 // units per second
	TurnRate float64 // radians per second
}

// NewCamera creates a camera at the origin looking down +Z.
func NewCamera() *Camera {
	return &Camera{
		Position: math3d.Zero3(),
		LookDir:  math3d.Forward(),
		Speed:    8,
		TurnRate: 2,
	}
}

// Right returns the strafe direction, cross(look, up). With the screen X
// flip this points to the right-hand side of the image.
func (c *Camera) Right() math3d.Vec3 {
	return c.LookDir.Cross(math3d.Up())
}

// Apply integrates one frame of movement over dt seconds.
func (c *Camera) Apply(m Movement, dt float64) {
	if m.Yaw != 0 {
		turn := math3d.RotateY(m.Yaw * c.TurnRate * dt)
		c.LookDir = turn.MulVec3Dir(c.LookDir).Normalize()
	}

	step := c.Speed * dt
	c.Position = c.Position.
		Add(c.LookDir.Scale(m.Forward * step)).
		Add(math3d.Up().Scale(m.Vertical * step)).
		Add(c.Right().Scale(m.Strafe * step))
}

// Basis returns the camera's point-at matrix.
func (c *Camera) Basis() math3d.Rigid {
	return math3d.PointAt(c.Position, c.Position.Add(c.LookDir), math3d.Up())
}

// View returns the world-to-view matrix.
func (c *Camera) View() math3d.Mat4 {
	return c.Basis().QuickInverse()
}
