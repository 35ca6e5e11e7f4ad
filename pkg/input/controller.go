// Package input turns key presses into smoothed camera movement.
package input

import (
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/painter/pkg/render"
)

// DefaultRepeatWindow is how long a press counts as held without a repeat.
// Terminals send repeats every ~30-50ms after an initial ~500ms delay.
const DefaultRepeatWindow = 600 * time.Millisecond

// Action is a camera control.
type Action int

const (
	ActionNone Action = iota
	StrafeLeft
	StrafeRight
	MoveForward
	MoveBack
	MoveUp
	MoveDown
	TurnLeft
	TurnRight
)

// DefaultBindings maps key names, as matched by the terminal's key events,
// to actions.
var DefaultBindings = map[string]Action{
	"a":     StrafeLeft,
	"d":     StrafeRight,
	"w":     MoveForward,
	"s":     MoveBack,
	"e":     MoveUp,
	"q":     MoveDown,
	"left":  TurnLeft,
	"right": TurnRight,
}

type axisID int

const (
	axisStrafe axisID = iota
	axisForward
	axisVertical
	axisYaw
	numAxes
)

// axisFor returns the axis an action drives and its direction.
func axisFor(a Action) (axisID, float64, bool) {
	switch a {
	case StrafeLeft:
		return axisStrafe, -1, true
	case StrafeRight:
		return axisStrafe, 1, true
	case MoveForward:
		return axisForward, 1, true
	case MoveBack:
		return axisForward, -1, true
	case MoveUp:
		return axisVertical, 1, true
	case MoveDown:
		return axisVertical, -1, true
	case TurnLeft:
		return axisYaw, -1, true
	case TurnRight:
		return axisYaw, 1, true
	}
	return 0, 0, false
}

// Axis follows a target rate in [-1, 1] through a critically damped spring.
type Axis struct {
	Value    float64
	velocity float64
	target   float64
	pressed  time.Time
	spring   harmonica.Spring
}

func newAxis(fps int, frequency float64) Axis {
	return Axis{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, 1.0)}
}

// Update steps the spring one frame toward the target.
func (a *Axis) Update() {
	a.Value, a.velocity = a.spring.Update(a.Value, a.velocity, a.target)
}

// Controller accumulates key state and produces one render.Movement per
// frame. It is not safe for concurrent use.
type Controller struct {
	Bindings     map[string]Action
	RepeatWindow time.Duration

	axes      [numAxes]Axis
	fps       int
	frequency float64
}

// NewController creates a controller stepped fps times per second. Higher
// frequency makes the camera respond faster.
func NewController(fps int, frequency float64) *Controller {
	if fps <= 0 {
		fps = 60
	}
	c := &Controller{
		Bindings:     DefaultBindings,
		RepeatWindow: DefaultRepeatWindow,
		fps:          fps,
		frequency:    frequency,
	}
	c.Reset()
	return c
}

// Keys returns the bound key names, sorted.
func (c *Controller) Keys() []string {
	return slices.Sorted(maps.Keys(c.Bindings))
}

// Press records a press or repeat of key at now. It reports whether the
// key is bound.
func (c *Controller) Press(key string, now time.Time) bool {
	id, dir, ok := axisFor(c.Bindings[key])
	if !ok {
		return false
	}
	c.axes[id].target = dir
	c.axes[id].pressed = now
	return true
}

// Release clears key's axis if it is still driven in key's direction.
func (c *Controller) Release(key string) bool {
	id, dir, ok := axisFor(c.Bindings[key])
	if !ok {
		return false
	}
	if c.axes[id].target == dir {
		c.axes[id].target = 0
	}
	return true
}

// Update expires stale presses, steps every spring and returns the frame's
// movement.
func (c *Controller) Update(now time.Time) render.Movement {
	for i := range c.axes {
		a := &c.axes[i]
		if a.target != 0 && now.Sub(a.pressed) > c.RepeatWindow {
			a.target = 0
		}
		a.Update()
	}
	return render.Movement{
		Strafe:   c.axes[axisStrafe].Value,
		Forward:  c.axes[axisForward].Value,
		Vertical: c.axes[axisVertical].Value,
		Yaw:      c.axes[axisYaw].Value,
	}
}

// Reset stops all motion.
func (c *Controller) Reset() {
	for i := range c.axes {
		c.axes[i] = newAxis(c.fps, c.frequency)
	}
}
