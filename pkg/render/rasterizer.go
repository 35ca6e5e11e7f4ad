package render

import (
	"fmt"
	"math"

	"github.com/taigrr/painter/pkg/math3d"
)

// Mode controls how triangles are drawn.
type Mode int

const (
	ModeSolid     Mode = iota // flat-shaded fill
	ModeWireframe             // outlines only
	ModeBoth                  // fill plus outlines
)

// String returns the config spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSolid:
		return "solid"
	case ModeWireframe:
		return "wireframe"
	case ModeBoth:
		return "both"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "solid", "wireframe" or "both".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "solid", "":
		return ModeSolid, nil
	case "wireframe", "wire":
		return ModeWireframe, nil
	case "both":
		return ModeBoth, nil
	}
	return ModeSolid, fmt.Errorf("unknown render mode %q", s)
}

// Rasterizer fills screen-space triangles into a framebuffer. It keeps no
// depth buffer: callers draw back to front.
type Rasterizer struct {
	fb *Framebuffer

	Mode      Mode
	Color     Color // base fill color, scaled by shade
	WireColor Color

	Drawn int // triangles drawn since the last Reset
}

// NewRasterizer creates a solid-mode rasterizer drawing into fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{
		fb:        fb,
		Mode:      ModeSolid,
		Color:     ColorWhite,
		WireColor: ColorBlack,
	}
}

// Framebuffer returns the target framebuffer.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// SetFramebuffer retargets the rasterizer, e.g. after a resize.
func (r *Rasterizer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
}

// Reset clears the draw counter.
func (r *Rasterizer) Reset() {
	r.Drawn = 0
}

// ShadeColor scales the RGB channels of c by shade, clamped to [0, 1].
func ShadeColor(c Color, shade float64) Color {
	s := math.Max(0, math.Min(1, shade))
	return Color{
		R: uint8(float64(c.R) * s),
		G: uint8(float64(c.G) * s),
		B: uint8(float64(c.B) * s),
		A: c.A,
	}
}

// DrawTriangles draws an ordered triangle list.
func (r *Rasterizer) DrawTriangles(tris []Triangle) {
	for _, t := range tris {
		r.DrawTriangle(t)
	}
}

// DrawTriangle draws one screen-space triangle according to the mode.
func (r *Rasterizer) DrawTriangle(t Triangle) {
	s := t.Screen()
	if r.Mode != ModeWireframe {
		r.fill(s, ShadeColor(r.Color, t.Shade))
	}
	if r.Mode != ModeSolid {
		r.outline(s, r.WireColor)
	}
	r.Drawn++
}

// fill covers every pixel whose center lies inside the triangle. Either
// winding is accepted since the screen flip mirrors the mesh's.
func (r *Rasterizer) fill(s [3]math3d.Vec2, c Color) {
	area := s[1].Sub(s[0]).Cross(s[2].Sub(s[0]))
	if area == 0 || math.IsNaN(area) {
		return
	}

	minX := int(math.Max(0, math.Floor(min3(s[0].X, s[1].X, s[2].X))))
	maxX := int(math.Min(float64(r.fb.Width-1), math.Ceil(max3(s[0].X, s[1].X, s[2].X))))
	minY := int(math.Max(0, math.Floor(min3(s[0].Y, s[1].Y, s[2].Y))))
	maxY := int(math.Min(float64(r.fb.Height-1), math.Ceil(max3(s[0].Y, s[1].Y, s[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			bc := barycentric(s, math3d.V2(float64(x)+0.5, float64(y)+0.5))
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}
			r.fb.SetPixel(x, y, c)
		}
	}
}

func (r *Rasterizer) outline(s [3]math3d.Vec2, c Color) {
	for i := range 3 {
		a, b := s[i], s[(i+1)%3]
		r.fb.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), c)
	}
}

// barycentric returns the weights of p relative to the triangle's
// vertices, in vertex order.
func barycentric(s [3]math3d.Vec2, p math3d.Vec2) math3d.Vec3 {
	v0 := s[2].Sub(s[0])
	v1 := s[1].Sub(s[0])
	v2 := p.Sub(s[0])

	dot00 := v0.X*v0.X + v0.Y*v0.Y
	dot01 := v0.X*v1.X + v0.Y*v1.Y
	dot02 := v0.X*v2.X + v0.Y*v2.Y
	dot11 := v1.X*v1.X + v1.Y*v1.Y
	dot12 := v1.X*v2.X + v1.Y*v2.Y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
