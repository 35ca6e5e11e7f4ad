package engine

import (
	"slices"

	"github.com/taigrr/painter/pkg/render"
)

// RasterBackend paints each frame into its rasterizer's framebuffer, then
// hands the framebuffer to Flush when set.
type RasterBackend struct {
	Rasterizer *render.Rasterizer
	Background render.Color
	Flush      func(fb *render.Framebuffer) error
}

// Present clears the framebuffer and draws tris in order.
func (b *RasterBackend) Present(tris []render.Triangle, _ render.FrameStats) error {
	fb := b.Rasterizer.Framebuffer()
	fb.Clear(b.Background)
	b.Rasterizer.Reset()
	b.Rasterizer.DrawTriangles(tris)
	if b.Flush == nil {
		return nil
	}
	return b.Flush(fb)
}

// Recorder keeps a copy of the most recent frame.
type Recorder struct {
	Triangles []render.Triangle
	Stats     render.FrameStats
	Frames    int
}

// Present stores the frame.
func (r *Recorder) Present(tris []render.Triangle, stats render.FrameStats) error {
	r.Triangles = slices.Clone(tris)
	r.Stats = stats
	r.Frames++
	return nil
}

// Multi fans a frame out to several backends, stopping at the first error.
type Multi []Backend

// Present forwards to every backend in order.
func (m Multi) Present(tris []render.Triangle, stats render.FrameStats) error {
	for _, b := range m {
		if err := b.Present(tris, stats); err != nil {
			return err
		}
	}
	return nil
}
