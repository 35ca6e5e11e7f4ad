package render

import (
	"fmt"
	"image/color"
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each cell is an upper half block: fg is the top pixel, bg the one
// below it.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(col, topY)),
					Bg: rgbaToColor(fb.GetPixel(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// CellsToPixels returns the framebuffer size for a terminal of the given
// columns and rows.
func CellsToPixels(cols, rows int) (width, height int) {
	return cols, rows * 2
}

func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // transparent = terminal default
	}
	return c
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorGreen = color.RGBA{0, 255, 128, 255}
	ColorSlate = color.RGBA{30, 30, 40, 255}
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// ParseColor parses "R,G,B" with each channel in 0..255.
func ParseColor(s string) (Color, error) {
	var r, g, b int
	n, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "%d,%d,%d", &r, &g, &b)
	if err != nil || n != 3 {
		return Color{}, fmt.Errorf("parse color %q: want R,G,B", s)
	}
	for _, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			return Color{}, fmt.Errorf("parse color %q: channel %d out of range", s, v)
		}
	}
	return RGB(uint8(r), uint8(g), uint8(b)), nil
}

// FormatColor is the inverse of ParseColor.
func FormatColor(c Color) string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}
