// Package config loads painter settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/painter/pkg/math3d"
	"github.com/taigrr/painter/pkg/render"
)

const (
	DefaultWidth    = 160
	DefaultHeight   = 96
	DefaultFOV      = 90.0
	DefaultNear     = 0.1
	DefaultFar      = 1000.0
	DefaultMaxFPS   = 60
	DefaultSpeed    = 8.0
	DefaultTurnRate = 2.0
	DefaultDistance = 5.0
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Vec is a YAML-friendly 3D vector written as [x, y, z].
type Vec [3]float64

// Vec3 converts v to a math3d vector.
func (v Vec) Vec3() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

func (v Vec) isZero() bool {
	return v.Vec3().LenSq() == 0
}

type Config struct {
	Viewport   ViewportConfig   `yaml:"viewport"`
	Projection ProjectionConfig `yaml:"projection"`
	Light      Vec              `yaml:"light"`
	MaxFPS     int              `yaml:"max_fps"`
	Camera     CameraConfig     `yaml:"camera"`
	World      WorldConfig      `yaml:"world"`
	Models     []string         `yaml:"models"`
	Render     RenderConfig     `yaml:"render"`
}

// ViewportConfig sizes headless renders. The terminal viewer sizes itself
// from the window instead.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ProjectionConfig struct {
	FOV  float64 `yaml:"fov"`
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
}

type CameraConfig struct {
	Position Vec     `yaml:"position"`
	Look     Vec     `yaml:"look"`
	Speed    float64 `yaml:"speed"`
	TurnRate float64 `yaml:"turn_rate"`
}

type WorldConfig struct {
	Translate Vec     `yaml:"translate"`
	RotateY   float64 `yaml:"rotate_y"`
	Spin      float64 `yaml:"spin"`
	Fit       float64 `yaml:"fit"` // 0 keeps model units
}

type RenderConfig struct {
	Mode       string `yaml:"mode"`
	Color      string `yaml:"color"`
	Wire       string `yaml:"wire"`
	Background string `yaml:"background"`
}

func DefaultConfig() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Projection: ProjectionConfig{
			FOV:  DefaultFOV,
			Near: DefaultNear,
			Far:  DefaultFar,
		},
		Light:  Vec{0, 1, -1},
		MaxFPS: DefaultMaxFPS,
		Camera: CameraConfig{
			Look:     Vec{0, 0, 1},
			Speed:    DefaultSpeed,
			TurnRate: DefaultTurnRate,
		},
		World: WorldConfig{
			Translate: Vec{0, 0, DefaultDistance},
		},
		Models: []string{"cube"},
		Render: RenderConfig{
			Mode:       render.ModeSolid.String(),
			Color:      render.FormatColor(render.ColorWhite),
			Wire:       render.FormatColor(render.ColorGreen),
			Background: render.FormatColor(render.ColorSlate),
		},
	}
}

// Load reads path and overlays it onto DefaultConfig. The result is
// validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML onto DefaultConfig and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the pipeline cannot render with.
func (c *Config) Validate() error {
	switch {
	case c.Viewport.Width <= 0 || c.Viewport.Height <= 0:
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalid, c.Viewport.Width, c.Viewport.Height)
	case c.Projection.FOV <= 0 || c.Projection.FOV >= 180:
		return fmt.Errorf("%w: fov %v outside (0, 180)", ErrInvalid, c.Projection.FOV)
	case c.Projection.Near <= 0:
		return fmt.Errorf("%w: near %v must be positive", ErrInvalid, c.Projection.Near)
	case c.Projection.Far <= c.Projection.Near:
		return fmt.Errorf("%w: far %v must exceed near %v", ErrInvalid, c.Projection.Far, c.Projection.Near)
	case c.Light.isZero():
		return fmt.Errorf("%w: light direction is zero", ErrInvalid)
	case c.Camera.Look.isZero():
		return fmt.Errorf("%w: camera look direction is zero", ErrInvalid)
	case c.MaxFPS < 0:
		return fmt.Errorf("%w: max_fps %d is negative", ErrInvalid, c.MaxFPS)
	case c.World.Fit < 0:
		return fmt.Errorf("%w: fit %v is negative", ErrInvalid, c.World.Fit)
	}

	if _, err := render.ParseMode(c.Render.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for _, s := range []string{c.Render.Color, c.Render.Wire, c.Render.Background} {
		if _, err := render.ParseColor(s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	return nil
}

// ProjectionParams returns the render projection.
func (c *Config) ProjectionParams() render.Projection {
	return render.Projection{FOV: c.Projection.FOV, Near: c.Projection.Near, Far: c.Projection.Far}
}

// NewCamera builds a camera from the camera section.
func (c *Config) NewCamera() *render.Camera {
	cam := render.NewCamera()
	cam.Position = c.Camera.Position.Vec3()
	cam.LookDir = c.Camera.Look.Vec3().Normalize()
	if c.Camera.Speed > 0 {
		cam.Speed = c.Camera.Speed
	}
	if c.Camera.TurnRate > 0 {
		cam.TurnRate = c.Camera.TurnRate
	}
	return cam
}

// WorldParams returns the world placement.
func (c *Config) WorldParams() render.World {
	return render.World{
		Offset: c.World.Translate.Vec3(),
		Theta:  c.World.RotateY,
		Spin:   c.World.Spin,
	}
}

// Apply configures a render context with these settings. The viewport is
// left alone.
func (c *Config) Apply(ctx *render.Context) {
	ctx.Camera = c.NewCamera()
	ctx.World = c.WorldParams()
	ctx.Light = c.Light.Vec3()
	ctx.SetProjection(c.ProjectionParams())
}

// Rasterizer configures r's mode and colors.
func (c *Config) Rasterizer(r *render.Rasterizer) error {
	mode, err := render.ParseMode(c.Render.Mode)
	if err != nil {
		return err
	}
	fill, err := render.ParseColor(c.Render.Color)
	if err != nil {
		return err
	}
	wire, err := render.ParseColor(c.Render.Wire)
	if err != nil {
		return err
	}
	r.Mode = mode
	r.Color = fill
	r.WireColor = wire
	return nil
}

// BackgroundColor returns the clear color, falling back to slate.
func (c *Config) BackgroundColor() render.Color {
	bg, err := render.ParseColor(c.Render.Background)
	if err != nil {
		return render.ColorSlate
	}
	return bg
}
