package main

import (
	"context"
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/painter/pkg/config"
	"github.com/taigrr/painter/pkg/engine"
	"github.com/taigrr/painter/pkg/input"
	"github.com/taigrr/painter/pkg/render"
)

// springFrequency sets how quickly held keys reach full camera speed.
const springFrequency = 6.0

func newViewCmd(opts *rootOptions) *cobra.Command {
	var fps int

	cmd := &cobra.Command{
		Use:   "view [models...]",
		Short: "fly around models in the terminal",
		Long: `Renders the models live in the terminal using half-block pixels.

Controls:
  W/S         move forward/back
  A/D         strafe left/right
  Q/E         move down/up
  Left/Right  turn
  X           toggle wireframe
  R           reset the camera
  Esc         quit`,
	}
	cmd.Flags().IntVar(&fps, "fps", config.DefaultMaxFPS, "frame rate cap (0 = uncapped)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := opts.loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("fps") {
			cfg.MaxFPS = fps
		}
		return runView(cmd.Context(), opts, cfg, args)
	}
	return cmd
}

// viewer is the interactive session state. All fields are touched only on
// the loop goroutine.
type viewer struct {
	cfg    *config.Config
	term   *uv.Terminal
	scene  *render.Context
	fb     *render.Framebuffer
	raster *render.Rasterizer
	ctrl   *input.Controller
	cancel context.CancelFunc

	cols, rows int
}

func runView(ctx context.Context, opts *rootOptions, cfg *config.Config, args []string) error {
	logger, closeLog, err := opts.newLogger(nil, true)
	if err != nil {
		return err
	}
	defer closeLog()

	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	w, h := render.CellsToPixels(cols, rows)
	scene, _, err := loadScene(cfg, args, w, h, logger)
	if err != nil {
		return err
	}

	fb := render.NewFramebuffer(w, h)
	raster := render.NewRasterizer(fb)
	if err := cfg.Rasterizer(raster); err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			logger.Error("terminal shutdown", "err", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	v := &viewer{
		cfg:    cfg,
		term:   term,
		scene:  scene,
		fb:     fb,
		raster: raster,
		ctrl:   input.NewController(cfg.MaxFPS, springFrequency),
		cancel: cancel,
		cols:   cols,
		rows:   rows,
	}

	// Events arrive on the terminal's goroutine; the loop drains them
	// between frames so the pipeline stays single-threaded.
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	loop := &engine.Loop{
		Targets: []engine.Target{{
			Name:    "terminal",
			Context: scene,
			Backend: &engine.RasterBackend{
				Rasterizer: raster,
				Background: cfg.BackgroundColor(),
				Flush:      v.flush,
			},
		}},
		Input:  v.ctrl,
		Pacer:  engine.NewPacer(cfg.MaxFPS),
		Logger: logger,
		BeforeFrame: func(now time.Time) error {
			for {
				select {
				case ev := <-events:
					v.handle(ev, now)
				default:
					return nil
				}
			}
		},
	}

	_, err = loop.Run(ctx)
	return err
}

func (v *viewer) flush(fb *render.Framebuffer) error {
	fb.Draw(v.term, uv.Rect(0, 0, v.cols, v.rows))
	if err := v.term.Display(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func (v *viewer) handle(ev uv.Event, now time.Time) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.cols, v.rows = ev.Width, ev.Height
		v.term.Erase()
		v.term.Resize(v.cols, v.rows)
		w, h := render.CellsToPixels(v.cols, v.rows)
		v.fb.Resize(w, h)
		v.scene.Resize(w, h)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c"):
			v.cancel()
		case ev.MatchString("x"):
			if v.raster.Mode == render.ModeWireframe {
				v.raster.Mode = render.ModeSolid
			} else {
				v.raster.Mode = render.ModeWireframe
			}
		case ev.MatchString("r"):
			v.scene.Camera = v.cfg.NewCamera()
			v.ctrl.Reset()
		default:
			for _, key := range v.ctrl.Keys() {
				if ev.MatchString(key) {
					v.ctrl.Press(key, now)
				}
			}
		}

	case uv.KeyReleaseEvent:
		for _, key := range v.ctrl.Keys() {
			if ev.MatchString(key) {
				v.ctrl.Release(key)
			}
		}
	}
}
