package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/taigrr/painter/pkg/config"
	"github.com/taigrr/painter/pkg/engine"
	"github.com/taigrr/painter/pkg/render"
)

// headlessStep is the simulated frame time of headless runs.
const headlessStep = time.Second / 60

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "snapshot [models...]",
		Short: "render frames headless and save the last one as PNG",
		Example: `  painter snapshot -o cube.png
  painter snapshot --frames 90 --width 640 --height 480 -o teapot.png teapot.obj`,
	}
	hf := addHeadlessFlags(cmd, 1)
	cmd.Flags().StringVarP(&output, "output", "o", "painter.png", "PNG file to write")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := opts.loadConfig(cmd, hf)
		if err != nil {
			return err
		}
		logger, closeLog, err := opts.newLogger(cmd.ErrOrStderr(), false)
		if err != nil {
			return err
		}
		defer closeLog()

		fb, stats, err := renderHeadless(cmd, cfg, args, hf.frames, logger)
		if err != nil {
			return err
		}
		if err := fb.SavePNG(output); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		logger.Info("snapshot saved", "path", output, "triangles", stats.Emitted)
		return nil
	}
	return cmd
}

// renderHeadless runs n fixed-step frames into a framebuffer and returns it
// with the last frame's statistics.
func renderHeadless(cmd *cobra.Command, cfg *config.Config, args []string, n int, logger *slog.Logger) (*render.Framebuffer, render.FrameStats, error) {
	w, h := cfg.Viewport.Width, cfg.Viewport.Height
	scene, _, err := loadScene(cfg, args, w, h, logger)
	if err != nil {
		return nil, render.FrameStats{}, err
	}

	fb := render.NewFramebuffer(w, h)
	raster := render.NewRasterizer(fb)
	if err := cfg.Rasterizer(raster); err != nil {
		return nil, render.FrameStats{}, err
	}
	rec := &engine.Recorder{}

	loop := &engine.Loop{
		Targets: []engine.Target{{
			Name:    "snapshot",
			Context: scene,
			Backend: engine.Multi{
				&engine.RasterBackend{Rasterizer: raster, Background: cfg.BackgroundColor()},
				rec,
			},
		}},
		Logger:    logger,
		Frames:    max(n, 1),
		FixedStep: headlessStep,
	}
	if _, err := loop.Run(cmd.Context()); err != nil {
		return nil, render.FrameStats{}, err
	}
	return fb, rec.Stats, nil
}
