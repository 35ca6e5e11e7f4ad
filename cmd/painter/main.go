// painter - software 3D geometry pipeline
// Renders OBJ, GLB and STL meshes with back-face culling, near and screen
// clipping, flat shading and painter's-algorithm ordering, either live in
// the terminal or headless to PNG, YAML or a benchmark report.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/painter/pkg/config"
	"github.com/taigrr/painter/pkg/models"
	"github.com/taigrr/painter/pkg/render"
)

var version = "dev"

// rootOptions holds the persistent flags of one root command.
type rootOptions struct {
	configFile string
	logFile    string
	verbose    bool
}

// headlessFlags are the size and frame-count flags of one command.
type headlessFlags struct {
	width  int
	height int
	frames int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "painter",
		Short: "software 3D renderer with painter's-algorithm ordering",
		Long: `painter transforms, culls, clips, shades and depth-sorts triangle meshes
on the CPU. Models are .obj, .glb/.gltf or .stl files; "cube" selects the
built-in unit cube. Several models are merged into one mesh.`,
		SilenceUsage: true,
	}

	opts := &rootOptions{}
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log", "", "write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log per-frame pipeline statistics")

	rootCmd.AddCommand(
		newViewCmd(opts),
		newSnapshotCmd(opts),
		newDumpCmd(opts),
		newBenchCmd(opts),
		newInitCmd(),
	)
	return rootCmd
}

// addHeadlessFlags registers the size and frame-count flags on cmd.
func addHeadlessFlags(cmd *cobra.Command, defaultFrames int) *headlessFlags {
	hf := &headlessFlags{}
	cmd.Flags().IntVar(&hf.width, "width", config.DefaultWidth, "viewport width in pixels")
	cmd.Flags().IntVar(&hf.height, "height", config.DefaultHeight, "viewport height in pixels")
	cmd.Flags().IntVarP(&hf.frames, "frames", "n", defaultFrames, "frames to render")
	return hf
}

// loadConfig reads --config, or the defaults when it is unset, and applies
// the size flags the user set explicitly. hf may be nil.
func (o *rootOptions) loadConfig(cmd *cobra.Command, hf *headlessFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if o.configFile != "" {
		var err error
		if cfg, err = config.Load(o.configFile); err != nil {
			return nil, err
		}
	}

	if hf != nil {
		flags := cmd.Flags()
		if flags.Changed("width") {
			cfg.Viewport.Width = hf.width
		}
		if flags.Changed("height") {
			cfg.Viewport.Height = hf.height
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the command logger. Interactive commands own the
// terminal, so without --log their logs are discarded.
func (o *rootOptions) newLogger(stderr io.Writer, interactive bool) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch {
	case o.logFile != "":
		f, err := os.OpenFile(o.logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log: %w", err)
		}
		return slog.New(slog.NewTextHandler(f, opts)), f.Close, nil
	case interactive:
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	default:
		return slog.New(slog.NewTextHandler(stderr, opts)), func() error { return nil }, nil
	}
}

// loadScene opens the models named by args, or the configured ones, and
// builds a render context for them.
func loadScene(cfg *config.Config, args []string, w, h int, logger *slog.Logger) (*render.Context, *models.Mesh, error) {
	names := args
	if len(names) == 0 {
		names = cfg.Models
	}

	mesh, err := models.OpenAll(names)
	if err != nil {
		return nil, nil, fmt.Errorf("load model: %w", err)
	}
	if cfg.World.Fit > 0 {
		mesh.Fit(cfg.World.Fit)
	}
	logger.Info("model loaded",
		"name", mesh.Name,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
	)

	scene := render.NewContext(mesh, w, h)
	cfg.Apply(scene)
	return scene, mesh, nil
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "painter.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}
