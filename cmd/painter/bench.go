package main

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/klauspost/cpuid/v2"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/taigrr/painter/pkg/engine"
	"github.com/taigrr/painter/pkg/render"
)

var (
	benchTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	benchLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	benchValue = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	benchDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// benchSummary holds frame-time statistics in milliseconds.
type benchSummary struct {
	Frames  int
	Mean    float64
	StdDev  float64
	Min     float64
	Max     float64
	P50     float64
	P95     float64
	P99     float64
	Emitted float64 // mean triangles per frame
}

// summarize computes statistics over frame times in milliseconds.
func summarize(ms []float64, emitted []float64) benchSummary {
	if len(ms) == 0 {
		return benchSummary{}
	}
	sorted := slices.Clone(ms)
	slices.Sort(sorted)

	s := benchSummary{
		Frames: len(ms),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P50:    stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
		P99:    stat.Quantile(0.99, stat.Empirical, sorted, nil),
	}
	if len(ms) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(ms, nil)
	} else {
		s.Mean = ms[0]
	}
	if len(emitted) > 0 {
		s.Emitted = stat.Mean(emitted, nil)
	}
	return s
}

func writeBenchReport(w io.Writer, model string, triangles int, s benchSummary, ms []float64) {
	row := func(label, value string) {
		fmt.Fprintln(w, benchLabel.Render(label)+benchValue.Render(value))
	}

	fmt.Fprintln(w, benchTitle.Render("painter bench: "+model))
	row("cpu", fmt.Sprintf("%s (%d cores, %d threads)", cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores))
	row("triangles", fmt.Sprintf("%d in, %.1f drawn per frame", triangles, s.Emitted))
	row("frames", fmt.Sprintf("%d", s.Frames))
	row("mean", fmt.Sprintf("%.3f ms ± %.3f (%.0f fps)", s.Mean, s.StdDev, engine.FPS(msDuration(s.Mean))))
	row("min / max", fmt.Sprintf("%.3f / %.3f ms", s.Min, s.Max))
	row("p50/p95/p99", fmt.Sprintf("%.3f / %.3f / %.3f ms", s.P50, s.P95, s.P99))

	if len(ms) > 1 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, asciigraph.Plot(ms,
			asciigraph.Height(10),
			asciigraph.Width(min(len(ms), 80)),
			asciigraph.Caption("frame time (ms)"),
		))
	}
	fmt.Fprintln(w, benchDim.Render("\nheadless, unpaced, fixed 1/60 s step"))
}

func msDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func newBenchCmd(opts *rootOptions) *cobra.Command {
	var geometryOnly bool

	cmd := &cobra.Command{
		Use:   "bench [models...]",
		Short: "time headless frames and report statistics",
	}
	hf := addHeadlessFlags(cmd, 300)
	cmd.Flags().BoolVar(&geometryOnly, "geometry-only", false, "skip rasterization")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := opts.loadConfig(cmd, hf)
		if err != nil {
			return err
		}
		cfg.World.Spin = max(cfg.World.Spin, 0.5)

		logger, closeLog, err := opts.newLogger(cmd.ErrOrStderr(), false)
		if err != nil {
			return err
		}
		defer closeLog()

		w, h := cfg.Viewport.Width, cfg.Viewport.Height
		scene, mesh, err := loadScene(cfg, args, w, h, logger)
		if err != nil {
			return err
		}

		var backend engine.Backend
		if !geometryOnly {
			raster := render.NewRasterizer(render.NewFramebuffer(w, h))
			if err := cfg.Rasterizer(raster); err != nil {
				return err
			}
			backend = &engine.RasterBackend{Rasterizer: raster, Background: cfg.BackgroundColor()}
		}

		n := max(hf.frames, 1)
		ms := make([]float64, 0, n)
		emitted := make([]float64, 0, n)
		loop := &engine.Loop{
			Targets:   []engine.Target{{Name: "bench", Context: scene, Backend: backend}},
			Pacer:     engine.NewPacer(0),
			Logger:    logger,
			Frames:    n,
			FixedStep: headlessStep,
			AfterFrame: func(f engine.Frame) {
				ms = append(ms, float64(f.Elapsed)/float64(time.Millisecond))
				emitted = append(emitted, float64(f.Stats[0].Emitted))
			},
		}
		if _, err := loop.Run(cmd.Context()); err != nil {
			return err
		}

		writeBenchReport(cmd.OutOrStdout(), mesh.Name, mesh.TriangleCount(), summarize(ms, emitted), ms)
		return nil
	}
	return cmd
}
