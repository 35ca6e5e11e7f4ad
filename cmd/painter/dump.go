package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/painter/pkg/engine"
	"github.com/taigrr/painter/pkg/render"
)

// dumpFrame is the YAML form of one rendered frame.
type dumpFrame struct {
	Model     string        `yaml:"model"`
	Viewport  [2]int        `yaml:"viewport,flow"`
	Stats     dumpStats     `yaml:"stats"`
	Triangles []dumpTriangle `yaml:"triangles"`
}

type dumpStats struct {
	Input        int  `yaml:"input"`
	Culled       int  `yaml:"culled"`
	Visible      int  `yaml:"visible"`
	NearClipped  int  `yaml:"near_clipped"`
	Projected    int  `yaml:"projected"`
	Emitted      int  `yaml:"emitted"`
	MeshRejected bool `yaml:"mesh_rejected"`
}

type dumpTriangle struct {
	P     [3][3]float64 `yaml:"p,flow"`
	Shade float64       `yaml:"shade"`
}

func newDumpFrame(model string, vp render.Viewport, tris []render.Triangle, st render.FrameStats) dumpFrame {
	f := dumpFrame{
		Model:    model,
		Viewport: [2]int{vp.Width, vp.Height},
		Stats: dumpStats{
			Input:        st.Input,
			Culled:       st.Culled,
			Visible:      st.Visible,
			NearClipped:  st.NearClipped,
			Projected:    st.Projected,
			Emitted:      st.Emitted,
			MeshRejected: st.MeshRejected,
		},
		Triangles: make([]dumpTriangle, len(tris)),
	}
	for i, t := range tris {
		var dt dumpTriangle
		for j, p := range t.P {
			dt.P[j] = [3]float64{p.X, p.Y, p.Z}
		}
		dt.Shade = t.Shade
		f.Triangles[i] = dt
	}
	return f
}

func writeDump(w io.Writer, f dumpFrame) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	return enc.Close()
}

func newDumpCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [models...]",
		Short: "print the ordered, clipped triangle list of a frame as YAML",
	}
	hf := addHeadlessFlags(cmd, 1)

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

		scene, mesh, err := loadScene(cfg, args, cfg.Viewport.Width, cfg.Viewport.Height, logger)
		if err != nil {
			return err
		}

		rec := &engine.Recorder{}
		loop := &engine.Loop{
			Targets:   []engine.Target{{Name: "dump", Context: scene, Backend: rec}},
			Logger:    logger,
			Frames:    max(hf.frames, 1),
			FixedStep: headlessStep,
		}
		if _, err := loop.Run(cmd.Context()); err != nil {
			return err
		}

		return writeDump(cmd.OutOrStdout(), newDumpFrame(mesh.Name, scene.Viewport(), rec.Triangles, rec.Stats))
	}
	return cmd
}
