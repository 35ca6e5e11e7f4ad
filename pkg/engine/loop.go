package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taigrr/painter/pkg/render"
)

// DefaultMaxStep clamps dt after a stall, e.g. a suspended terminal.
const DefaultMaxStep = 100 * time.Millisecond

// Backend receives each target's ordered triangles once per frame.
type Backend interface {
	Present(tris []render.Triangle, stats render.FrameStats) error
}

// Input supplies one frame of camera movement. *input.Controller
// implements it.
type Input interface {
	Update(now time.Time) render.Movement
}

// Target pairs a context with the backend that displays it. Targets share
// nothing; the loop renders them in order.
type Target struct {
	Name    string
	Context *render.Context
	Backend Backend
}

// Frame describes one finished frame.
type Frame struct {
	Index    int
	DT       float64       // seconds advanced
	Elapsed  time.Duration // wall time including any pacing sleep
	Stats    []render.FrameStats
	Movement render.Movement
}

// Loop runs the frame loop. The zero value is not usable; set at least
// Targets.
type Loop struct {
	Targets []Target
	Input   Input
	Pacer   *Pacer
	Logger  *slog.Logger

	Frames    int           // stop after this many frames; 0 runs until ctx ends
	FixedStep time.Duration // when set, dt is this step instead of wall time
	MaxStep   time.Duration

	// BeforeFrame runs on the loop goroutine before each frame. Returning
	// an error stops the loop with that error.
	BeforeFrame func(now time.Time) error
	// AfterFrame observes each finished frame.
	AfterFrame func(Frame)
}

// ErrNoTargets is returned by Run when there is nothing to render.
var ErrNoTargets = errors.New("engine: no targets")

// Run renders frames until ctx is done, the frame limit is reached or a
// hook or backend fails. Cancellation is checked once per frame boundary.
// It returns the number of frames rendered.
func (l *Loop) Run(ctx context.Context) (int, error) {
	if len(l.Targets) == 0 {
		return 0, ErrNoTargets
	}
	logger := l.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	pacer := l.Pacer
	if pacer == nil {
		pacer = NewPacer(0)
	}
	maxStep := l.MaxStep
	if maxStep <= 0 {
		maxStep = DefaultMaxStep
	}

	logger.Info("loop starting", "targets", len(l.Targets), "frames", l.Frames, "budget", pacer.Budget)

	var last time.Time
	frames := 0
	for l.Frames <= 0 || frames < l.Frames {
		if err := ctx.Err(); err != nil {
			logger.Info("loop stopped", "frames", frames, "reason", context.Cause(ctx))
			return frames, nil
		}

		now := pacer.Begin()
		dt := l.step(now, last, maxStep)
		last = now

		if l.BeforeFrame != nil {
			if err := l.BeforeFrame(now); err != nil {
				return frames, err
			}
		}

		var mv render.Movement
		if l.Input != nil {
			mv = l.Input.Update(now)
		}

		stats := make([]render.FrameStats, len(l.Targets))
		for i, t := range l.Targets {
			tris, st := t.Context.Frame(mv, dt)
			stats[i] = st
			if t.Backend == nil {
				continue
			}
			if err := t.Backend.Present(tris, st); err != nil {
				return frames, fmt.Errorf("present %s: %w", t.Name, err)
			}
		}

		elapsed := pacer.End()
		f := Frame{Index: frames, DT: dt, Elapsed: elapsed, Stats: stats, Movement: mv}
		logFrame(logger, f)
		if l.AfterFrame != nil {
			l.AfterFrame(f)
		}
		frames++
	}

	logger.Info("loop finished", "frames", frames)
	return frames, nil
}

// step returns the seconds to advance this frame.
func (l *Loop) step(now, last time.Time, maxStep time.Duration) float64 {
	if l.FixedStep > 0 {
		return l.FixedStep.Seconds()
	}
	if last.IsZero() {
		return 0
	}
	return min(now.Sub(last), maxStep).Seconds()
}

func logFrame(logger *slog.Logger, f Frame) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for i, st := range f.Stats {
		logger.Debug("frame",
			"index", f.Index,
			"target", i,
			"dt", f.DT,
			"elapsed", f.Elapsed,
			"input", st.Input,
			"culled", st.Culled,
			"near_clipped", st.NearClipped,
			"emitted", st.Emitted,
			"rejected", st.MeshRejected,
		)
	}
}
