package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taigrr/painter/pkg/math3d"
	"github.com/taigrr/painter/pkg/models"
	"github.com/taigrr/painter/pkg/render"
)

type fakeClock struct {
	t         time.Time
	slept     []time.Duration
	overshoot time.Duration
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.t = c.t.Add(d + c.overshoot)
}

func (c *fakeClock) pacer(maxFPS int) *Pacer {
	p := NewPacer(maxFPS)
	p.Now = c.Now
	p.Sleep = c.Sleep
	return p
}

func TestPacer(t *testing.T) {
	tests := []struct {
		name      string
		maxFPS    int
		work      time.Duration
		overshoot time.Duration
		wantSleep []time.Duration
		want      time.Duration
	}{
		{"under budget", 50, 5 * time.Millisecond, 0, []time.Duration{15 * time.Millisecond}, 20 * time.Millisecond},
		{"sleep overshoots", 50, 5 * time.Millisecond, 2 * time.Millisecond, []time.Duration{15 * time.Millisecond}, 22 * time.Millisecond},
		{"over budget", 50, 30 * time.Millisecond, 0, nil, 30 * time.Millisecond},
		{"exactly on budget", 50, 20 * time.Millisecond, 0, nil, 20 * time.Millisecond},
		{"uncapped", 0, 5 * time.Millisecond, 0, nil, 5 * time.Millisecond},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Unix(100, 0), overshoot: tc.overshoot}
			p := clock.pacer(tc.maxFPS)

			p.Begin()
			clock.t = clock.t.Add(tc.work)
			got := p.End()

			if got != tc.want {
				t.Errorf("End = %v, want %v", got, tc.want)
			}
			if len(clock.slept) != len(tc.wantSleep) {
				t.Fatalf("slept %v, want %v", clock.slept, tc.wantSleep)
			}
			for i := range tc.wantSleep {
				if clock.slept[i] != tc.wantSleep[i] {
					t.Errorf("sleep %d = %v, want %v", i, clock.slept[i], tc.wantSleep[i])
				}
			}
		})
	}
}

func TestFPS(t *testing.T) {
	if got := FPS(20 * time.Millisecond); got != 50 {
		t.Errorf("FPS(20ms) = %v, want 50", got)
	}
	if got := FPS(0); got != 0 {
		t.Errorf("FPS(0) = %v, want 0", got)
	}
}

func cubeContext() *render.Context {
	ctx := render.NewContext(models.UnitCube(), 64, 48)
	ctx.World.Offset = math3d.V3(-0.5, -0.5, 3)
	return ctx
}

type fixedInput render.Movement

func (in fixedInput) Update(time.Time) render.Movement { return render.Movement(in) }

type failingBackend struct{ err error }

func (b failingBackend) Present([]render.Triangle, render.FrameStats) error { return b.err }

func TestLoopFrameLimit(t *testing.T) {
	rec := &Recorder{}
	ctx := cubeContext()
	ctx.World.Spin = 1

	var seen []Frame
	l := &Loop{
		Targets:    []Target{{Name: "cube", Context: ctx, Backend: rec}},
		Frames:     5,
		FixedStep:  100 * time.Millisecond,
		AfterFrame: func(f Frame) { seen = append(seen, f) },
	}

	n, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 5 || rec.Frames != 5 || len(seen) != 5 {
		t.Errorf("frames = %d, recorded %d, observed %d, want 5", n, rec.Frames, len(seen))
	}
	if d := ctx.World.Theta - 0.5; d > 1e-9 || d < -1e-9 {
		t.Errorf("theta = %v, want 0.5 after five 0.1s steps", ctx.World.Theta)
	}
	if seen[4].Index != 4 || seen[4].DT != 0.1 {
		t.Errorf("last frame = %+v", seen[4])
	}
	if rec.Stats.Input != 12 || len(rec.Triangles) != rec.Stats.Emitted {
		t.Errorf("recorded stats = %+v with %d triangles", rec.Stats, len(rec.Triangles))
	}
}

func TestLoopMovesCamera(t *testing.T) {
	ctx := cubeContext()
	l := &Loop{
		Targets:   []Target{{Context: ctx}},
		Input:     fixedInput{Forward: 1},
		Frames:    4,
		FixedStep: 125 * time.Millisecond,
	}

	if _, err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Speed 8 for 0.5s along +Z.
	if got := ctx.Camera.Position.Z; got < 4-1e-9 || got > 4+1e-9 {
		t.Errorf("camera Z = %v, want 4", got)
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	l := &Loop{
		Targets: []Target{{Context: cubeContext(), Backend: &Recorder{}}},
		AfterFrame: func(f Frame) {
			if f.Index == 2 {
				cancel()
			}
		},
	}

	n, err := l.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 3 {
		t.Errorf("frames = %d, want 3", n)
	}
}

func TestLoopErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("no targets", func(t *testing.T) {
		if _, err := (&Loop{}).Run(context.Background()); !errors.Is(err, ErrNoTargets) {
			t.Errorf("err = %v, want ErrNoTargets", err)
		}
	})

	t.Run("backend", func(t *testing.T) {
		l := &Loop{Targets: []Target{{Name: "bad", Context: cubeContext(), Backend: failingBackend{boom}}}}
		n, err := l.Run(context.Background())
		if !errors.Is(err, boom) || n != 0 {
			t.Errorf("Run = %d, %v, want 0 frames and boom", n, err)
		}
	})

	t.Run("before frame", func(t *testing.T) {
		calls := 0
		l := &Loop{
			Targets: []Target{{Context: cubeContext()}},
			BeforeFrame: func(time.Time) error {
				calls++
				if calls == 3 {
					return boom
				}
				return nil
			},
		}
		n, err := l.Run(context.Background())
		if !errors.Is(err, boom) || n != 2 {
			t.Errorf("Run = %d, %v, want 2 frames and boom", n, err)
		}
	})
}

func TestLoopWallClockStep(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var dts []float64
	l := &Loop{
		Targets: []Target{{Context: cubeContext()}},
		Pacer:   clock.pacer(0),
		Frames:  3,
		BeforeFrame: func(time.Time) error {
			clock.t = clock.t.Add(time.Second) // a long stall between frames
			return nil
		},
		AfterFrame: func(f Frame) { dts = append(dts, f.DT) },
	}

	if _, err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []float64{0, DefaultMaxStep.Seconds(), DefaultMaxStep.Seconds()}
	for i := range want {
		if dts[i] != want[i] {
			t.Errorf("dt[%d] = %v, want %v", i, dts[i], want[i])
		}
	}
}

func TestMultipleTargetsAreIndependent(t *testing.T) {
	a, b := cubeContext(), cubeContext()
	b.World.Offset = math3d.V3(0, 0, -5)
	recA, recB := &Recorder{}, &Recorder{}

	l := &Loop{
		Targets: []Target{
			{Name: "a", Context: a, Backend: recA},
			{Name: "b", Context: b, Backend: recB},
		},
		Frames: 1,
	}
	if _, err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if recA.Stats.Emitted != 2 || recA.Stats.MeshRejected {
		t.Errorf("target a stats = %+v", recA.Stats)
	}
	if !recB.Stats.MeshRejected || len(recB.Triangles) != 0 {
		t.Errorf("target b stats = %+v", recB.Stats)
	}
}

func TestRasterBackend(t *testing.T) {
	fb := render.NewFramebuffer(64, 48)
	flushed := 0
	backend := &RasterBackend{
		Rasterizer: render.NewRasterizer(fb),
		Background: render.ColorSlate,
		Flush: func(got *render.Framebuffer) error {
			if got != fb {
				t.Error("flushed a different framebuffer")
			}
			flushed++
			return nil
		},
	}
	rec := &Recorder{}

	l := &Loop{
		Targets: []Target{{Context: cubeContext(), Backend: Multi{backend, rec}}},
		Frames:  2,
	}
	if _, err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if flushed != 2 {
		t.Errorf("flushed %d times, want 2", flushed)
	}
	if backend.Rasterizer.Drawn != rec.Stats.Emitted {
		t.Errorf("drew %d triangles, emitted %d", backend.Rasterizer.Drawn, rec.Stats.Emitted)
	}
	if fb.GetPixel(0, 0) != render.ColorSlate {
		t.Errorf("corner = %v, want background", fb.GetPixel(0, 0))
	}
	if center := fb.GetPixel(32, 24); center == render.ColorSlate {
		t.Error("center pixel not painted by the cube")
	}
}
