// Package engine drives render contexts frame by frame.
package engine

import "time"

// Pacer caps the frame rate. Call Begin at the top of a frame and End at
// the bottom; End sleeps off whatever is left of the frame budget.
type Pacer struct {
	Budget time.Duration // zero disables the cap

	Now   func() time.Time
	Sleep func(time.Duration)

	start time.Time
}

// NewPacer creates a pacer for maxFPS frames per second. maxFPS <= 0 means
// no cap.
func NewPacer(maxFPS int) *Pacer {
	p := &Pacer{Now: time.Now, Sleep: time.Sleep}
	if maxFPS > 0 {
		p.Budget = time.Second / time.Duration(maxFPS)
	}
	return p
}

// Begin marks the start of a frame and returns the current time.
func (p *Pacer) Begin() time.Time {
	p.start = p.Now()
	return p.start
}

// End returns the frame's elapsed time, sleeping first when the frame
// finished under budget. Sleep overshoots, so elapsed is measured again
// after waking.
func (p *Pacer) End() time.Duration {
	elapsed := p.Now().Sub(p.start)
	if p.Budget <= 0 || elapsed >= p.Budget {
		return elapsed
	}

	p.Sleep(p.Budget - elapsed)
	return p.Now().Sub(p.start)
}

// FPS converts a frame duration to frames per second.
func FPS(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(time.Second) / float64(d)
}
