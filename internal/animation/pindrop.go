// Package animation drives pin drop animations for map markers.
// Every animation is an independent state machine advanced by Step; a single
// Scheduler owns the tick source and steps all running animations.
package animation

import (
	"math"
	"time"
)

// AnchorX keeps the marker horizontally centered on its coordinate
const AnchorX = 0.5

// Config holds the pin drop timing
type Config struct {
	Duration  time.Duration
	Tick      time.Duration
	Overshoot float64
}

// DefaultConfig returns a 1.5s drop stepped every 15ms from 14 marker heights
func DefaultConfig() Config {
	return Config{
		Duration:  1500 * time.Millisecond,
		Tick:      15 * time.Millisecond,
		Overshoot: 14,
	}
}

// Target is the marker an animation moves. Its methods run under the
// scheduler lock and must not call back into the Scheduler.
type Target interface {
	SetAnchor(x, y float64) error
	ShowInfoLabel() error
}

// Anchor is a marker anchor in marker-relative units
type Anchor struct {
	X float64
	Y float64
}

// State is the data a single pin drop needs between ticks
type State struct {
	Target   Target
	Start    time.Time
	Duration time.Duration
}

// Phase is the lifecycle position of an animation
type Phase int

const (
	Running Phase = iota
	Done
	Cancelled
	Failed
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Offset returns the remaining drop height t in [0,1] at now.
// It is 0 once the duration has elapsed, even when ticks arrive late.
func Offset(s State, now time.Time) float64 {
	if s.Duration <= 0 {
		return 0
	}
	progress := float64(now.Sub(s.Start)) / float64(s.Duration)
	if progress >= 1 {
		return 0
	}
	return math.Max(1-BounceOut(math.Max(progress, 0)), 0)
}

// Step computes the anchor for now and whether the drop has settled
func Step(s State, now time.Time, overshoot float64) (Anchor, bool) {
	t := Offset(s, now)
	return Anchor{X: AnchorX, Y: 1 + overshoot*t}, t == 0
}
