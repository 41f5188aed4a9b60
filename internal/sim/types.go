package sim

import (
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/physics"
)

// World is the tickable simulation the driver advances.
type World interface {
	Advance(dt float64)
	AppendBodies(dst []dynamo.BodyView) []dynamo.BodyView
	Momentum() float64
	Time() float64
	Stats() physics.Stats
}

type Config struct {
	Dt       float64
	Duration float64
	// SampleEvery keeps one frame per this many ticks; 0 or 1 keeps all.
	SampleEvery int
	Seed        int64
}

// Steps is the number of ticks a run of cfg takes.
func (c Config) Steps() int {
	return int(c.Duration/c.Dt + 1e-9)
}

type Result struct {
	Frames  []dynamo.Frame
	Metrics map[string]float64
	Steps   int
	Stats   physics.Stats
}

// Final returns the last sampled frame.
func (r *Result) Final() dynamo.Frame {
	if len(r.Frames) == 0 {
		return dynamo.Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}

// Times returns the sample times of every frame.
func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Time
	}
	return out
}

// MomentumSeries returns the momentum of every frame.
func (r *Result) MomentumSeries() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Momentum
	}
	return out
}
