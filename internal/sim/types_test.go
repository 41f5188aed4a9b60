package sim

import (
	"testing"

	"github.com/san-kum/ballsim/internal/dynamo"
)

func TestConfig_Steps(t *testing.T) {
	tests := []struct {
		dt, duration float64
		expected     int
	}{
		{0.1, 1.0, 10},
		{1.0 / 60, 30, 1800},
		{0.25, 1.0, 4},
		{0.3, 1.0, 3},
	}

	for _, tt := range tests {
		if got := (Config{Dt: tt.dt, Duration: tt.duration}).Steps(); got != tt.expected {
			t.Errorf("Steps(dt=%v, duration=%v) = %d, want %d", tt.dt, tt.duration, got, tt.expected)
		}
	}
}

func TestResult_Series(t *testing.T) {
	r := &Result{Frames: []dynamo.Frame{
		{Time: 0, Momentum: 1},
		{Time: 0.5, Momentum: 2, Bodies: make([]dynamo.BodyView, 3)},
	}}

	times, momentum := r.Times(), r.MomentumSeries()
	if len(times) != 2 || times[1] != 0.5 {
		t.Errorf("Times() = %v", times)
	}
	if len(momentum) != 2 || momentum[1] != 2 {
		t.Errorf("MomentumSeries() = %v", momentum)
	}
	if got := len(r.Final().Bodies); got != 3 {
		t.Errorf("Final() has %d bodies, want 3", got)
	}

	empty := &Result{}
	if f := empty.Final(); f.Bodies != nil || f.Time != 0 {
		t.Errorf("Final() of empty result = %+v", f)
	}
}
