package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/physics"
)

type testWorld struct {
	t     float64
	ticks int
}

func (w *testWorld) Advance(dt float64) {
	w.t += dt
	w.ticks++
}

func (w *testWorld) AppendBodies(dst []dynamo.BodyView) []dynamo.BodyView {
	return append(dst, dynamo.BodyView{Position: mgl64.Vec3{0, w.t, 0}, Radius: 1})
}

func (w *testWorld) Momentum() float64    { return w.t }
func (w *testWorld) Time() float64        { return w.t }
func (w *testWorld) Stats() physics.Stats { return physics.Stats{Ticks: w.ticks} }

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(f dynamo.Frame) {
	t.count++
	t.sum += f.Momentum
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorRun(t *testing.T) {
	sim := New()
	w := &testWorld{}

	result, err := sim.Run(context.Background(), w, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if result.Steps != 10 {
		t.Errorf("expected 10 steps, got %d", result.Steps)
	}
	if result.Stats.Ticks != 10 {
		t.Errorf("expected stats from the world, got %+v", result.Stats)
	}
	if result.Frames[0].Time != 0 {
		t.Errorf("first frame at t=%v", result.Frames[0].Time)
	}
	if math.Abs(result.Final().Time-1.0) > 1e-9 {
		t.Errorf("final frame at t=%v", result.Final().Time)
	}
}

func TestSimulatorSampling(t *testing.T) {
	sim := New()
	result, err := sim.Run(context.Background(), &testWorld{}, Config{Dt: 0.1, Duration: 1.0, SampleEvery: 3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// t=0, steps 3, 6, 9 and the final step 10
	if len(result.Frames) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(result.Frames))
	}
	if math.Abs(result.Final().Time-1.0) > 1e-9 {
		t.Errorf("final frame at t=%v", result.Final().Time)
	}

	for i := 1; i < len(result.Frames); i++ {
		got := result.Frames[i].Bodies[0].Position.Y()
		if got != result.Frames[i].Time {
			t.Errorf("frame %d body buffer was overwritten: %v at t=%v", i, got, result.Frames[i].Time)
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
		{"shorter than a step", Config{Dt: 0.1, Duration: 0.05}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sim.Run(context.Background(), &testWorld{}, tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New()
	metric := &testMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), &testWorld{}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

func TestSimulatorCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New().Run(ctx, &testWorld{}, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || len(result.Frames) != 1 {
		t.Errorf("expected the initial frame in the partial result")
	}
}

func TestRunWithCallback(t *testing.T) {
	calls := 0
	err := New().RunWithCallback(context.Background(), &testWorld{}, Config{Dt: 0.1, Duration: 1.0}, func(f dynamo.Frame) bool {
		calls++
		return calls < 4
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 4 {
		t.Errorf("expected 4 callbacks, got %d", calls)
	}
}

func TestSimulatorDefaultScene(t *testing.T) {
	w, err := physics.New(*config.DefaultConfig())
	if err != nil {
		t.Fatalf("world: %v", err)
	}

	result, err := New().Run(context.Background(), w, Config{Dt: 1.0 / 60, Duration: 2, SampleEvery: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Stats.Spawns != 0 {
		t.Errorf("expected no spawns before the first interval, got %d", result.Stats.Spawns)
	}
	first, last := result.Frames[0].Bodies[1], result.Frames[len(result.Frames)-1].Bodies[1]
	if first.Position == last.Position {
		t.Errorf("body 1 did not move: %v", first.Position)
	}
	for _, f := range result.Frames {
		for _, b := range f.Bodies {
			if math.IsNaN(b.Position.X()) || math.IsNaN(b.Position.Y()) || math.IsNaN(b.Position.Z()) {
				t.Fatalf("non-finite position at t=%v", f.Time)
			}
		}
	}
}

func TestEnsemble(t *testing.T) {
	factory := func(seed int64) (World, error) {
		cfg := config.DefaultConfig()
		cfg.Seed = seed
		return physics.New(*cfg)
	}
	metrics := func() []dynamo.Metric { return []dynamo.Metric{&testMetric{}} }

	results, err := NewEnsemble(factory, metrics, 3, 10).Run(context.Background(), Config{Dt: 1.0 / 60, Duration: 0.5})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Steps != 30 {
			t.Errorf("member %d: expected 30 steps, got %d", i, r.Steps)
		}
		if _, ok := r.Metrics["test"]; !ok {
			t.Errorf("member %d: metric missing", i)
		}
	}
}

func TestEnsembleFactoryError(t *testing.T) {
	factory := func(seed int64) (World, error) {
		cfg := config.DefaultConfig()
		cfg.Segments = nil
		return physics.New(*cfg)
	}
	_, err := NewEnsemble(factory, nil, 2, 0).Run(context.Background(), Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, dynamo.ErrNoSegments) {
		t.Errorf("expected ErrNoSegments, got %v", err)
	}
}
