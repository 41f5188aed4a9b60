package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/ballsim/internal/dynamo"
)

type Simulator struct {
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	views     *ViewPool
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
		views:     NewViewPool(),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Metrics() []dynamo.Metric { return s.metrics }

// Run advances w for cfg.Duration in fixed cfg.Dt ticks. The initial and the
// final frame are always sampled. Frames handed to metrics and observers
// share a recycled buffer; copy Bodies to keep them. On cancellation the partial result is
// returned with the context error.
func (s *Simulator) Run(ctx context.Context, w World, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	every := cfg.SampleEvery
	if every < 1 {
		every = 1
	}

	result := &Result{
		Frames:  make([]dynamo.Frame, 0, steps/every+2),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Frames = append(result.Frames, s.frame(w, nil))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(w, result)
			return result, ctx.Err()
		default:
		}

		w.Advance(cfg.Dt)
		result.Steps++

		buf := s.views.Get()
		f := s.frame(w, buf)
		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			obs.OnStep(f)
		}

		views := f.Bodies
		if (i+1)%every == 0 || i == steps-1 {
			f.Bodies = append([]dynamo.BodyView(nil), views...)
			result.Frames = append(result.Frames, f)
		}
		s.views.Put(views)
	}

	s.finish(w, result)
	return result, nil
}

// RunWithCallback advances w until the duration elapses or callback returns
// false. Frames are not retained.
func (s *Simulator) RunWithCallback(ctx context.Context, w World, cfg Config, callback func(dynamo.Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	for i := 0; i < cfg.Steps(); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		w.Advance(cfg.Dt)
		if !callback(s.frame(w, nil)) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) frame(w World, buf []dynamo.BodyView) dynamo.Frame {
	return dynamo.Frame{
		Time:     w.Time(),
		Bodies:   w.AppendBodies(buf),
		Momentum: w.Momentum(),
	}
}

func (s *Simulator) finish(w World, result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Stats = w.Stats()
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Duration < cfg.Dt {
		return fmt.Errorf("duration %f shorter than one step of %f", cfg.Duration, cfg.Dt)
	}
	return nil
}
