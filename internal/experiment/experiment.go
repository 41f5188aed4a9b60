package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

type Config struct {
	Scene       *config.Scene
	Dt          float64
	Duration    float64
	SampleEvery int
	Seed        int64
}

type Experiment struct {
	cfg        Config
	world      *physics.World
	simulator  *sim.Simulator
	randSource *rand.Rand
}

func New(cfg Config) *Experiment {
	return &Experiment{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Setup builds the world from the scene and attaches metrics. The
// experiment's seeded source drives teleports unless opts override it.
func (e *Experiment) Setup(metrics []dynamo.Metric, opts ...physics.Option) error {
	if e.cfg.Scene == nil {
		return fmt.Errorf("experiment has no scene")
	}

	all := append([]physics.Option{physics.WithRand(e.randSource)}, opts...)
	w, err := physics.New(*e.cfg.Scene, all...)
	if err != nil {
		return err
	}
	e.world = w

	e.simulator = sim.New()
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := sim.Config{
		Dt:          e.cfg.Dt,
		Duration:    e.cfg.Duration,
		SampleEvery: e.cfg.SampleEvery,
		Seed:        e.cfg.Seed,
	}

	return e.simulator.Run(ctx, e.world, simCfg)
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// World returns the world built by Setup, or nil.
func (e *Experiment) World() *physics.World {
	return e.world
}
