package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/ballsim/internal/dynamo"
)

// Factory builds an independent world for one ensemble member.
type Factory func(seed int64) (World, error)

// Ensemble runs several worlds, one per seed, concurrently.
type Ensemble struct {
	factory   Factory
	metrics   func() []dynamo.Metric
	numRuns   int
	seedStart int64
}

// NewEnsemble returns an ensemble of numRuns members seeded seedStart,
// seedStart+1, ... metrics is called once per member so metric state is
// never shared between goroutines; it may be nil.
func NewEnsemble(factory Factory, metrics func() []dynamo.Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, metrics: metrics, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			w, err := e.factory(cfgCopy.Seed)
			if err != nil {
				errs[idx] = fmt.Errorf("member %d: %w", idx, err)
				return
			}

			sim := New()
			if e.metrics != nil {
				for _, m := range e.metrics() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, w, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
