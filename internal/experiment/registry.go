package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/metrics"
)

type Registry struct {
	metrics map[string]func(*config.Scene) dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(*config.Scene) dynamo.Metric),
	}

	r.metrics["momentum"] = func(*config.Scene) dynamo.Metric { return metrics.NewMomentum() }
	r.metrics["momentum_drift"] = func(*config.Scene) dynamo.Metric { return metrics.NewMomentumDrift() }
	r.metrics["kinetic_energy"] = func(*config.Scene) dynamo.Metric { return metrics.NewKineticEnergy() }
	r.metrics["max_speed"] = func(*config.Scene) dynamo.Metric { return metrics.NewMaxSpeed() }
	r.metrics["population"] = func(*config.Scene) dynamo.Metric { return metrics.NewPopulation() }
	r.metrics["containment"] = func(s *config.Scene) dynamo.Metric {
		return metrics.NewContainment(s.WallExtent * 2)
	}

	return r
}

// GetScene returns a copy of the named preset.
func (r *Registry) GetScene(name string) (*config.Scene, error) {
	s := config.GetPreset(name)
	if s == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	return s, nil
}

func (r *Registry) GetMetric(name string, scene *config.Scene) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(scene), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics(scene *config.Scene) []dynamo.Metric {
	out := make([]dynamo.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name](scene))
	}
	return out
}
