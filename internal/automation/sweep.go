package automation

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/physics"
)

var sweepParams = map[string]func(*config.Scene, float64){
	"restitution":    func(s *config.Scene, v float64) { s.Restitution = v },
	"gravity":        func(s *config.Scene, v float64) { s.Gravity = mgl64.Vec3{0, -v, 0} },
	"spawn_interval": func(s *config.Scene, v float64) { s.SpawnInterval = v },
	"base_yaw":       func(s *config.Scene, v float64) { s.BaseYaw = v },
}

// SweepParams lists the scene parameters a sweep can vary.
func SweepParams() []string {
	names := make([]string, 0, len(sweepParams))
	for name := range sweepParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParameterSweep runs one simulation per evenly spaced parameter value
type ParameterSweep struct {
	Preset    string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Duration  float64
	Dt        float64
	Seed      int64
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue   float64
	FinalBodies  int
	Absorptions  int
	Removals     int
	MeanMomentum float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *log.Logger) ([]SweepResult, error) {
	set, ok := sweepParams[sweep.ParamName]
	if !ok {
		return nil, fmt.Errorf("unknown sweep parameter: %s", sweep.ParamName)
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}

	registry := experiment.NewRegistry()
	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		scene, err := registry.GetScene(sweep.Preset)
		if err != nil {
			return nil, err
		}
		set(scene, paramVal)

		exp := experiment.New(experiment.Config{Scene: scene, Dt: sweep.Dt, Duration: sweep.Duration, Seed: sweep.Seed})
		if err := exp.Setup(registry.DefaultMetrics(scene), physics.WithLogger(logger)); err != nil {
			return nil, fmt.Errorf("%s=%.4f: %w", sweep.ParamName, paramVal, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue:   paramVal,
			FinalBodies:  len(result.Final().Bodies),
			Absorptions:  result.Stats.Absorptions,
			Removals:     result.Stats.Removals,
			MeanMomentum: result.Metrics["momentum"],
		})

		logger.Info("sweep", "step", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Preset       string
	Perturbation float64
	NumTrials    int
	Duration     float64
	Dt           float64
	Seed         int64
}

// MonteCarloResult holds the outcome of one perturbed trial
type MonteCarloResult struct {
	TrialID  int
	Spawns   []mgl64.Vec3
	Removals int
	// Contained reports whether every final body lies inside the play volume.
	Contained bool
}

// RunMonteCarlo perturbs the spawn template velocities of each trial.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger *log.Logger) ([]MonteCarloResult, error) {
	registry := experiment.NewRegistry()
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		scene, err := registry.GetScene(cfg.Preset)
		if err != nil {
			return nil, err
		}

		spawns := make([]mgl64.Vec3, len(scene.Spawns))
		for i := range scene.Spawns {
			v := scene.Spawns[i].Velocity
			for k := 0; k < 3; k++ {
				v[k] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
			}
			scene.Spawns[i].Velocity = v
			spawns[i] = v
		}

		exp := experiment.New(experiment.Config{Scene: scene, Dt: cfg.Dt, Duration: cfg.Duration, Seed: rng.Int63()})
		if err := exp.Setup(nil, physics.WithLogger(logger)); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		contained := true
		for _, b := range result.Final().Bodies {
			p := b.Position
			if p.Y() < scene.Bounds.Floor || abs(p.X()) > scene.Bounds.HalfExtent || abs(p.Z()) > scene.Bounds.HalfExtent {
				contained = false
				break
			}
		}

		results = append(results, MonteCarloResult{
			TrialID:   trial,
			Spawns:    spawns,
			Removals:  result.Stats.Removals,
			Contained: contained,
		})

		if (trial+1)%10 == 0 {
			logger.Info("monte carlo", "trials", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats counts contained and escaped trials.
func MonteCarloStats(results []MonteCarloResult) (contained int, escaped int) {
	for _, r := range results {
		if r.Contained {
			contained++
		} else {
			escaped++
		}
	}
	return
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
