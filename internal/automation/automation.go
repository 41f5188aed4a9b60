package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Preset names a built-in scene; Config is a
// scene file path and wins when both are set.
type ScenarioStep struct {
	Preset      string  `yaml:"preset"`
	Config      string  `yaml:"config"`
	Duration    float64 `yaml:"duration"`
	Dt          float64 `yaml:"dt"`
	Seed        int64   `yaml:"seed"`
	SampleEvery int     `yaml:"sample_every"`
	SaveAs      string  `yaml:"save_as"`
}

// StepResult pairs a step's result with the run ID it was saved under.
type StepResult struct {
	RunID  string
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &scenario, nil
}

func (st ScenarioStep) scene(registry *experiment.Registry) (*config.Scene, error) {
	if st.Config != "" {
		return config.Load(st.Config)
	}
	name := st.Preset
	if name == "" {
		name = "default"
	}
	return registry.GetScene(name)
}

// RunScenario executes all steps in order, saving each to store when it
// is non-nil. Steps fall back to the scene's run settings for a zero dt
// or duration.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, logger *log.Logger) ([]StepResult, error) {
	registry := experiment.NewRegistry()
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		scene, err := step.scene(registry)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.Seed != 0 {
			scene.Seed = step.Seed
		}

		dt, duration := step.Dt, step.Duration
		if dt == 0 {
			dt = scene.Run.Dt
		}
		if duration == 0 {
			duration = scene.Run.Duration
		}

		logger.Info("running step", "step", i+1, "of", len(scenario.Steps), "scene", scene.Name, "duration", duration)

		cfg := experiment.Config{
			Scene:       scene,
			Dt:          dt,
			Duration:    duration,
			SampleEvery: step.SampleEvery,
			Seed:        scene.Seed,
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry.DefaultMetrics(scene), physics.WithLogger(logger)); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Result: result}
		if store != nil {
			snap := exp.World().Snapshot()
			sr.RunID, err = store.Save(storage.Run{
				ID:          step.SaveAs,
				Scene:       scene,
				Dt:          dt,
				Duration:    duration,
				SampleEvery: step.SampleEvery,
				Seed:        scene.Seed,
				Result:      result,
				Snapshot:    &snap,
			})
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			logger.Info("saved step", "step", i+1, "run", sr.RunID)
		}

		results = append(results, sr)
	}

	return results, nil
}
