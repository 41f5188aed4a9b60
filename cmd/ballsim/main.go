package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/viz"
)

var (
	dataDir     string
	debug       bool
	dt          float64
	duration    float64
	seed        int64
	sampleEvery int
	configFile  string
	frameRate   int
	outFile     string
	numRuns     int
	numTrials   int
	paramName   string
	paramMin    float64
	paramMax    float64
	numSteps    int
	perturb     float64
	studyDt     float64
	studyTime   float64
	studySeed   int64
	resumeTime  float64

	logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: time.Kitchen})
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ballsim",
		Short: "bouncing spheres in stacked rotated boxes",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				logger.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(logger)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ballsim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log every collision")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a headless simulation and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	sceneFlags(runCmd)
	runCmd.Flags().IntVar(&sampleEvery, "every", 6, "store every nth frame")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scene with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot momentum and population of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the final frame, or the momentum trace, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().Bool("momentum", false, "plot momentum over time instead")

	resumeCmd := &cobra.Command{
		Use:   "resume [run_id]",
		Short: "continue a stored run from its snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  resumeRun,
	}
	resumeCmd.Flags().Float64Var(&resumeTime, "time", config.DefaultDuration, "additional duration")
	resumeCmd.Flags().IntVar(&sampleEvery, "every", 6, "store every nth frame")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				s := config.GetPreset(p)
				fmt.Printf("  %-10s %d bodies, %d spawns, %d cylinders\n", p, len(s.Bodies), len(s.Spawns), len(s.Cylinders))
			}
			return nil
		},
	}

	metricsCmd := &cobra.Command{
		Use:   "metrics",
		Short: "list metrics recorded by run",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range experiment.NewRegistry().ListMetrics() {
				fmt.Printf("  %s\n", m)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a preset scene to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("preset")
			scene := config.GetPreset(name)
			if scene == nil {
				return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
			}
			if err := config.Save(args[0], scene); err != nil {
				return err
			}
			logger.Info("wrote scene", "path", args[0], "preset", name)
			return nil
		},
	}
	initCmd.Flags().String("preset", "default", "preset to write")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [preset]",
		Short: "run one scene with consecutive seeds in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	sceneFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of members")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep one scene parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&paramName, "param", "restitution", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0.2, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 1.0, "last value")
	sweepCmd.Flags().IntVar(&numSteps, "steps", 5, "number of values")
	studyFlags(sweepCmd)

	mcCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "perturb spawn velocities over many trials",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	mcCmd.Flags().IntVar(&numTrials, "trials", 20, "number of trials")
	mcCmd.Flags().Float64Var(&perturb, "perturb", 1.0, "velocity perturbation")
	studyFlags(mcCmd)

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, resumeCmd,
		presetsCmd, metricsCmd, initCmd, scenarioCmd, ensembleCmd, sweepCmd, mcCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func studyFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&studyDt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&studyTime, "time", 10, "duration")
	cmd.Flags().Int64Var(&studySeed, "seed", 1, "random seed")
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
}

// loadScene resolves the preset argument or --config file. Flags the user
// set override the scene file; the rest fall back to its run section.
func loadScene(cmd *cobra.Command, args []string) (*config.Scene, error) {
	var scene *config.Scene
	if configFile != "" {
		s, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		scene = s
	} else {
		name := "default"
		if len(args) > 0 {
			name = args[0]
		}
		scene = config.GetPreset(name)
		if scene == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if !flags.Changed("dt") && scene.Run.Dt > 0 {
		dt = scene.Run.Dt
	}
	if !flags.Changed("time") && scene.Run.Duration > 0 {
		duration = scene.Run.Duration
	}
	if flags.Lookup("seed") != nil {
		if flags.Changed("seed") || scene.Seed == 0 {
			scene.Seed = seed
		} else {
			seed = scene.Seed
		}
	}
	if debug {
		scene.Debug = true
	}
	return scene, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
