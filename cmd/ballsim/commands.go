package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ballsim/internal/automation"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/export"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/storage"
	"github.com/san-kum/ballsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	scene, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(experiment.Config{
		Scene:       scene,
		Dt:          dt,
		Duration:    duration,
		SampleEvery: sampleEvery,
		Seed:        seed,
	})
	registry := experiment.NewRegistry()
	if err := exp.Setup(registry.DefaultMetrics(scene), physics.WithLogger(logger)); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running", "scene", scene.Name, "dt", dt, "duration", duration, "seed", seed)
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		logger.Warn("run interrupted, saving partial result", "err", err)
	}
	elapsed := time.Since(start)

	snap := exp.World().Snapshot()
	runID, err := st.Save(storage.Run{
		Scene:       scene,
		Dt:          dt,
		Duration:    duration,
		SampleEvery: sampleEvery,
		Seed:        seed,
		Result:      result,
		Snapshot:    &snap,
	})
	if err != nil {
		return err
	}

	printResult(runID, elapsed, result)
	return nil
}

func printResult(runID string, elapsed time.Duration, result *sim.Result) {
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Printf("bodies: %d\n", len(result.Final().Bodies))
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	s := result.Stats
	fmt.Println("\nevents:")
	fmt.Printf("  walls: %d  lids: %d  portals: %d\n", s.WallHits, s.TopHits, s.PortalHits)
	fmt.Printf("  cylinders: %d  spheres: %d  static: %d\n", s.CylinderHits, s.SphereHits, s.StaticHits)
	fmt.Printf("  absorbed: %d  removed: %d  teleported: %d  spawned: %d\n", s.Absorptions, s.Removals, s.Teleports, s.Spawns)
}

func runLive(cmd *cobra.Command, args []string) error {
	scene, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	return viz.RunLive(scene, frameRate, logger)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tSEED\tBODIES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Seed,
			run.FinalBodies,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(frames))
	if len(frames) < 2 {
		return fmt.Errorf("run %s has too few frames to plot", meta.ID)
	}

	momentum := make([]float64, len(frames))
	population := make([]float64, len(frames))
	for i, f := range frames {
		momentum[i] = f.Momentum
		population[i] = float64(len(f.Bodies))
	}
	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{momentum, "total momentum"},
		{population, "bodies"},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func output() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.New(dataDir).ExportJSON(w, args[0]); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.New(dataDir).ExportCSV(w, args[0]); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", args[0])
	}

	var svg string
	if trace, _ := cmd.Flags().GetBool("momentum"); trace {
		points := make([]mgl64.Vec2, len(frames))
		for i, f := range frames {
			points[i] = mgl64.Vec2{f.Time, f.Momentum}
		}
		svg = export.TrajectoryToSVG(points, 800, 400, "#00ccff")
	} else {
		scene, err := st.LoadScene(args[0])
		if err != nil {
			return err
		}
		half := scene.Bounds.HalfExtent
		view := export.View{MinX: -half, MaxX: half, MinY: scene.Bounds.Floor, MaxY: scene.TeleportHeight() + scene.WallExtent}
		svg = export.FrameToSVG(frames[len(frames)-1], view, 600, 600)
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, svg); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

// resumeRun rebuilds the stored scene, restores its final snapshot and
// keeps integrating with the stored dt.
func resumeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	scene, err := st.LoadScene(args[0])
	if err != nil {
		return err
	}
	snap, err := st.LoadSnapshot(args[0])
	if err != nil {
		return err
	}
	if debug {
		scene.Debug = true
	}

	w, err := physics.New(*scene, physics.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := w.Restore(*snap); err != nil {
		return err
	}

	simulator := sim.New()
	for _, m := range experiment.NewRegistry().DefaultMetrics(scene) {
		simulator.AddMetric(m)
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("resuming", "run", meta.ID, "from", snap.Time, "duration", resumeTime)
	start := time.Now()
	result, err := simulator.Run(ctx, w, sim.Config{Dt: meta.Dt, Duration: resumeTime, SampleEvery: sampleEvery, Seed: meta.Seed})
	if err != nil && result == nil {
		return err
	}
	elapsed := time.Since(start)

	next := w.Snapshot()
	runID, err := st.Save(storage.Run{
		Scene:       scene,
		Dt:          meta.Dt,
		Duration:    resumeTime,
		SampleEvery: sampleEvery,
		Seed:        meta.Seed,
		Result:      result,
		Snapshot:    &next,
	})
	if err != nil {
		return err
	}
	printResult(runID, elapsed, result)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, st, logger)
	for i, r := range results {
		fmt.Printf("  step %d: %s (%d bodies)\n", i+1, r.RunID, len(r.Result.Final().Bodies))
	}
	return err
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	scene, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	factory := func(s int64) (sim.World, error) {
		member := scene.Clone()
		member.Seed = s
		w, err := physics.New(*member, physics.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	metrics := func() []dynamo.Metric { return registry.DefaultMetrics(scene) }

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("ensemble", "scene", scene.Name, "runs", numRuns, "seed", seed)
	start := time.Now()
	results, err := sim.NewEnsemble(factory, metrics, numRuns, seed).Run(ctx, sim.Config{Dt: dt, Duration: duration})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tBODIES\tMOMENTUM\tABSORBED\tREMOVED\tTELEPORTS")
	for i, r := range results {
		final := r.Final()
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%d\t%d\t%d\n",
			seed+int64(i), len(final.Bodies), final.Momentum,
			r.Stats.Absorptions, r.Stats.Removals, r.Stats.Teleports)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted %d runs in %v\n", len(results), time.Since(start))
	return nil
}

func presetArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "default"
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Preset:    presetArg(args),
		ParamName: paramName,
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  numSteps,
		Duration:  studyTime,
		Dt:        studyDt,
		Seed:      studySeed,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tBODIES\tABSORBED\tREMOVED\tMEAN MOMENTUM\n", paramName)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%d\t%d\t%d\t%.4f\n", r.ParamValue, r.FinalBodies, r.Absorptions, r.Removals, r.MeanMomentum)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Preset:       presetArg(args),
		Perturbation: perturb,
		NumTrials:    numTrials,
		Duration:     studyTime,
		Dt:           studyDt,
		Seed:         studySeed,
	}, logger)
	if err != nil {
		return err
	}
	contained, escaped := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d\n", len(results))
	fmt.Printf("contained: %d\n", contained)
	fmt.Printf("escaped: %d\n", escaped)
	return nil
}
