package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/subsim/internal/config"
	"github.com/san-kum/subsim/internal/control"
	"github.com/san-kum/subsim/internal/dynamo"
	"github.com/san-kum/subsim/internal/experiment"
	"github.com/san-kum/subsim/internal/optim"
	"github.com/san-kum/subsim/internal/storage"
	"github.com/san-kum/subsim/internal/submarine"
	"github.com/san-kum/subsim/internal/viz"
)

// runMembers runs the experiments concurrently and prints a depth overlay
// and the metrics side by side.
func runMembers(names []string, exps []*experiment.Experiment, runCfg dynamo.Config) error {
	ens := dynamo.NewEnsemble()
	for i, exp := range exps {
		ens.Add(names[i], exp.GetSimulator())
	}

	ctx, cancel := signalContext()
	defer cancel()
	results, err := ens.Run(ctx, runCfg)
	if err != nil {
		return err
	}

	runs := make([][]storage.Row, len(results))
	metrics := make([]map[string]float64, len(results))
	for i, r := range results {
		runs[i] = storage.Rows(r)
		metrics[i] = r.Metrics
	}

	graph, err := viz.PlotCompare(names, runs, "depth", 80, 12)
	if err != nil {
		return err
	}
	fmt.Println(graph)
	fmt.Println()
	fmt.Println(viz.CompareTable(names, metrics, viz.ThemeMinimal))

	if !save {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	for i, exp := range exps {
		cfg := exp.Config()
		runID, err := st.Save(storage.RunMetadata{
			Name:       names[i],
			Dt:         runCfg.Dt,
			Duration:   runCfg.Duration,
			Integrator: cfg.Integrator,
			Controller: cfg.Controller,
		}, cfg, results[i])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", names[i], runID)
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := loadScenario(cmd, args[:1])
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	reg := experiment.NewRegistry()
	names := args[1:]
	exps := make([]*experiment.Experiment, len(names))
	for i, name := range names {
		cfg := base.Clone()
		cfg.Integrator = name
		if exps[i], err = setup(cfg, log, reg); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	fmt.Printf("comparing %s on %s\n\n", strings.Join(names, ", "), base.Name)
	return runMembers(names, exps, exps[0].RunConfig())
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	reg := experiment.NewRegistry()
	exps := make([]*experiment.Experiment, len(args))
	for i, name := range args {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %s)", name, strings.Join(config.ListPresets(), ", "))
		}
		cfg.Dt, cfg.Duration = dt, duration
		if exps[i], err = setup(cfg, log, reg); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return runMembers(args, exps, dynamo.Config{Dt: dt, Duration: duration, Record: 1})
}

func trimScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	air, drift, err := optim.TrimSearch(ctx, cfg, experiment.NewRegistry(), points, rounds)
	if err != nil {
		return err
	}
	log.Info("trim search finished", zap.Float64("air", air), zap.Float64("depth_drift", drift))

	fmt.Printf("scenario: %s at %.1f m\n", cfg.Name, cfg.InitState.Z)
	fmt.Printf("searched air fraction: %.4f (depth drift %.4f m over %.0fs)\n", air, drift, cfg.Duration)
	neutral, err := submarine.NeutralAirFraction(cfg.Submarine, cfg.Medium, cfg.InitState.Z)
	switch {
	case errors.Is(err, submarine.ErrNoTrim):
		fmt.Println("no neutral air fraction in [0, 1] at this depth")
	case err != nil:
		return err
	default:
		fmt.Printf("analytic neutral fraction: %.4f\n", neutral)
	}
	return nil
}

// parseGrid reads name=lo:hi:n.
func parseGrid(spec string) (string, []float64, error) {
	name, rng, ok := strings.Cut(spec, "=")
	parts := strings.Split(rng, ":")
	if !ok || name == "" || len(parts) != 3 {
		return "", nil, fmt.Errorf("bad grid %q: want name=lo:hi:n", spec)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad grid %q: %w", spec, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad grid %q: %w", spec, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("bad grid %q: point count must be a positive integer", spec)
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func tuneScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	if len(grid) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	names := make([]string, len(grid))
	ranges := make([][]float64, len(grid))
	for i, g := range grid {
		if names[i], ranges[i], err = parseGrid(g); err != nil {
			return err
		}
	}
	for i, name := range names {
		if _, err := optim.Apply(cfg, map[string]float64{name: ranges[i][0]}); err != nil {
			return err
		}
	}

	gs := optim.NewGridSearch(names, ranges)
	gs.SetLimit(workers)

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("searching %d points on %s for the lowest %s...\n", len(gs.Points()), cfg.Name, metric)
	best, value, err := gs.Search(ctx, optim.Scenario(cfg, experiment.NewRegistry()), metric)
	if err != nil {
		return err
	}
	fmt.Println(viz.MetricsTable(fmt.Sprintf("best %s = %.6g", metric, value), best, viz.ThemeMinimal))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	cfg.Controller = "manual"

	// json lines on stderr would tear the screen
	logLevel = "off"
	log, err := newLogger()
	if err != nil {
		return err
	}

	exp, err := setup(cfg, log, experiment.NewRegistry())
	if err != nil {
		return err
	}
	manual, ok := exp.GetSimulator().Controller().(*control.Manual)
	if !ok {
		return fmt.Errorf("live mode needs a manual controller")
	}

	opts := viz.DefaultLiveOptions()
	opts.Name = cfg.Name
	opts.Dt = cfg.Dt
	opts.StepsPerFrame = stepsPerFrame
	opts.Throttle = cfg.Throttle
	opts.MaxThrottle = experiment.DefaultMaxThrottle
	opts.SurfaceDepth = cfg.Medium.SurfaceDepth
	opts.Theme = theme
	spec := exp.Spec()
	if len(spec.Tanks) > 0 {
		opts.Tank = spec.Tanks[0].ID
		opts.Air = spec.Tanks[0].AirFraction
	}
	if len(spec.Surfaces) > 0 {
		opts.Surface = spec.Surfaces[0].ID
	}

	final, err := tea.NewProgram(viz.NewLiveModel(exp.GetSimulator(), manual, opts), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(viz.LiveModel); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
