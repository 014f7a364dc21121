package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/subsim/internal/config"
	"github.com/san-kum/subsim/internal/experiment"
	"github.com/san-kum/subsim/internal/logging"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	dt         float64
	duration   float64
	throttle   float64
	depth      float64
	integrator string
	controller string
	kp         float64
	ki         float64
	kd         float64
	target     float64
	save       bool
	// plot
	channel string
	track   bool
	svgFile string
	output  string
	// analyze
	tolerance float64
	// trim and tune
	points  int
	rounds  int
	grid    []string
	metric  string
	workers int
	// montecarlo
	trials int
	seed   int64
	spread []string
	// live
	stepsPerFrame int
	theme         string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "subsim",
		Short:         "submarine rigid-body simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".subsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error, off)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&channel, "channel", "", "channel to plot (default: depth, speed, angle, throttle)")
	plotCmd.Flags().BoolVar(&track, "track", false, "draw the path through the water column")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the path to an SVG file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "settling, overshoot and oscillation of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&tolerance, "tol", 0.5, "settling band (m)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run states to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and states to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [integrator1] [integrator2] ...",
		Short: "run one scenario under several integrators",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addScenarioFlags(compareCmd)
	compareCmd.Flags().BoolVar(&save, "save", false, "store every integrator's run")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [preset1] [preset2] ...",
		Short: "run several scenarios side by side",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep shared by every member")
	ensembleCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration shared by every member")
	ensembleCmd.Flags().BoolVar(&save, "save", false, "store every member's run")

	trimCmd := &cobra.Command{
		Use:   "trim [preset]",
		Short: "search for the air fraction that holds depth",
		Args:  cobra.MaximumNArgs(1),
		RunE:  trimScenario,
	}
	addScenarioFlags(trimCmd)
	trimCmd.Flags().IntVar(&points, "points", 11, "grid points per round")
	trimCmd.Flags().IntVar(&rounds, "rounds", 3, "refinement rounds")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid search scenario parameters",
		Long: "Runs every combination of --grid values and reports the one minimising --metric.\n" +
			"Each --grid is name=lo:hi:n, for example --grid kp=0.01:0.1:5.",
		Args: cobra.MaximumNArgs(1),
		RunE: tuneScenario,
	}
	addScenarioFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&grid, "grid", nil, "parameter range name=lo:hi:n (repeatable)")
	tuneCmd.Flags().StringVar(&metric, "metric", "depth_drift", "metric to minimise")
	tuneCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default GOMAXPROCS)")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml sequence of scenarios",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "run a scenario many times under random perturbations",
		Long:  "Each --spread is name=halfwidth, for example --spread depth=10.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addScenarioFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	monteCarloCmd.Flags().StringArrayVar(&spread, "spread", nil, "perturbation name=halfwidth (repeatable)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "drive a scenario by hand",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps", 2, "ticks per frame")
	liveCmd.Flags().StringVar(&theme, "theme", "sonar", "color theme")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, presetsCmd,
		compareCmd, ensembleCmd, trimCmd, tuneCmd, scriptCmd, monteCarloCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml or toml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&throttle, "throttle", 0, "propeller thrust (N)")
	cmd.Flags().Float64Var(&depth, "depth", config.DefaultDepth, "start depth")
	cmd.Flags().StringVar(&integrator, "integrator", "semi-implicit-euler", "integrator")
	cmd.Flags().StringVar(&controller, "controller", "none", "controller")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "pid kp")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "pid ki")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "pid kd")
	cmd.Flags().Float64Var(&target, "target", config.DefaultDepth, "controller setpoint")
}

// loadScenario resolves a preset, then a scenario file, then any flag the
// user set explicitly.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", args[0], strings.Join(config.ListPresets(), ", "))
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("throttle") {
		cfg.Throttle = throttle
	}
	if flags.Changed("depth") {
		cfg.InitState.Z = depth
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("controller") {
		cfg.Controller = controller
	}
	if flags.Changed("kp") {
		cfg.ControllerParams.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.ControllerParams.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.ControllerParams.Kd = kd
	}
	if flags.Changed("target") {
		cfg.ControllerParams.Target = target
	}
	return cfg, nil
}

func newLogger() (*zap.Logger, error) {
	return logging.New(logLevel)
}

// setup builds a ready experiment for cfg.
func setup(cfg *config.Config, log *zap.Logger, reg *experiment.Registry) (*experiment.Experiment, error) {
	exp := experiment.New(cfg, experiment.WithLogger(log.With(zap.String("scenario", cfg.Name))))
	if err := exp.Setup(reg); err != nil {
		return nil, err
	}
	return exp, nil
}

// signalContext is canceled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
