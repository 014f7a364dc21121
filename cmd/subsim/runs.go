package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/subsim/internal/analysis"
	"github.com/san-kum/subsim/internal/config"
	"github.com/san-kum/subsim/internal/dynamo"
	"github.com/san-kum/subsim/internal/experiment"
	"github.com/san-kum/subsim/internal/storage"
	"github.com/san-kum/subsim/internal/viz"
)

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := setup(cfg, log, experiment.NewRegistry())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (%s, %s)...\n", cfg.Name, cfg.Integrator, cfg.Controller)
	start := time.Now()
	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	var simErr *dynamo.SimulationError
	if runErr != nil && !errors.As(runErr, &simErr) {
		return runErr
	}

	runID, err := st.Save(storage.RunMetadata{
		Name:       cfg.Name,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Controller: cfg.Controller,
	}, exp.Config(), result)
	if err != nil {
		return err
	}
	log.Info("run saved", zap.String("run_id", runID))

	final := result.Final()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("final depth: %.2f m, x: %.1f m\n", final.Pose.Position.Z, final.Pose.Position.X)
	if result.Surfaced {
		fmt.Printf("surfaced at t=%.2fs\n", final.Time)
	}
	if n := exp.NeutralAirFraction(); n > 0 {
		fmt.Printf("neutral air fraction at target: %.4f\n", n)
	}
	fmt.Println()
	fmt.Println(viz.MetricsTable("metrics", result.Metrics, viz.ThemeMinimal))

	// a diverged run is still saved for inspection
	return runErr
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tDT\tINTEG\tCTRL\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Controller,
			run.Steps,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%s, %s)\n", meta.Name, meta.Integrator, meta.Controller)
	fmt.Printf("samples: %d\n\n", len(rows))

	xs, zs := make([]float64, len(rows)), make([]float64, len(rows))
	for i, r := range rows {
		xs[i], zs[i] = r.X, r.Z
	}
	if svgFile != "" {
		if err := os.WriteFile(svgFile, []byte(viz.TrackSVG(xs, zs, 800, 400, "#00ff88")), 0644); err != nil {
			return err
		}
		fmt.Printf("track written to %s\n", svgFile)
	}
	if track {
		fmt.Println(viz.TrackPlot(xs, zs, 60, 16))
		return nil
	}

	names := []string{"depth", "speed", "angle", "throttle"}
	if channel != "" {
		names = []string{channel}
	}
	for _, name := range names {
		graph, err := viz.PlotRun(rows, name, 80, 10)
		if err != nil {
			return err
		}
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("not enough samples to analyze")
	}

	times := make([]float64, len(rows))
	depths := make([]float64, len(rows))
	speeds := make([]float64, len(rows))
	pitch := make([]float64, len(rows))
	vz := make([]float64, len(rows))
	for i, r := range rows {
		times[i], depths[i], pitch[i], vz[i] = r.Time, r.Z, r.Angle, r.VZ
		speeds[i] = math.Hypot(r.VX, r.VZ)
	}

	fmt.Printf("run: %s\n\n", meta.ID)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "depth settles (±%.2f m)\t%.2fs\n", tolerance, analysis.SettlingTime(times, depths, tolerance))
	fmt.Fprintf(w, "mean depth\t%.2f m\n", analysis.Mean(depths))
	if cfg, err := st.LoadConfig(runID); err == nil && cfg.ControllerParams.Target != 0 {
		fmt.Fprintf(w, "overshoot past %.1f m\t%.3f m\n", cfg.ControllerParams.Target, analysis.Overshoot(depths, cfg.ControllerParams.Target))
	}
	fmt.Fprintf(w, "speed converged\t%v (%.3f m/s)\n", analysis.Converged(speeds, min(50, len(speeds)), 1e-3), speeds[len(speeds)-1])
	if period := analysis.DominantPeriod(pitch, meta.Dt); period > 0 {
		fmt.Fprintf(w, "pitch period\t%.2fs\n", period)
	} else {
		fmt.Fprintf(w, "pitch period\tnone\n")
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nvertical speed against depth:")
	fmt.Print(analysis.PhasePortraitToASCII(analysis.NewPhasePortrait(depths, vz), 60, 16))
	return nil
}

// outputWriter opens the --output file, or stdout when none was given.
func outputWriter() (io.Writer, func() error, error) {
	if output == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rows, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	w, closeFn, err := outputWriter()
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(w, rows); err != nil {
		closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}
	if output != "" {
		fmt.Printf("exported %d rows to %s\n", len(rows), output)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	w, closeFn, err := outputWriter()
	if err != nil {
		return err
	}
	if err := st.ExportJSON(w, args[0]); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCONTROLLER\tINTEG\tDURATION\tDEPTH\tTHROTTLE")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fs\t%.0f\t%.0f\n",
			name, p.Controller, p.Integrator, p.Duration, p.InitState.Z, p.Throttle)
	}
	return w.Flush()
}
