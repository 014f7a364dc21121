package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/subsim/internal/automation"
	"github.com/san-kum/subsim/internal/experiment"
	"github.com/san-kum/subsim/internal/storage"
	"github.com/san-kum/subsim/internal/viz"
)

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
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

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running script %s (%d steps)\n", script.Name, len(script.Steps))
	results, runErr := automation.RunScript(ctx, script, experiment.NewRegistry(), log)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tSTEPS\tFINAL DEPTH")
	for _, r := range results {
		cfg := r.Config
		runID, err := st.Save(storage.RunMetadata{
			Name:       r.Name,
			Dt:         cfg.Dt,
			Duration:   cfg.Duration,
			Integrator: cfg.Integrator,
			Controller: cfg.Controller,
		}, cfg, r.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\n", r.Name, runID, r.Result.StepsTaken, r.Result.Final().Pose.Position.Z)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func parseSpread(specs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(specs))
	for _, spec := range specs {
		name, val, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("bad spread %q: want name=halfwidth", spec)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("bad spread %q: halfwidth must be a non-negative number", spec)
		}
		out[name] = v
	}
	return out, nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	spreads, err := parseSpread(spread)
	if err != nil {
		return err
	}
	if len(spreads) == 0 {
		return fmt.Errorf("at least one --spread is required")
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d trials of %s...\n", trials, cfg.Name)
	results, err := automation.RunMonteCarlo(ctx, cfg, experiment.NewRegistry(), automation.MonteCarloConfig{
		Trials: trials,
		Spread: spreads,
		Seed:   seed,
	})
	if err != nil {
		return err
	}

	sum := automation.Summarize(results)
	fmt.Printf("stable: %d  unstable: %d\n\n", sum.Trials-sum.Unstable, sum.Unstable)
	if len(sum.Mean) > 0 {
		fmt.Println(viz.CompareTable([]string{"mean", "worst"}, []map[string]float64{sum.Mean, sum.Worst}, viz.ThemeMinimal))
	}
	return nil
}
