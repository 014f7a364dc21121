package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/subsim/internal/config"
	"github.com/san-kum/subsim/internal/control"
	"github.com/san-kum/subsim/internal/integrators"
	"github.com/san-kum/subsim/internal/submarine"
)

func TestRegistryLookups(t *testing.T) {
	r := NewRegistry()

	if _, err := r.GetIntegrator("rk4"); err != nil {
		t.Errorf("rk4: %v", err)
	}
	if _, err := r.GetIntegrator("magic"); !errors.Is(err, integrators.ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}
	if _, err := r.GetController("warp", ControllerParams{}); !errors.Is(err, ErrUnknownController) {
		t.Errorf("expected ErrUnknownController, got %v", err)
	}
	if _, err := r.GetMetric("style", config.DefaultConfig(), 1); !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("expected ErrUnknownMetric, got %v", err)
	}

	for _, name := range r.ListControllers() {
		p := ControllerParams{ControllerConfig: config.ControllerConfig{Tank: "main", Surface: "stern"}}
		if _, err := r.GetController(name, p); err != nil {
			t.Errorf("controller %s: %v", name, err)
		}
	}
}

func TestRegistryMissingActuator(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"depth-hold", "depth-lqr", "pitch-hold"} {
		if _, err := r.GetController(name, ControllerParams{}); !errors.Is(err, ErrMissingActuator) {
			t.Errorf("%s: expected ErrMissingActuator, got %v", name, err)
		}
	}
}

func TestWithThrottleChains(t *testing.T) {
	r := NewRegistry()
	p := ControllerParams{Throttle: 100}
	p.Tank = "main"

	c, err := r.GetController("depth-hold", p)
	if err != nil {
		t.Fatalf("depth-hold: %v", err)
	}
	if _, ok := c.(control.Chain); !ok {
		t.Errorf("expected a chained controller, got %T", c)
	}
}

func TestDefaultMetrics(t *testing.T) {
	r := NewRegistry()
	ms := r.DefaultMetrics(config.DefaultConfig(), 10)
	if len(ms) != len(r.ListMetrics()) {
		t.Fatalf("got %d metrics, want %d", len(ms), len(r.ListMetrics()))
	}
	seen := make(map[string]bool)
	for _, m := range ms {
		seen[m.Name()] = true
	}
	for _, name := range r.ListMetrics() {
		if !seen[name] {
			t.Errorf("metric %s registered under a different name", name)
		}
	}
}

func TestRunBeforeSetup(t *testing.T) {
	e := New(config.DefaultConfig())
	if _, err := e.Run(context.Background()); !errors.Is(err, ErrNotSetup) {
		t.Errorf("expected ErrNotSetup, got %v", err)
	}
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = 0
	if err := New(cfg).Setup(NewRegistry()); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	cfg = config.DefaultConfig()
	cfg.Controller = "warp"
	if err := New(cfg).Setup(NewRegistry()); !errors.Is(err, ErrUnknownController) {
		t.Errorf("expected ErrUnknownController, got %v", err)
	}
}

func TestNewCopiesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	e := New(cfg)
	cfg.Dt = 5
	cfg.Submarine.Tanks[0].ID = "changed"
	if e.Config().Dt == 5 || e.Config().Submarine.Tanks[0].ID == "changed" {
		t.Error("experiment shares the caller's config")
	}
}

func TestDefaultScenarioRuns(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Duration = 10

	e := New(cfg)
	if err := e.Setup(NewRegistry()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.StepsTaken != 500 {
		t.Errorf("steps %d, want 500", result.StepsTaken)
	}
	if _, ok := result.Metrics["depth_drift"]; !ok {
		t.Errorf("metrics %v missing depth_drift", result.Metrics)
	}
	if e.Body().Integrator() != "semi-implicit-euler" {
		t.Errorf("integrator %s", e.Body().Integrator())
	}
}

func TestCruiseHoldsDepth(t *testing.T) {
	cfg := config.GetPreset("cruise")
	cfg.Duration = 30

	e := New(cfg)
	if err := e.Setup(NewRegistry()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	final := result.Final()
	if final.Pose.Position.X <= 0 {
		t.Errorf("cruise made no headway: %v", final.Pose.Position)
	}
	if math.Abs(final.Pose.Position.Z-150) > 0.1 {
		t.Errorf("trimmed boat drifted to depth %v", final.Pose.Position.Z)
	}
}

func TestDiveReachesTarget(t *testing.T) {
	cfg := config.GetPreset("dive")

	e := New(cfg)
	if err := e.Setup(NewRegistry()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	want, err := submarine.NeutralAirFraction(cfg.Submarine, cfg.Medium, cfg.ControllerParams.Target)
	if err != nil {
		t.Fatalf("NeutralAirFraction: %v", err)
	}
	if math.Abs(e.NeutralAirFraction()-want) > 1e-12 {
		t.Errorf("neutral %v, want %v", e.NeutralAirFraction(), want)
	}

	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	start := cfg.InitState.Z
	final := result.Final().Pose.Position.Z
	if math.Abs(final-180) >= math.Abs(start-180)/4 {
		t.Errorf("final depth %v, want near 180 (start %v)", final, start)
	}
}
