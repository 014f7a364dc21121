package experiment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/subsim/internal/body"
	"github.com/san-kum/subsim/internal/config"
	"github.com/san-kum/subsim/internal/dynamo"
	"github.com/san-kum/subsim/internal/submarine"
)

var ErrNotSetup = errors.New("experiment not setup")

// Experiment is one scenario: a submarine built from a config, its
// autopilot and the simulator driving it.
type Experiment struct {
	cfg       *config.Config
	log       *zap.Logger
	body      *body.Body
	simulator *dynamo.Simulator
	spec      submarine.Spec
	neutral   float64
}

type Option func(*Experiment)

func WithLogger(log *zap.Logger) Option {
	return func(e *Experiment) {
		if log != nil {
			e.log = log
		}
	}
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{
		cfg: cfg.Clone(),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Setup builds the body, controller and simulator. Metrics are taken from
// the registry when none are given.
func (e *Experiment) Setup(reg *Registry, metrics ...dynamo.Metric) error {
	cfg := e.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}

	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	spec := cfg.Submarine.Clone()
	if cfg.Trim {
		air, err := submarine.NeutralAirFraction(spec, cfg.Medium, cfg.InitState.Z)
		if err != nil {
			return fmt.Errorf("trim at %.1f: %w", cfg.InitState.Z, err)
		}
		spec = spec.Trimmed(air)
		e.log.Debug("trimmed", zap.Float64("air_fraction", air))
	}

	params := ControllerParams{
		ControllerConfig: cfg.ControllerParams,
		Throttle:         cfg.Throttle,
		Deflections:      cfg.Deflections,
	}
	if params.Tank == "" && len(spec.Tanks) > 0 {
		params.Tank = spec.Tanks[0].ID
	}
	if params.Surface == "" && len(spec.Surfaces) > 0 {
		params.Surface = spec.Surfaces[0].ID
	}
	if needsNeutral(cfg.Controller) {
		params.Neutral, err = submarine.NeutralAirFraction(spec, cfg.Medium, params.Target)
		if err != nil {
			return fmt.Errorf("%s to %.1f: %w", cfg.Controller, params.Target, err)
		}
		e.neutral = params.Neutral
	}

	ctrl, err := reg.GetController(cfg.Controller, params)
	if err != nil {
		return err
	}

	b, err := submarine.New(spec, cfg.Pose(),
		body.WithIntegrator(integ),
		body.WithMedium(cfg.Medium),
		body.WithVelocity(cfg.Velocity()),
		body.WithAngularVelocity(cfg.InitState.Omega),
		body.WithLogger(e.log),
	)
	if err != nil {
		return err
	}

	sim := dynamo.New(b, ctrl, dynamo.WithLogger(e.log))
	if len(metrics) == 0 {
		metrics = reg.DefaultMetrics(cfg, b.Mass())
	}
	for _, m := range metrics {
		sim.AddMetric(m)
	}

	e.spec = spec
	e.body = b
	e.simulator = sim
	return nil
}

func needsNeutral(controller string) bool {
	return controller == "depth-hold" || controller == "depth-lqr"
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, ErrNotSetup
	}
	return e.simulator.Run(ctx, e.RunConfig())
}

// RunConfig is the driver configuration derived from the scenario.
func (e *Experiment) RunConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Record:        1,
		StopAtSurface: e.cfg.StopAtSurface,
		SurfaceDepth:  e.cfg.Medium.SurfaceDepth,
	}
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *dynamo.Simulator {
	return e.simulator
}

// Spec is the submarine as built, after any trim.
func (e *Experiment) Spec() submarine.Spec { return e.spec }

func (e *Experiment) Body() *body.Body            { return e.body }
func (e *Experiment) Config() *config.Config      { return e.cfg }
func (e *Experiment) NeutralAirFraction() float64 { return e.neutral }
