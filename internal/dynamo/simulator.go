package dynamo

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/subsim/internal/body"
)

type Simulator struct {
	body       Ticker
	controller Controller
	metrics    []Metric
	observers  []Observer
	log        *zap.Logger
}

type Option func(*Simulator)

func WithLogger(log *zap.Logger) Option {
	return func(s *Simulator) {
		if log != nil {
			s.log = log
		}
	}
}

func New(b Ticker, controller Controller, opts ...Option) *Simulator {
	s := &Simulator{
		body:       b,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Body() Ticker           { return s.body }
func (s *Simulator) Controller() Controller { return s.controller }

// Run ticks the body for cfg.Duration. On a tick failure it returns the
// partial result together with a *SimulationError.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	every := cfg.Record
	if every < 1 {
		every = 1
	}

	result := &Result{
		Snapshots: make([]body.Snapshot, 0, steps/every+2),
		Inputs:    make([]Input, 0, steps/every+1),
		Times:     make([]float64, 0, steps/every+2),
		Metrics:   make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	first := s.body.Snapshot()
	result.Snapshots = append(result.Snapshots, first)
	result.Times = append(result.Times, first.Time)

	s.log.Info("run started",
		zap.Float64("dt", cfg.Dt),
		zap.Float64("duration", cfg.Duration),
		zap.Int("steps", steps),
	)

	var last body.Snapshot
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		snap := s.body.Snapshot()
		in := s.input(snap)

		for _, m := range s.metrics {
			m.Observe(snap, in)
		}
		for _, obs := range s.observers {
			obs.OnStep(snap, in)
		}

		if err := s.step(cfg.Dt, in); err != nil {
			s.log.Warn("run aborted", zap.Int("step", i), zap.Error(err))
			s.finish(result)
			return result, &SimulationError{Step: i, Time: snap.Time, Pose: snap.Pose, Wrapped: err}
		}
		result.StepsTaken++

		last = s.body.Snapshot()
		recorded := (i+1)%every == 0
		if recorded {
			result.Snapshots = append(result.Snapshots, last)
			result.Inputs = append(result.Inputs, in)
			result.Times = append(result.Times, last.Time)
		}

		if cfg.StopAtSurface && last.Pose.Position.Z <= cfg.SurfaceDepth {
			if !recorded {
				result.Snapshots = append(result.Snapshots, last)
				result.Inputs = append(result.Inputs, in)
				result.Times = append(result.Times, last.Time)
			}
			result.Surfaced = true
			break
		}
	}

	s.finish(result)
	s.log.Info("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Float64("depth", last.Pose.Position.Z),
		zap.Bool("surfaced", result.Surfaced),
	)
	return result, nil
}

func (s *Simulator) input(snap body.Snapshot) Input {
	if s.controller == nil {
		return Input{}
	}
	return s.controller.Compute(snap)
}

func (s *Simulator) step(dt float64, in Input) error {
	_, err := s.body.Advance(dt, in.Throttle, in.Deflections, in.Ballast)
	return err
}

func (s *Simulator) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Step advances the body by one tick under the controller, feeding metrics
// and observers first. It returns the snapshot the input was computed from.
func (s *Simulator) Step(dt float64) (body.Snapshot, Input, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return body.Snapshot{}, Input{}, fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, dt)
	}
	snap := s.body.Snapshot()
	in := s.input(snap)
	for _, m := range s.metrics {
		m.Observe(snap, in)
	}
	for _, obs := range s.observers {
		obs.OnStep(snap, in)
	}
	if err := s.step(dt, in); err != nil {
		return snap, in, &SimulationError{Step: snap.Step, Time: snap.Time, Pose: snap.Pose, Wrapped: err}
	}
	return snap, in, nil
}

// Metrics reports the current value of every metric.
func (s *Simulator) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	return nil
}
