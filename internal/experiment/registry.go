package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/subsim/internal/config"
	"github.com/san-kum/subsim/internal/control"
	"github.com/san-kum/subsim/internal/dynamo"
	"github.com/san-kum/subsim/internal/integrators"
	"github.com/san-kum/subsim/internal/metrics"
)

var (
	ErrUnknownController = errors.New("unknown controller")
	ErrUnknownMetric     = errors.New("unknown metric")
	ErrMissingActuator   = errors.New("controller has no actuator")
)

const (
	DefaultDepthBand   = 5.0
	DefaultMaxThrottle = 50000.0
	DefaultPitchLimit  = 0.5
)

// ControllerParams is everything a controller factory may read.
type ControllerParams struct {
	config.ControllerConfig
	Throttle    float64
	Deflections map[string]float64
	// Neutral is the air fraction that holds the target depth.
	Neutral float64
}

func (p ControllerParams) gains() control.Gains {
	return control.Gains{Kp: p.Kp, Ki: p.Ki, Kd: p.Kd}
}

func (p ControllerParams) limit(fallback float64) float64 {
	if p.Limit > 0 {
		return p.Limit
	}
	return fallback
}

type Registry struct {
	controllers map[string]func(ControllerParams) (dynamo.Controller, error)
	metrics     map[string]func(cfg *config.Config, mass float64) dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		controllers: make(map[string]func(ControllerParams) (dynamo.Controller, error)),
		metrics:     make(map[string]func(*config.Config, float64) dynamo.Metric),
	}

	r.controllers["none"] = func(ControllerParams) (dynamo.Controller, error) {
		return control.NewNone(), nil
	}
	r.controllers["constant"] = func(p ControllerParams) (dynamo.Controller, error) {
		return control.NewConstant(p.Throttle, p.Deflections), nil
	}
	r.controllers["manual"] = func(p ControllerParams) (dynamo.Controller, error) {
		m := control.NewManual()
		m.SetThrottle(p.Throttle)
		for id, angle := range p.Deflections {
			m.SetDeflection(id, angle)
		}
		return m, nil
	}
	r.controllers["depth-hold"] = func(p ControllerParams) (dynamo.Controller, error) {
		if p.Tank == "" {
			return nil, fmt.Errorf("depth-hold: %w: no tank", ErrMissingActuator)
		}
		hold := control.NewDepthHold(p.Tank, p.Target, p.Neutral, p.gains())
		return withThrottle(hold, p), nil
	}
	r.controllers["depth-lqr"] = func(p ControllerParams) (dynamo.Controller, error) {
		if p.Tank == "" {
			return nil, fmt.Errorf("depth-lqr: %w: no tank", ErrMissingActuator)
		}
		return withThrottle(control.NewDepthLQR(p.Tank, p.Target, p.Neutral), p), nil
	}
	r.controllers["speed-hold"] = func(p ControllerParams) (dynamo.Controller, error) {
		return control.NewSpeedHold(p.Target, p.limit(DefaultMaxThrottle), p.gains()), nil
	}
	r.controllers["pitch-hold"] = func(p ControllerParams) (dynamo.Controller, error) {
		if p.Surface == "" {
			return nil, fmt.Errorf("pitch-hold: %w: no surface", ErrMissingActuator)
		}
		hold := control.NewPitchHold(p.Surface, p.Target, p.limit(DefaultPitchLimit), p.gains())
		return withThrottle(hold, p), nil
	}

	r.metrics["control_effort"] = func(*config.Config, float64) dynamo.Metric { return metrics.NewControlEffort() }
	r.metrics["ballast_activity"] = func(*config.Config, float64) dynamo.Metric { return metrics.NewBallastActivity() }
	r.metrics["kinetic_energy"] = func(_ *config.Config, mass float64) dynamo.Metric { return metrics.NewKineticEnergy(mass) }
	r.metrics["terminal_speed"] = func(*config.Config, float64) dynamo.Metric { return metrics.NewTerminalSpeed() }
	r.metrics["depth_drift"] = func(*config.Config, float64) dynamo.Metric { return metrics.NewDepthDrift() }
	r.metrics["max_pitch"] = func(*config.Config, float64) dynamo.Metric { return metrics.NewMaxPitch() }
	r.metrics["depth_band"] = func(cfg *config.Config, _ float64) dynamo.Metric {
		return metrics.NewDepthBand(holdDepth(cfg), DefaultDepthBand)
	}

	return r
}

// withThrottle keeps a fixed cruise throttle under a ballast or surface
// autopilot.
func withThrottle(c dynamo.Controller, p ControllerParams) dynamo.Controller {
	if p.Throttle == 0 {
		return c
	}
	return control.Chain{control.NewConstant(p.Throttle, nil), c}
}

func (r *Registry) GetIntegrator(name string) (integrators.Integrator, error) {
	return integrators.ByName(name)
}

func (r *Registry) GetController(name string, params ControllerParams) (dynamo.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownController, name)
	}
	return fn(params)
}

func (r *Registry) GetMetric(name string, cfg *config.Config, mass float64) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, name)
	}
	return fn(cfg, mass), nil
}

func (r *Registry) ListControllers() []string {
	return sortedKeys(r.controllers)
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

func (r *Registry) ListIntegrators() []string {
	return integrators.Names()
}

// DefaultMetrics is one instance of every registered metric.
func (r *Registry) DefaultMetrics(cfg *config.Config, mass float64) []dynamo.Metric {
	names := r.ListMetrics()
	out := make([]dynamo.Metric, 0, len(names))
	for _, name := range names {
		out = append(out, r.metrics[name](cfg, mass))
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// holdDepth is the depth a run is judged against: the controller target for
// depth autopilots, the start depth otherwise.
func holdDepth(cfg *config.Config) float64 {
	switch cfg.Controller {
	case "depth-hold", "depth-lqr":
		return cfg.ControllerParams.Target
	}
	return cfg.InitState.Z
}
