package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/subsim/internal/config"
	"github.com/san-kum/subsim/internal/experiment"
)

var ErrUnknownParam = errors.New("optim: unknown parameter")

// setters are the scenario overrides a grid may vary.
var setters = map[string]func(c *config.Config, v float64){
	"dt":       func(c *config.Config, v float64) { c.Dt = v },
	"duration": func(c *config.Config, v float64) { c.Duration = v },
	"throttle": func(c *config.Config, v float64) { c.Throttle = v },
	"kp":       func(c *config.Config, v float64) { c.ControllerParams.Kp = v },
	"ki":       func(c *config.Config, v float64) { c.ControllerParams.Ki = v },
	"kd":       func(c *config.Config, v float64) { c.ControllerParams.Kd = v },
	"target":   func(c *config.Config, v float64) { c.ControllerParams.Target = v },
	"limit":    func(c *config.Config, v float64) { c.ControllerParams.Limit = v },
	"depth":    func(c *config.Config, v float64) { c.InitState.Z = v },
	"speed":    func(c *config.Config, v float64) { c.InitState.VX = v },
	"current":  func(c *config.Config, v float64) { c.Medium.Current.X = v },

	"hull_density": func(c *config.Config, v float64) { c.Submarine.HullDensity = v },
	"hull_drag":    func(c *config.Config, v float64) { c.Submarine.HullDrag = v },
	// air sets every tank by hand, so it replaces automatic trim
	"air": func(c *config.Config, v float64) {
		c.Trim = false
		c.Submarine = c.Submarine.Trimmed(v)
	},
}

// getters read the current value of a parameter; air reports the first
// tank.
var getters = map[string]func(c *config.Config) float64{
	"dt":           func(c *config.Config) float64 { return c.Dt },
	"duration":     func(c *config.Config) float64 { return c.Duration },
	"throttle":     func(c *config.Config) float64 { return c.Throttle },
	"kp":           func(c *config.Config) float64 { return c.ControllerParams.Kp },
	"ki":           func(c *config.Config) float64 { return c.ControllerParams.Ki },
	"kd":           func(c *config.Config) float64 { return c.ControllerParams.Kd },
	"target":       func(c *config.Config) float64 { return c.ControllerParams.Target },
	"limit":        func(c *config.Config) float64 { return c.ControllerParams.Limit },
	"depth":        func(c *config.Config) float64 { return c.InitState.Z },
	"speed":        func(c *config.Config) float64 { return c.InitState.VX },
	"current":      func(c *config.Config) float64 { return c.Medium.Current.X },
	"hull_density": func(c *config.Config) float64 { return c.Submarine.HullDensity },
	"hull_drag":    func(c *config.Config) float64 { return c.Submarine.HullDrag },
	"air": func(c *config.Config) float64 {
		if len(c.Submarine.Tanks) == 0 {
			return 0
		}
		return c.Submarine.Tanks[0].AirFraction
	},
}

// Get reads one parameter from cfg.
func Get(cfg *config.Config, name string) (float64, error) {
	get, ok := getters[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return get(cfg), nil
}

// Apply returns a copy of base with the overrides set.
func Apply(base *config.Config, params map[string]float64) (*config.Config, error) {
	cfg := base.Clone()
	for name, v := range params {
		set, ok := setters[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
		set(cfg, v)
	}
	return cfg, nil
}

// Scenario builds grid points as overrides of base.
func Scenario(base *config.Config, reg *experiment.Registry, opts ...experiment.Option) BuildFunc {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg, err := Apply(base, params)
		if err != nil {
			return nil, err
		}
		e := experiment.New(cfg, opts...)
		if err := e.Setup(reg); err != nil {
			return nil, err
		}
		return e, nil
	}
}

// TrimSearch looks for the air fraction that keeps an unpowered boat at its
// start depth. Each round searches points values around the previous best.
func TrimSearch(ctx context.Context, base *config.Config, reg *experiment.Registry, points, rounds int) (float64, float64, error) {
	if points < 2 || rounds < 1 {
		return 0, 0, fmt.Errorf("%w: %d points, %d rounds", ErrInvalidGrid, points, rounds)
	}

	cfg := base.Clone()
	cfg.Controller = "none"
	cfg.Throttle = 0
	cfg.Deflections = nil

	lo, hi := 0.0, 1.0
	var air, drift float64
	for r := 0; r < rounds; r++ {
		g := NewGridSearch([]string{"air"}, [][]float64{Linspace(lo, hi, points)})
		best, v, err := g.Search(ctx, Scenario(cfg, reg), "depth_drift")
		if err != nil {
			return 0, 0, err
		}
		air, drift = best["air"], v

		step := (hi - lo) / float64(points-1)
		lo, hi = math.Max(0, air-step), math.Min(1, air+step)
	}
	return air, drift, nil
}
