package config

import (
	"sort"

	"github.com/san-kum/subsim/internal/physics"
	"github.com/san-kum/subsim/internal/submarine"
)

var Presets = map[string]*Config{
	// level run at cruising throttle on a neutrally trimmed boat
	"cruise": {
		Name: "cruise", Integrator: "semi-implicit-euler", Controller: "constant",
		Dt: 0.02, Duration: 120, Throttle: 2000, Trim: true,
		Submarine: submarine.DefaultSpec(),
		Medium:    physics.Seawater(),
		InitState: InitStateConfig{Z: 150},
	},
	// trimmed boat flooding down to the target depth under a depth hold
	"dive": {
		Name: "dive", Integrator: "semi-implicit-euler", Controller: "depth-hold",
		Dt: 0.02, Duration: 300, Trim: true,
		Submarine:        submarine.DefaultSpec(),
		Medium:           physics.Seawater(),
		InitState:        InitStateConfig{Z: 120},
		ControllerParams: ControllerConfig{Kp: DefaultKp, Ki: DefaultKi, Kd: DefaultKd, Target: 180, Tank: "main"},
	},
	// half-flooded tanks outweigh the hull and carry the boat up to the
	// surface line
	"surface": {
		Name: "surface", Integrator: "semi-implicit-euler", Controller: "constant",
		Dt: 0.02, Duration: 120, Throttle: 500, StopAtSurface: true,
		Submarine: blown(0.5),
		Medium:    physics.Seawater(),
		InitState: InitStateConfig{Z: 150},
	},
	// unpowered, coasting from speed
	"drift": {
		Name: "drift", Integrator: "rk4", Controller: "none",
		Dt: 0.02, Duration: 200, Trim: true,
		Submarine: submarine.DefaultSpec(),
		Medium:    physics.Seawater(),
		InitState: InitStateConfig{Z: 150, VX: 5},
	},
	"sprint": {
		Name: "sprint", Integrator: "semi-implicit-euler", Controller: "speed-hold",
		Dt: 0.02, Duration: 120, Trim: true,
		Submarine:        withSternPlanes(),
		Medium:           physics.Seawater(),
		InitState:        InitStateConfig{Z: 150},
		ControllerParams: ControllerConfig{Kp: 20000, Ki: 500, Target: 8, Limit: 100000},
	},
}

func withSternPlanes() submarine.Spec {
	s := submarine.DefaultSpec()
	s.Surfaces = append(s.Surfaces, submarine.SternPlanes())
	return s
}

func blown(air float64) submarine.Spec {
	return submarine.DefaultSpec().Trimmed(air)
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
