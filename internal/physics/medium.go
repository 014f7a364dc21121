package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/subsim/internal/vec"
)

const (
	DefaultGravity         = 9.8
	DefaultDragCoefficient = 0.15 // streamlined submarine hull in water
	DefaultSurfaceDepth    = 100.0

	AirDensity        = 1.225 // kg/m^3
	FreshwaterDensity = 1000.0
	SeawaterDensity   = 1025.0

	// SeawaterPressureGradient is the approximate change in water density
	// per unit of depth.
	SeawaterPressureGradient = 0.0046
)

var (
	ErrInvalidMedium = errors.New("physics: invalid medium")
	ErrAirFraction   = errors.New("physics: air fraction outside [0, 1]")
)

// Medium is the fluid a body moves through.
type Medium struct {
	// Density is the reference density used for drag.
	Density float64 `yaml:"density" toml:"density"`
	// SurfaceDensity is the water density at SurfaceDepth.
	SurfaceDensity   float64 `yaml:"surface_density" toml:"surface_density"`
	PressureGradient float64 `yaml:"pressure_gradient" toml:"pressure_gradient"`
	SurfaceDepth     float64 `yaml:"surface_depth" toml:"surface_depth"`
	AirDensity       float64 `yaml:"air_density" toml:"air_density"`
	Gravity          vec.XZ  `yaml:"gravity" toml:"gravity"`
	// Current is the fluid's own velocity; drag acts on velocity relative to it.
	Current vec.XZ `yaml:"current" toml:"current"`
}

func Seawater() Medium {
	return Medium{
		Density:          SeawaterDensity,
		SurfaceDensity:   SeawaterDensity,
		PressureGradient: SeawaterPressureGradient,
		SurfaceDepth:     DefaultSurfaceDepth,
		AirDensity:       AirDensity,
		Gravity:          vec.XZ{Z: DefaultGravity},
	}
}

func Freshwater() Medium {
	m := Seawater()
	m.Density = FreshwaterDensity
	m.SurfaceDensity = FreshwaterDensity
	return m
}

// WaterDensity is the ambient water density at the given depth.
func (m Medium) WaterDensity(depth float64) float64 {
	return m.SurfaceDensity + m.PressureGradient*(depth-m.SurfaceDepth)
}

func (m Medium) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"density", m.Density},
		{"surface_density", m.SurfaceDensity},
		{"air_density", m.AirDensity},
	}
	for _, f := range fields {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidMedium, f.name, f.v)
		}
	}
	if math.IsNaN(m.PressureGradient) || math.IsNaN(m.SurfaceDepth) {
		return fmt.Errorf("%w: NaN pressure profile", ErrInvalidMedium)
	}
	if !m.Gravity.IsValid() || !m.Current.IsValid() {
		return fmt.Errorf("%w: non-finite gravity or current", ErrInvalidMedium)
	}
	return nil
}
