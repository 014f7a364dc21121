// Package submarine assembles a body from a declarative Spec: a cylindrical
// hull, ballast tanks, one propeller and optional control surfaces.
package submarine

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/subsim/internal/body"
	"github.com/san-kum/subsim/internal/physics"
	"github.com/san-kum/subsim/internal/shape"
	"github.com/san-kum/subsim/internal/vec"
)

// ErrNoTrim is returned when no single air fraction can neutralise the hull.
var ErrNoTrim = errors.New("submarine: no neutral air fraction in [0, 1]")

type TankSpec struct {
	ID          string  `yaml:"id" toml:"id"`
	Length      float64 `yaml:"length" toml:"length"`
	Diameter    float64 `yaml:"diameter" toml:"diameter"`
	Offset      vec.XZ  `yaml:"offset" toml:"offset"`
	AirFraction float64 `yaml:"air_fraction" toml:"air_fraction"`
}

type PropellerSpec struct {
	ID         string  `yaml:"id" toml:"id"`
	Offset     vec.XZ  `yaml:"offset" toml:"offset"`
	MountAngle float64 `yaml:"mount_angle" toml:"mount_angle"`
}

type SurfaceSpec struct {
	ID          string  `yaml:"id" toml:"id"`
	Chord       float64 `yaml:"chord" toml:"chord"`
	Span        float64 `yaml:"span" toml:"span"`
	Offset      vec.XZ  `yaml:"offset" toml:"offset"`
	Angle       float64 `yaml:"angle" toml:"angle"`
	Limit       float64 `yaml:"limit" toml:"limit"`
	Coefficient float64 `yaml:"coefficient" toml:"coefficient"`
}

type Spec struct {
	HullLength   float64 `yaml:"hull_length" toml:"hull_length"`
	HullDiameter float64 `yaml:"hull_diameter" toml:"hull_diameter"`
	// HullDensity sets the hull mass; tanks are massless.
	HullDensity float64 `yaml:"hull_density" toml:"hull_density"`
	HullDrag    float64 `yaml:"hull_drag" toml:"hull_drag"`
	HullMinArea float64 `yaml:"hull_min_area" toml:"hull_min_area"`

	Tanks     []TankSpec    `yaml:"tanks" toml:"tanks"`
	Propeller PropellerSpec `yaml:"propeller" toml:"propeller"`
	Surfaces  []SurfaceSpec `yaml:"surfaces" toml:"surfaces"`

	// Weighted attaches the hull's own weight as a producer.
	Weighted bool `yaml:"weighted" toml:"weighted"`
}

const (
	DefaultTankVolume = 10.0
	DefaultTankDiam   = 2.0
)

func DefaultTank() TankSpec {
	r := DefaultTankDiam / 2
	return TankSpec{
		ID:       "main",
		Length:   DefaultTankVolume / (math.Pi * r * r),
		Diameter: DefaultTankDiam,
	}
}

// DefaultSpec is a 100 x 5 hull of density 1 with one flooded 10-unit tank
// and a stern propeller.
func DefaultSpec() Spec {
	return Spec{
		HullLength:   100,
		HullDiameter: 5,
		HullDensity:  1,
		HullDrag:     physics.DefaultDragCoefficient,
		Tanks:        []TankSpec{DefaultTank()},
		Propeller: PropellerSpec{
			ID:         "prop",
			Offset:     vec.XZ{X: -50},
			MountAngle: math.Pi,
		},
	}
}

// SternPlanes is a horizontal control surface pair at the tail.
func SternPlanes() SurfaceSpec {
	return SurfaceSpec{
		ID:          "stern",
		Chord:       3,
		Span:        6,
		Offset:      vec.XZ{X: -45},
		Limit:       math.Pi / 6,
		Coefficient: 1.2,
	}
}

func positive(name string, v float64) error {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s = %v", shape.ErrInvalidGeometry, name, v)
	}
	return nil
}

func (s Spec) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"hull_length", s.HullLength},
		{"hull_diameter", s.HullDiameter},
		{"hull_density", s.HullDensity},
	}
	for _, c := range checks {
		if err := positive(c.name, c.v); err != nil {
			return err
		}
	}
	if s.HullDrag < 0 || s.HullMinArea < 0 {
		return fmt.Errorf("%w: negative hull drag", shape.ErrInvalidGeometry)
	}
	for _, t := range s.Tanks {
		if err := positive("tank "+t.ID+" length", t.Length); err != nil {
			return err
		}
		if err := positive("tank "+t.ID+" diameter", t.Diameter); err != nil {
			return err
		}
	}
	for _, sf := range s.Surfaces {
		if err := positive("surface "+sf.ID+" chord", sf.Chord); err != nil {
			return err
		}
		if err := positive("surface "+sf.ID+" span", sf.Span); err != nil {
			return err
		}
	}
	return nil
}

func (s Spec) Hull() shape.Shape {
	return shape.Cylinder(s.HullLength, s.HullDiameter)
}

// New builds a body from spec at pose. Options are passed through to
// body.New.
func New(spec Spec, pose body.Pose, opts ...body.Option) (*body.Body, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	b, err := body.New(spec.Hull(), spec.HullDensity, pose, opts...)
	if err != nil {
		return nil, err
	}

	hull, err := physics.NewDrag("hull", shape.At(spec.Hull(), vec.XZ{}, 0), shape.Drag{
		Coefficient: spec.HullDrag,
		MinArea:     spec.HullMinArea,
	})
	if err != nil {
		return nil, err
	}
	producers := []physics.Producer{hull}

	if spec.Weighted {
		producers = append(producers, physics.Weight{})
	}
	for _, t := range spec.Tanks {
		tank, err := physics.NewBallast(t.ID, shape.At(shape.Cylinder(t.Length, t.Diameter), t.Offset, 0),
			shape.Buoyancy{AirFraction: t.AirFraction})
		if err != nil {
			return nil, err
		}
		producers = append(producers, tank)
	}
	if spec.Propeller.ID != "" {
		p := spec.Propeller
		producers = append(producers, physics.NewPropeller(p.ID, p.Offset, p.MountAngle))
	}
	for _, sf := range spec.Surfaces {
		surface, err := physics.NewSurface(sf.ID, shape.At(shape.Plate(sf.Chord, sf.Span), sf.Offset, sf.Angle),
			shape.Drag{Coefficient: sf.Coefficient}, sf.Limit)
		if err != nil {
			return nil, err
		}
		producers = append(producers, surface)
	}

	for _, p := range producers {
		if err := b.Attach(p); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// NeutralAirFraction is the air fraction that, applied to every tank, makes
// buoyancy cancel hull weight for a level body at depth.
func NeutralAirFraction(spec Spec, m physics.Medium, depth float64) (float64, error) {
	if err := spec.Validate(); err != nil {
		return 0, err
	}
	mass := spec.Hull().Volume() * spec.HullDensity

	var water, span float64
	for _, t := range spec.Tanks {
		v := shape.Cylinder(t.Length, t.Diameter).Volume()
		w := m.WaterDensity(depth + t.Offset.Z)
		water += w * v
		span += (w - m.AirDensity) * v
	}
	if span == 0 {
		return 0, fmt.Errorf("%w: no tank volume", ErrNoTrim)
	}
	air := (water - mass) / span
	if air < 0 || air > 1 || math.IsNaN(air) {
		return 0, fmt.Errorf("%w: need %.4f", ErrNoTrim, air)
	}
	return air, nil
}

// Trimmed returns a copy of spec with every tank set to air and the hull
// weight attached.
func (s Spec) Trimmed(air float64) Spec {
	out := s.Clone()
	out.Weighted = true
	for i := range out.Tanks {
		out.Tanks[i].AirFraction = air
	}
	return out
}

// Clone returns a copy of s that shares no slices with it.
func (s Spec) Clone() Spec {
	out := s
	out.Tanks = slices.Clone(s.Tanks)
	out.Surfaces = slices.Clone(s.Surfaces)
	return out
}
