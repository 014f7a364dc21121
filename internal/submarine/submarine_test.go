package submarine

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/subsim/internal/body"
	"github.com/san-kum/subsim/internal/physics"
	"github.com/san-kum/subsim/internal/shape"
	"github.com/san-kum/subsim/internal/vec"
)

func TestDefaultSpec(t *testing.T) {
	spec := DefaultSpec()
	b, err := New(spec, body.Pose{Position: vec.XZ{Z: 150}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	wantMass := 100 * math.Pi * 2.5 * 2.5
	if math.Abs(b.Mass()-wantMass) > 1e-9 {
		t.Errorf("mass %v, want %v", b.Mass(), wantMass)
	}
	if b.Producers() != 3 {
		t.Errorf("producers = %d, want hull, tank and propeller", b.Producers())
	}
	if got := b.Tanks(); len(got) != 1 || got[0] != "main" {
		t.Errorf("tanks %v", got)
	}

	tank := shape.Cylinder(spec.Tanks[0].Length, spec.Tanks[0].Diameter)
	if math.Abs(tank.Volume()-DefaultTankVolume) > 1e-9 {
		t.Errorf("tank volume %v, want %v", tank.Volume(), DefaultTankVolume)
	}
}

func TestNewRejectsGeometry(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
	}{
		{"zero_length", func(s *Spec) { s.HullLength = 0 }},
		{"negative_diameter", func(s *Spec) { s.HullDiameter = -5 }},
		{"zero_density", func(s *Spec) { s.HullDensity = 0 }},
		{"nan_length", func(s *Spec) { s.HullLength = math.NaN() }},
		{"negative_drag", func(s *Spec) { s.HullDrag = -1 }},
		{"flat_tank", func(s *Spec) { s.Tanks[0].Diameter = 0 }},
		{"thin_surface", func(s *Spec) { s.Surfaces = []SurfaceSpec{{ID: "x", Chord: 1}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := DefaultSpec()
			tt.mutate(&spec)
			if _, err := New(spec, body.Pose{}); !errors.Is(err, shape.ErrInvalidGeometry) {
				t.Errorf("expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	spec := DefaultSpec()
	spec.Tanks[0].ID = "prop"
	if _, err := New(spec, body.Pose{}); !errors.Is(err, body.ErrDuplicateProducer) {
		t.Errorf("expected ErrDuplicateProducer, got %v", err)
	}
}

func TestThrustMovesForward(t *testing.T) {
	spec := DefaultSpec()
	spec.Tanks = nil
	b, err := New(spec, body.Pose{})
	if err != nil {
		t.Fatal(err)
	}

	pose, err := b.Tick(1, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if b.Velocity().X <= 0 || pose.Position.X <= 0 {
		t.Errorf("expected forward motion, got v=%v pose=%v", b.Velocity(), pose)
	}
}

func TestNeutralAirFraction(t *testing.T) {
	spec := DefaultSpec()
	m := physics.Seawater()

	air, err := NeutralAirFraction(spec, m, 150)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(air-0.8094) > 1e-3 {
		t.Errorf("air fraction %v, want about 0.809", air)
	}

	b, err := New(spec.Trimmed(air), body.Pose{Position: vec.XZ{Z: 150}}, body.WithMedium(m))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		if _, err := b.Tick(0.1, 0, nil); err != nil {
			t.Fatal(err)
		}
	}
	if math.Abs(b.Depth()-150) > 1e-6 {
		t.Errorf("trimmed body drifted to depth %v", b.Depth())
	}
}

func TestNeutralAirFractionImpossible(t *testing.T) {
	spec := DefaultSpec()
	spec.HullDensity = 100
	if _, err := NeutralAirFraction(spec, physics.Seawater(), 150); !errors.Is(err, ErrNoTrim) {
		t.Errorf("expected ErrNoTrim, got %v", err)
	}
	spec = DefaultSpec()
	spec.Tanks = nil
	if _, err := NeutralAirFraction(spec, physics.Seawater(), 150); !errors.Is(err, ErrNoTrim) {
		t.Errorf("expected ErrNoTrim without tanks, got %v", err)
	}
}

func TestTrimmedCopies(t *testing.T) {
	spec := DefaultSpec()
	spec.Surfaces = []SurfaceSpec{SternPlanes()}
	trimmed := spec.Trimmed(0.5)

	if spec.Tanks[0].AirFraction != 0 || spec.Weighted {
		t.Error("Trimmed mutated the original spec")
	}
	if trimmed.Tanks[0].AirFraction != 0.5 || !trimmed.Weighted {
		t.Errorf("trimmed spec %+v", trimmed)
	}
	trimmed.Surfaces[0].ID = "bow"
	if spec.Surfaces[0].ID != "stern" {
		t.Error("Trimmed shares the surfaces slice")
	}
}

func TestSternPlanesSteer(t *testing.T) {
	spec := DefaultSpec()
	spec.Tanks = nil
	spec.Surfaces = []SurfaceSpec{SternPlanes()}

	spin := func(deflection float64) float64 {
		b, err := New(spec, body.Pose{}, body.WithVelocity(vec.XZ{X: 2, Z: 0.5}))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := b.Tick(0.1, 0, map[string]float64{"stern": deflection}); err != nil {
			t.Fatal(err)
		}
		return b.AngularVelocity()
	}

	level, deflected := spin(0), spin(math.Pi/8)
	if level == 0 {
		t.Error("sinking past the stern planes produced no rotation")
	}
	if level == deflected {
		t.Error("deflection did not change the stern plane torque")
	}
}
