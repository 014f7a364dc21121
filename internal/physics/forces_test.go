package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/subsim/internal/vec"
)

func TestDragForceOpposesVelocity(t *testing.T) {
	velocities := []vec.XZ{
		{X: 1},
		{X: -3, Z: 4},
		{Z: -0.2},
		{X: 1e-3, Z: 1e-3},
	}

	for _, v := range velocities {
		f := DragForce(v, 2.0, SeawaterDensity, 0.15)
		// antiparallel: cross is zero, dot is negative
		if math.Abs(f.Cross(v)) > 1e-9*f.Magnitude()*v.Magnitude()+1e-12 {
			t.Errorf("v=%v: force %v not parallel", v, f)
		}
		if f.Dot(v) >= 0 {
			t.Errorf("v=%v: force %v does not oppose motion", v, f)
		}
	}
}

func TestDragForceQuadraticInSpeed(t *testing.T) {
	v := vec.XZ{X: 1.5, Z: -0.5}
	f1 := DragForce(v, 3, 1000, 0.2).Magnitude()
	f2 := DragForce(v.Scale(2), 3, 1000, 0.2).Magnitude()

	if math.Abs(f2/f1-4) > 1e-9 {
		t.Errorf("doubling speed scaled drag by %v, want 4", f2/f1)
	}

	want := 0.5 * 1000 * 0.2 * 3 * v.MagnitudeSquared()
	if math.Abs(f1-want) > 1e-9 {
		t.Errorf("magnitude %v, want %v", f1, want)
	}
}

func TestDragForceZeroVelocity(t *testing.T) {
	if f := DragForce(vec.XZ{}, 10, 1000, 1); !f.IsZero() {
		t.Errorf("expected zero drag at rest, got %v", f)
	}
}

func TestBuoyantForce(t *testing.T) {
	g := vec.XZ{Z: DefaultGravity}
	f := BuoyantForce(10, 1000, g)

	if f.X != 0 {
		t.Errorf("unexpected horizontal component %v", f.X)
	}
	if want := -1000 * 10 * DefaultGravity; math.Abs(f.Z-want) > 1e-9 {
		t.Errorf("Z = %v, want %v (upward)", f.Z, want)
	}
}

func TestBlendDensity(t *testing.T) {
	water := 1030.0

	tests := []struct {
		name     string
		fraction float64
		expected float64
	}{
		{"all_air", 1, AirDensity},
		{"all_water", 0, water},
		{"half", 0.5, (AirDensity + water) / 2},
		{"quarter", 0.25, 0.25*AirDensity + 0.75*water},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BlendDensity(tt.fraction, AirDensity, water)
			if err != nil {
				t.Fatalf("BlendDensity: %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}

	for _, bad := range []float64{-0.1, 1.1, math.NaN()} {
		if _, err := BlendDensity(bad, AirDensity, water); !errors.Is(err, ErrAirFraction) {
			t.Errorf("fraction %v: expected ErrAirFraction, got %v", bad, err)
		}
	}
}

func TestWaterDensity(t *testing.T) {
	m := Seawater()
	if got := m.WaterDensity(m.SurfaceDepth); got != SeawaterDensity {
		t.Errorf("surface density %v, want %v", got, SeawaterDensity)
	}
	want := SeawaterDensity + SeawaterPressureGradient*50
	if got := m.WaterDensity(m.SurfaceDepth + 50); math.Abs(got-want) > 1e-9 {
		t.Errorf("density at +50 = %v, want %v", got, want)
	}
}

func TestThrustForce(t *testing.T) {
	tests := []struct {
		name     string
		angle    float64
		expected vec.XZ
	}{
		{"mount_aft", math.Pi, vec.XZ{X: 2}},
		{"mount_fore", 0, vec.XZ{X: -2}},
		{"mount_up", -math.Pi / 2, vec.XZ{Z: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ThrustForce(tt.angle, 2)
			if math.Abs(got.X-tt.expected.X) > 1e-12 || math.Abs(got.Z-tt.expected.Z) > 1e-12 {
				t.Errorf("ThrustForce(%v) = %v, want %v", tt.angle, got, tt.expected)
			}
		})
	}
}

func TestViewAngle(t *testing.T) {
	if got := ViewAngle(vec.XZ{X: 1}); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("horizontal flow view angle %v, want π/2", got)
	}
	if got := ViewAngle(vec.XZ{Z: 1}); got != 0 {
		t.Errorf("vertical flow view angle %v, want 0", got)
	}
}

func TestMediumValidate(t *testing.T) {
	if err := Seawater().Validate(); err != nil {
		t.Errorf("seawater: %v", err)
	}
	m := Freshwater()
	m.Density = -1
	if err := m.Validate(); !errors.Is(err, ErrInvalidMedium) {
		t.Errorf("expected ErrInvalidMedium, got %v", err)
	}
}
