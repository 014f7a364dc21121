package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/subsim/internal/shape"
	"github.com/san-kum/subsim/internal/vec"
)

func frame() Frame {
	return Frame{
		Position: vec.XZ{X: 0, Z: 150},
		Mass:     100,
		Medium:   Seawater(),
	}
}

func TestPropellerLoad(t *testing.T) {
	p := NewPropeller("prop", vec.XZ{X: -50}, math.Pi)
	f := frame()
	f.Throttle = 2

	l, err := p.Load(f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if math.Abs(l.Force.X-2) > 1e-12 || math.Abs(l.Force.Z) > 1e-12 {
		t.Errorf("force %v, want (2, 0)", l.Force)
	}
	// thrust along the axis through the origin produces no torque
	if math.Abs(l.Torque) > 1e-9 {
		t.Errorf("torque %v, want 0", l.Torque)
	}

	f.Orientation = math.Pi / 2
	l, _ = p.Load(f)
	if math.Abs(l.Force.Z-2) > 1e-12 {
		t.Errorf("rotated force %v, want (0, 2)", l.Force)
	}
}

func TestDragLoadAndArea(t *testing.T) {
	hull := shape.At(shape.Cylinder(100, 5), vec.XZ{}, 0)
	d, err := NewDrag("hull", hull, shape.Drag{Coefficient: DefaultDragCoefficient, MinArea: 1})
	if err != nil {
		t.Fatalf("NewDrag: %v", err)
	}

	f := frame()
	if got := d.Area(f); got != 1 {
		t.Errorf("area at rest = %v, want MinArea", got)
	}
	if l, _ := d.Load(f); !l.Force.IsZero() {
		t.Errorf("drag at rest = %v", l.Force)
	}

	f.Velocity = vec.XZ{X: 2}
	// moving along the axis: only the cap faces the flow
	if got := d.Area(f); math.Abs(got-5*math.Pi) > 1e-6 {
		t.Errorf("axial area = %v, want %v", got, 5*math.Pi)
	}
	l, _ := d.Load(f)
	if l.Force.X >= 0 {
		t.Errorf("drag %v should oppose +x motion", l.Force)
	}

	f.Velocity = vec.XZ{Z: 2}
	if got := d.Area(f); math.Abs(got-500) > 1e-6 {
		t.Errorf("broadside area = %v, want 500", got)
	}
}

func TestDragUsesCurrent(t *testing.T) {
	d, _ := NewDrag("hull", shape.At(shape.Cylinder(10, 1), vec.XZ{}, 0), shape.Drag{Coefficient: 1})
	f := frame()
	f.Velocity = vec.XZ{X: 1}
	f.Medium.Current = vec.XZ{X: 1}

	if l, _ := d.Load(f); !l.Force.IsZero() {
		t.Errorf("drifting with current should give zero drag, got %v", l.Force)
	}
}

func TestSurfaceDeflection(t *testing.T) {
	s, err := NewSurface("stern", shape.At(shape.Plate(2, 3), vec.XZ{X: -40}, 0), shape.Drag{Coefficient: 1.2}, math.Pi/4)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	f := frame()
	f.Velocity = vec.XZ{X: 3}

	// level plate edge-on to horizontal flow
	if got := s.Area(f); got > 1e-6 {
		t.Errorf("undeflected area %v, want 0", got)
	}

	f.Deflections = map[string]float64{"stern": math.Pi / 2}
	if got := s.Deflection(f); got != math.Pi/4 {
		t.Errorf("deflection %v, want clamp to π/4", got)
	}
	want := 6 * math.Sin(math.Pi/4)
	if got := s.Area(f); math.Abs(got-want) > 1e-6 {
		t.Errorf("deflected area %v, want %v", got, want)
	}

	l, _ := s.Load(f)
	if l.Force.X >= 0 {
		t.Errorf("surface drag %v should oppose motion", l.Force)
	}
	// drag on an aft surface pushes the tail back along the axis: no torque
	if math.Abs(l.Torque) > 1e-9 {
		t.Errorf("torque %v, want 0 for axial drag at axial offset", l.Torque)
	}
}

func TestSurfaceTorqueFromVerticalMotion(t *testing.T) {
	s, _ := NewSurface("stern", shape.At(shape.Plate(2, 3), vec.XZ{X: -40}, 0), shape.Drag{Coefficient: 1}, 0)
	f := frame()
	f.Velocity = vec.XZ{Z: 1}

	l, _ := s.Load(f)
	if l.Force.Z >= 0 {
		t.Fatalf("expected upward drag, got %v", l.Force)
	}
	// arm (-40, 0) x force (0, -F) = 40F > 0
	if l.Torque <= 0 {
		t.Errorf("expected positive torque, got %v", l.Torque)
	}
}

func TestBallastLoad(t *testing.T) {
	tank := shape.At(shape.Cylinder(4, 2), vec.XZ{}, 0)
	m := Seawater()
	f := frame()

	tests := []struct {
		name     string
		fraction float64
		density  float64
	}{
		{"vented", 1, m.AirDensity},
		{"flooded", 0, m.WaterDensity(150)},
		{"half", 0.5, 0.5*m.AirDensity + 0.5*m.WaterDensity(150)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBallast("main", tank, shape.Buoyancy{AirFraction: tt.fraction})
			if err != nil {
				t.Fatalf("NewBallast: %v", err)
			}
			l, err := b.Load(f)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			want := tt.density * b.Volume() * DefaultGravity
			if math.Abs(-l.Force.Z-want) > 1e-6 {
				t.Errorf("buoyancy %v, want %v upward", l.Force.Z, want)
			}
		})
	}
}

func TestBallastDepthFollowsOrientation(t *testing.T) {
	b, _ := NewBallast("bow", shape.At(shape.Cylinder(1, 1), vec.XZ{X: 10}, 0), shape.Buoyancy{})
	f := frame()
	f.Orientation = math.Pi / 2

	if got := b.Depth(f); math.Abs(got-160) > 1e-9 {
		t.Errorf("depth %v, want 160", got)
	}
}

func TestBallastSetAirFraction(t *testing.T) {
	b, _ := NewBallast("main", shape.At(shape.Cylinder(1, 1), vec.XZ{}, 0), shape.Buoyancy{AirFraction: 0.3})
	if err := b.SetAirFraction(0.9); err != nil {
		t.Fatalf("SetAirFraction: %v", err)
	}
	if b.AirFraction() != 0.9 {
		t.Errorf("air fraction %v", b.AirFraction())
	}
	if err := b.SetAirFraction(2); !errors.Is(err, shape.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
	if b.AirFraction() != 0.9 {
		t.Errorf("rejected update changed air fraction to %v", b.AirFraction())
	}
}

func TestWeightAndConstant(t *testing.T) {
	f := frame()
	l, _ := Weight{}.Load(f)
	if math.Abs(l.Force.Z-100*DefaultGravity) > 1e-9 {
		t.Errorf("weight %v", l.Force)
	}

	c := &Constant{ID: "tow", Force: vec.XZ{X: 5}, Offset: vec.XZ{Z: 1}}
	l, _ = c.Load(f)
	if l.Force.X != 5 {
		t.Errorf("constant force %v", l.Force)
	}
	// arm (0, 1) x (5, 0) = -5
	if math.Abs(l.Torque+5) > 1e-12 {
		t.Errorf("constant torque %v, want -5", l.Torque)
	}
}

func TestNewDragRejectsInvalid(t *testing.T) {
	if _, err := NewDrag("bad", shape.At(shape.Line(-1), vec.XZ{}, 0), shape.Drag{}); !errors.Is(err, shape.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
	if _, err := NewBallast("bad", shape.At(shape.Line(1), vec.XZ{}, 0), shape.Buoyancy{AirFraction: -1}); !errors.Is(err, shape.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}
