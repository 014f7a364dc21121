package vec

import (
	"fmt"
	"math"
)

// XZ is a planar vector for position, force, velocity and acceleration.
type XZ struct {
	X float64 `yaml:"x" toml:"x" json:"x"`
	Z float64 `yaml:"z" toml:"z" json:"z"`
}

// FromXZ converts a 2-component Vec.
func FromXZ(v Vec) (XZ, error) {
	if len(v) != 2 {
		return XZ{}, fmt.Errorf("%w: want 2 components, got %d", ErrDimensionMismatch, len(v))
	}
	return XZ{X: v[0], Z: v[1]}, nil
}

func (p XZ) Vec() Vec { return Vec{p.X, p.Z} }

func (p XZ) Add(other XZ) XZ {
	return XZ{X: p.X + other.X, Z: p.Z + other.Z}
}

func (p XZ) Sub(other XZ) XZ {
	return XZ{X: p.X - other.X, Z: p.Z - other.Z}
}

func (p XZ) Scale(factor float64) XZ {
	return XZ{X: p.X * factor, Z: p.Z * factor}
}

func (p XZ) Neg() XZ {
	return XZ{X: -p.X, Z: -p.Z}
}

func (p XZ) Dot(other XZ) float64 {
	return p.X*other.X + p.Z*other.Z
}

// Cross is the y component of the 3D cross product of p and other lifted
// into the xz plane. Positive values rotate x toward z.
func (p XZ) Cross(other XZ) float64 {
	return p.X*other.Z - p.Z*other.X
}

func (p XZ) MagnitudeSquared() float64 {
	return p.X*p.X + p.Z*p.Z
}

func (p XZ) Magnitude() float64 {
	return math.Sqrt(p.MagnitudeSquared())
}

func (p XZ) Direction() (XZ, error) {
	m := p.Magnitude()
	if m == 0 {
		return XZ{}, ErrDegenerateVector
	}
	return p.Scale(1 / m), nil
}

// Rotate rotates p by angle radians about the y axis.
func (p XZ) Rotate(angle float64) XZ {
	sin, cos := math.Sincos(angle)
	return XZ{
		X: p.X*cos - p.Z*sin,
		Z: p.X*sin + p.Z*cos,
	}
}

// Heading is the angle of p measured from +x toward +z.
func (p XZ) Heading() float64 {
	return math.Atan2(p.Z, p.X)
}

func (p XZ) IsZero() bool { return p.X == 0 && p.Z == 0 }

func (p XZ) IsValid() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

func (p XZ) String() string {
	return fmt.Sprintf("XZ(%.4f, %.4f)", p.X, p.Z)
}

// Extent is a 1-component linear extent such as a line length.
type Extent struct {
	X float64
}

func FromExtent(v Vec) (Extent, error) {
	if len(v) != 1 {
		return Extent{}, fmt.Errorf("%w: want 1 component, got %d", ErrDimensionMismatch, len(v))
	}
	return Extent{X: v[0]}, nil
}

func (e Extent) Vec() Vec { return Vec{e.X} }

// Angle is a 1-component rotation about the y axis, in radians.
type Angle struct {
	Y float64
}

func FromAngle(v Vec) (Angle, error) {
	if len(v) != 1 {
		return Angle{}, fmt.Errorf("%w: want 1 component, got %d", ErrDimensionMismatch, len(v))
	}
	return Angle{Y: v[0]}, nil
}

func (a Angle) Vec() Vec { return Vec{a.Y} }

func (a Angle) Add(other Angle) Angle { return Angle{Y: a.Y + other.Y} }

func (a Angle) Neg() Angle { return Angle{Y: -a.Y} }

// Normalized wraps the angle into (-π, π].
func (a Angle) Normalized() Angle {
	y := math.Mod(a.Y, 2*math.Pi)
	if y <= -math.Pi {
		y += 2 * math.Pi
	} else if y > math.Pi {
		y -= 2 * math.Pi
	}
	return Angle{Y: y}
}
