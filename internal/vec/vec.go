package vec

import (
	"fmt"
	"math"
)

// Vec is an ordered fixed-length tuple of components. The length is fixed at
// construction and every binary operation requires equal lengths.
type Vec []float64

// New copies the given components into a fresh vector.
func New(components ...float64) Vec {
	v := make(Vec, len(components))
	copy(v, components)
	return v
}

// Broadcast returns a vector of n components all equal to s.
func Broadcast(n int, s float64) Vec {
	v := make(Vec, n)
	for i := range v {
		v[i] = s
	}
	return v
}

func (v Vec) Len() int { return len(v) }

func (v Vec) Clone() Vec {
	c := make(Vec, len(v))
	copy(c, v)
	return c
}

func (v Vec) IsValid() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec) sameArity(other Vec) error {
	if len(v) != len(other) {
		return fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(v), len(other))
	}
	return nil
}

func (v Vec) Add(other Vec) (Vec, error) {
	if err := v.sameArity(other); err != nil {
		return nil, err
	}
	result := make(Vec, len(v))
	for i := range v {
		result[i] = v[i] + other[i]
	}
	return result, nil
}

func (v Vec) Sub(other Vec) (Vec, error) {
	if err := v.sameArity(other); err != nil {
		return nil, err
	}
	result := make(Vec, len(v))
	for i := range v {
		result[i] = v[i] - other[i]
	}
	return result, nil
}

// AddScalar broadcasts s to every component.
func (v Vec) AddScalar(s float64) Vec {
	result := make(Vec, len(v))
	for i := range v {
		result[i] = v[i] + s
	}
	return result
}

func (v Vec) Scale(factor float64) Vec {
	result := make(Vec, len(v))
	for i := range v {
		result[i] = v[i] * factor
	}
	return result
}

func (v Vec) Div(divisor float64) (Vec, error) {
	if divisor == 0 {
		return nil, ErrZeroDivisor
	}
	return v.Scale(1 / divisor), nil
}

func (v Vec) Neg() Vec {
	return v.Scale(-1)
}

func (v Vec) Dot(other Vec) (float64, error) {
	if err := v.sameArity(other); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range v {
		sum += v[i] * other[i]
	}
	return sum, nil
}

// MagnitudeSquared is the dot product of v with itself.
func (v Vec) MagnitudeSquared() float64 {
	sum := 0.0
	for _, c := range v {
		sum += c * c
	}
	return sum
}

func (v Vec) Magnitude() float64 {
	return math.Sqrt(v.MagnitudeSquared())
}

// Direction returns the unit vector of v.
func (v Vec) Direction() (Vec, error) {
	m := v.Magnitude()
	if m == 0 {
		return nil, ErrDegenerateVector
	}
	return v.Scale(1 / m), nil
}

// Accumulate adds other into v in place. It is the only mutating operation.
func (v Vec) Accumulate(other Vec) error {
	if err := v.sameArity(other); err != nil {
		return err
	}
	for i := range v {
		v[i] += other[i]
	}
	return nil
}

// Equal reports whether every component differs by at most tol.
func (v Vec) Equal(other Vec, tol float64) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if math.Abs(v[i]-other[i]) > tol {
			return false
		}
	}
	return true
}

func (v Vec) String() string {
	return fmt.Sprintf("Vec%v", []float64(v))
}
