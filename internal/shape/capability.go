package shape

import (
	"fmt"
	"math"
)

// Drag makes a part resistant to flow.
type Drag struct {
	Coefficient float64
	// MinArea is reported when the part has no velocity relative to the fluid.
	MinArea float64
}

func (d Drag) Validate() error {
	if d.Coefficient < 0 || math.IsNaN(d.Coefficient) || math.IsInf(d.Coefficient, 0) {
		return fmt.Errorf("%w: drag coefficient %v", ErrInvalidGeometry, d.Coefficient)
	}
	if d.MinArea < 0 || math.IsNaN(d.MinArea) || math.IsInf(d.MinArea, 0) {
		return fmt.Errorf("%w: minimum area %v", ErrInvalidGeometry, d.MinArea)
	}
	return nil
}

// Buoyancy makes a part a ballast volume whose contents are a blend of air
// and ambient water.
type Buoyancy struct {
	AirFraction float64
}

func (b Buoyancy) Validate() error {
	if b.AirFraction < 0 || b.AirFraction > 1 || math.IsNaN(b.AirFraction) {
		return fmt.Errorf("%w: air fraction %v outside [0, 1]", ErrInvalidGeometry, b.AirFraction)
	}
	return nil
}
