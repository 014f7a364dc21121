package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/subsim/internal/vec"
)

// ViewAngle is the direction a flow with velocity v looks at a shape from,
// measured from the z axis. A line whose angle equals the view angle lies
// broadside to the flow.
func ViewAngle(v vec.XZ) float64 {
	return math.Atan2(v.X, v.Z)
}

// DragForce returns the resistance on a part moving at v through a fluid:
// magnitude ½·ρ·Cd·A·|v|², directed against v. A zero velocity yields the
// zero vector.
func DragForce(v vec.XZ, area, density, coefficient float64) vec.XZ {
	speed := v.Magnitude()
	if speed == 0 {
		return vec.XZ{}
	}
	magnitude := 0.5 * density * coefficient * area * speed * speed
	return v.Scale(-magnitude / speed)
}

// BuoyantForce is the weight of displaced fluid, −ρ·V·g. It points up when
// gravity points down.
func BuoyantForce(volume, density float64, gravity vec.XZ) vec.XZ {
	return gravity.Scale(-density * volume)
}

// BlendDensity mixes air and water linearly by air fraction.
func BlendDensity(airFraction, airDensity, waterDensity float64) (float64, error) {
	if airFraction < 0 || airFraction > 1 || math.IsNaN(airFraction) {
		return 0, fmt.Errorf("%w: %v", ErrAirFraction, airFraction)
	}
	return airFraction*airDensity + (1-airFraction)*waterDensity, nil
}

// ThrustForce converts a thrust magnitude and the combined body-plus-mount
// angle into a force. The propeller expels fluid along its mount axis, so
// the body is pushed the opposite way. Magnitude is not clamped.
func ThrustForce(angle, magnitude float64) vec.XZ {
	sin, cos := math.Sincos(angle)
	return vec.XZ{X: -magnitude * cos, Z: -magnitude * sin}
}
