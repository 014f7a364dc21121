package integrators

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/subsim/internal/vec"
)

var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

// State is the kinematic state of a planar rigid body.
type State struct {
	Position        vec.XZ
	Velocity        vec.XZ
	Angle           float64
	AngularVelocity float64
}

func (s State) IsValid() bool {
	return s.Position.IsValid() && s.Velocity.IsValid() &&
		!math.IsNaN(s.Angle) && !math.IsInf(s.Angle, 0) &&
		!math.IsNaN(s.AngularVelocity) && !math.IsInf(s.AngularVelocity, 0)
}

// Rate is the second derivative of a State.
type Rate struct {
	Linear  vec.XZ
	Angular float64
}

// AccelFunc evaluates the accelerations acting on a body in state s at time t.
type AccelFunc func(s State, t float64) (Rate, error)

type Integrator interface {
	Name() string
	Step(accel AccelFunc, s State, t, dt float64) (State, error)
}

// derivative of s: (velocity, acceleration)
type slope struct {
	dp vec.XZ
	dv vec.XZ
	da float64
	dw float64
}

func (s State) advance(k slope, h float64) State {
	return State{
		Position:        s.Position.Add(k.dp.Scale(h)),
		Velocity:        s.Velocity.Add(k.dv.Scale(h)),
		Angle:           s.Angle + k.da*h,
		AngularVelocity: s.AngularVelocity + k.dw*h,
	}
}

func slopeAt(accel AccelFunc, s State, t float64) (slope, error) {
	r, err := accel(s, t)
	if err != nil {
		return slope{}, err
	}
	return slope{dp: s.Velocity, dv: r.Linear, da: s.AngularVelocity, dw: r.Angular}, nil
}

// ByName returns a fresh integrator for a config or CLI name.
func ByName(name string) (Integrator, error) {
	switch name {
	case "", "semi-implicit-euler", "symplectic-euler":
		return NewSemiImplicitEuler(), nil
	case "euler":
		return NewEuler(), nil
	case "rk4":
		return NewRK4(), nil
	case "verlet":
		return NewVerlet(), nil
	case "leapfrog":
		return NewLeapfrog(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntegrator, name)
	}
}

func Names() []string {
	return []string{"semi-implicit-euler", "euler", "rk4", "verlet", "leapfrog"}
}
