package integrators

// SemiImplicitEuler updates velocity first and moves with the new velocity.
// It is the default body integrator.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Name() string { return "semi-implicit-euler" }

func (e *SemiImplicitEuler) Step(accel AccelFunc, s State, t, dt float64) (State, error) {
	r, err := accel(s, t)
	if err != nil {
		return s, err
	}
	next := s
	next.Velocity = s.Velocity.Add(r.Linear.Scale(dt))
	next.AngularVelocity = s.AngularVelocity + r.Angular*dt
	next.Position = s.Position.Add(next.Velocity.Scale(dt))
	next.Angle = s.Angle + next.AngularVelocity*dt
	return next, nil
}

// Euler is the explicit forward Euler method.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(accel AccelFunc, s State, t, dt float64) (State, error) {
	k, err := slopeAt(accel, s, t)
	if err != nil {
		return s, err
	}
	return s.advance(k, dt), nil
}
