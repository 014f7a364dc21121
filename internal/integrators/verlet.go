package integrators

// Verlet is velocity Verlet. The second force evaluation sees the new
// position with the old velocity.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) Step(accel AccelFunc, s State, t, dt float64) (State, error) {
	r, err := accel(s, t)
	if err != nil {
		return s, err
	}
	dt2 := 0.5 * dt * dt

	moved := s
	moved.Position = s.Position.Add(s.Velocity.Scale(dt)).Add(r.Linear.Scale(dt2))
	moved.Angle = s.Angle + s.AngularVelocity*dt + r.Angular*dt2

	rNew, err := accel(moved, t+dt)
	if err != nil {
		return s, err
	}

	halfDt := 0.5 * dt
	moved.Velocity = s.Velocity.Add(r.Linear.Add(rNew.Linear).Scale(halfDt))
	moved.AngularVelocity = s.AngularVelocity + (r.Angular+rNew.Angular)*halfDt
	return moved, nil
}

// Leapfrog is kick-drift-kick.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Step(accel AccelFunc, s State, t, dt float64) (State, error) {
	r, err := accel(s, t)
	if err != nil {
		return s, err
	}
	halfDt := dt * 0.5

	mid := s
	mid.Velocity = s.Velocity.Add(r.Linear.Scale(halfDt))
	mid.AngularVelocity = s.AngularVelocity + r.Angular*halfDt
	mid.Position = s.Position.Add(mid.Velocity.Scale(dt))
	mid.Angle = s.Angle + mid.AngularVelocity*dt

	rNew, err := accel(mid, t+dt)
	if err != nil {
		return s, err
	}
	mid.Velocity = mid.Velocity.Add(rNew.Linear.Scale(halfDt))
	mid.AngularVelocity = mid.AngularVelocity + rNew.Angular*halfDt
	return mid, nil
}
