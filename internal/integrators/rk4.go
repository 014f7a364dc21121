package integrators

type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(accel AccelFunc, s State, t, dt float64) (State, error) {
	k1, err := slopeAt(accel, s, t)
	if err != nil {
		return s, err
	}
	k2, err := slopeAt(accel, s.advance(k1, dt*0.5), t+dt*0.5)
	if err != nil {
		return s, err
	}
	k3, err := slopeAt(accel, s.advance(k2, dt*0.5), t+dt*0.5)
	if err != nil {
		return s, err
	}
	k4, err := slopeAt(accel, s.advance(k3, dt), t+dt)
	if err != nil {
		return s, err
	}

	dt6 := dt / 6.0
	sum := slope{
		dp: k1.dp.Add(k2.dp.Scale(2)).Add(k3.dp.Scale(2)).Add(k4.dp),
		dv: k1.dv.Add(k2.dv.Scale(2)).Add(k3.dv.Scale(2)).Add(k4.dv),
		da: k1.da + 2*k2.da + 2*k3.da + k4.da,
		dw: k1.dw + 2*k2.dw + 2*k3.dw + k4.dw,
	}
	return s.advance(sum, dt6), nil
}
