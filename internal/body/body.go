package body

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/san-kum/subsim/internal/integrators"
	"github.com/san-kum/subsim/internal/physics"
	"github.com/san-kum/subsim/internal/shape"
	"github.com/san-kum/subsim/internal/vec"
)

// Pose is the position and orientation of a body at an instant.
type Pose struct {
	Position    vec.XZ
	Orientation vec.Angle
}

// ProducerLoad is one producer's contribution to the last committed tick.
type ProducerLoad struct {
	Name string
	physics.Load
}

// Snapshot is a copy of the body's observable state.
type Snapshot struct {
	Time            float64
	Step            int
	Pose            Pose
	Velocity        vec.XZ
	AngularVelocity float64
	Throttle        float64
	Deflections     map[string]float64
	Force           vec.XZ
	Torque          float64
}

type Body struct {
	hull        shape.Shape
	hullDensity float64

	mass         float64
	inertia      float64
	fixedInertia float64

	state    integrators.State
	throttle float64

	producers   []physics.Producer
	byName      map[string]physics.Producer
	deflections map[string]float64
	lastLoads   []ProducerLoad
	net         physics.Load

	medium         physics.Medium
	integrator     integrators.Integrator
	angularDamping float64

	elapsed float64
	steps   int

	log *zap.Logger
}

// New builds a body from its hull shape and hull density, resting at pose.
func New(hull shape.Shape, density float64, pose Pose, opts ...Option) (*Body, error) {
	if err := hull.Validate(); err != nil {
		return nil, fmt.Errorf("hull: %w", err)
	}
	if !pose.Position.IsValid() || !finite(pose.Orientation.Y) {
		return nil, fmt.Errorf("%w: pose %v", ErrInvalidInput, pose)
	}

	b := &Body{
		hull:           hull,
		hullDensity:    density,
		state:          integrators.State{Position: pose.Position, Angle: pose.Orientation.Y},
		byName:         make(map[string]physics.Producer),
		deflections:    make(map[string]float64),
		medium:         physics.Seawater(),
		integrator:     integrators.NewSemiImplicitEuler(),
		angularDamping: DefaultAngularDamping,
		log:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if err := b.medium.Validate(); err != nil {
		return nil, err
	}
	if !b.state.IsValid() {
		return nil, fmt.Errorf("%w: initial velocity", ErrInvalidInput)
	}
	if !finite(b.angularDamping) || b.angularDamping < 0 {
		return nil, fmt.Errorf("%w: angular damping %v", ErrInvalidInput, b.angularDamping)
	}
	mass, inertia, err := b.massProperties(hull, density)
	if err != nil {
		return nil, err
	}
	b.mass, b.inertia = mass, inertia

	b.log.Debug("body constructed",
		zap.String("hull", hull.Kind.String()),
		zap.Float64("mass", mass),
		zap.Float64("inertia", inertia),
		zap.String("integrator", b.integrator.Name()),
	)
	return b, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (b *Body) massProperties(hull shape.Shape, density float64) (float64, float64, error) {
	if !finite(density) || density <= 0 {
		return 0, 0, fmt.Errorf("%w: hull density %v", ErrInvalidMass, density)
	}
	mass := hull.Volume() * density
	if !finite(mass) || mass <= 0 {
		return 0, 0, fmt.Errorf("%w: mass %v", ErrInvalidMass, mass)
	}

	inertia := b.fixedInertia
	if inertia == 0 {
		// slender rod about its centre
		l := characteristicLength(hull)
		inertia = mass * l * l / 12
	}
	if !finite(inertia) || inertia <= 0 {
		return 0, 0, fmt.Errorf("%w: inertia %v", ErrInvalidMass, inertia)
	}
	return mass, inertia, nil
}

func characteristicLength(s shape.Shape) float64 {
	switch s.Kind {
	case shape.KindCircle:
		return s.Diameter
	case shape.KindGroup:
		l := 0.0
		for _, c := range s.Children {
			l = math.Max(l, 2*c.Offset.Magnitude()+characteristicLength(c.Shape))
		}
		return l
	default:
		return s.Length
	}
}

// Attach appends a producer. Names must be unique within the body.
func (b *Body) Attach(p physics.Producer) error {
	name := p.Name()
	if _, ok := b.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateProducer, name)
	}
	b.producers = append(b.producers, p)
	b.byName[name] = p
	if s, ok := p.(physics.Steerable); ok {
		if _, ok := b.deflections[s.SurfaceID()]; !ok {
			b.deflections[s.SurfaceID()] = 0
		}
	}
	b.log.Debug("producer attached", zap.String("name", name), zap.String("type", fmt.Sprintf("%T", p)))
	return nil
}

// Detach removes the named producer and reports whether it was attached.
func (b *Body) Detach(name string) bool {
	p, ok := b.byName[name]
	if !ok {
		return false
	}
	delete(b.byName, name)
	for i, q := range b.producers {
		if q.Name() == name {
			b.producers = append(b.producers[:i], b.producers[i+1:]...)
			break
		}
	}
	if s, ok := p.(physics.Steerable); ok {
		delete(b.deflections, s.SurfaceID())
	}
	return true
}

// Inject applies an external force at a body-local offset on every tick
// until removed with Detach. Injecting under an existing constant's name
// replaces its force.
func (b *Body) Inject(name string, force, offset vec.XZ) error {
	if !force.IsValid() || !offset.IsValid() {
		return fmt.Errorf("%w: injected force %v at %v", ErrInvalidInput, force, offset)
	}
	if p, ok := b.byName[name]; ok {
		c, ok := p.(*physics.Constant)
		if !ok {
			return fmt.Errorf("%w: %q", ErrDuplicateProducer, name)
		}
		c.Force, c.Offset = force, offset
		return nil
	}
	return b.Attach(&physics.Constant{ID: name, Force: force, Offset: offset})
}

// Trim sets a ballast tank's air fraction between ticks.
func (b *Body) Trim(tank string, airFraction float64) error {
	t, err := b.tank(tank)
	if err != nil {
		return err
	}
	return t.SetAirFraction(airFraction)
}

// AirFraction reports a ballast tank's current air fraction.
func (b *Body) AirFraction(tank string) (float64, error) {
	t, err := b.tank(tank)
	if err != nil {
		return 0, err
	}
	return t.AirFraction(), nil
}

func (b *Body) tank(name string) (physics.Trimmable, error) {
	p, ok := b.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTank, name)
	}
	t, ok := p.(physics.Trimmable)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not trimmable", ErrUnknownTank, name)
	}
	return t, nil
}

// Advance sets the commanded tank air fractions and ticks. If any fraction
// is rejected or the tick fails, every tank keeps its previous fraction.
func (b *Body) Advance(dt, throttle float64, controls, ballast map[string]float64) (Pose, error) {
	if len(ballast) == 0 {
		return b.Tick(dt, throttle, controls)
	}

	tanks := make(map[string]physics.Trimmable, len(ballast))
	prev := make(map[string]float64, len(ballast))
	for id, air := range ballast {
		t, err := b.tank(id)
		if err != nil {
			return b.Pose(), err
		}
		if err := (shape.Buoyancy{AirFraction: air}).Validate(); err != nil {
			return b.Pose(), fmt.Errorf("ballast %s: %w", id, err)
		}
		tanks[id], prev[id] = t, t.AirFraction()
	}

	restore := func() {
		for id, t := range tanks {
			_ = t.SetAirFraction(prev[id])
		}
	}
	for id, t := range tanks {
		if err := t.SetAirFraction(ballast[id]); err != nil {
			restore()
			return b.Pose(), err
		}
	}

	pose, err := b.Tick(dt, throttle, controls)
	if err != nil {
		restore()
	}
	return pose, err
}

// Tanks lists the trimmable producers' names in attach order.
func (b *Body) Tanks() []string {
	var names []string
	for _, p := range b.producers {
		if _, ok := p.(physics.Trimmable); ok {
			names = append(names, p.Name())
		}
	}
	return names
}

// Surfaces lists the control surface ids, sorted.
func (b *Body) Surfaces() []string {
	ids := make([]string, 0, len(b.deflections))
	for id := range b.deflections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (b *Body) SetHullDensity(density float64) error {
	mass, inertia, err := b.massProperties(b.hull, density)
	if err != nil {
		return err
	}
	b.hullDensity, b.mass, b.inertia = density, mass, inertia
	return nil
}

// Reshape swaps the hull shape and recomputes mass and inertia.
func (b *Body) Reshape(hull shape.Shape) error {
	if err := hull.Validate(); err != nil {
		return fmt.Errorf("hull: %w", err)
	}
	mass, inertia, err := b.massProperties(hull, b.hullDensity)
	if err != nil {
		return err
	}
	b.hull, b.mass, b.inertia = hull, mass, inertia
	return nil
}

// Tick advances the body by dt seconds under the given throttle and surface
// deflections. Surfaces missing from controls keep their previous
// deflection. On error the body is unchanged.
func (b *Body) Tick(dt, throttle float64, controls map[string]float64) (Pose, error) {
	if !finite(dt) || dt <= 0 {
		return b.Pose(), fmt.Errorf("%w: dt = %v", ErrInvalidStep, dt)
	}
	if !finite(throttle) {
		return b.Pose(), fmt.Errorf("%w: throttle = %v", ErrInvalidInput, throttle)
	}
	deflections, err := b.mergeControls(controls)
	if err != nil {
		return b.Pose(), err
	}
	if b.mass <= 0 || b.inertia <= 0 {
		return b.Pose(), fmt.Errorf("%w: mass %v, inertia %v", ErrInvalidMass, b.mass, b.inertia)
	}

	start := b.state
	loads, net, err := b.collect(b.frame(start, throttle, deflections))
	if err != nil {
		b.log.Warn("tick failed", zap.Int("step", b.steps), zap.Error(err))
		return b.Pose(), err
	}

	accel := func(s integrators.State, t float64) (integrators.Rate, error) {
		l := net
		if s != start {
			var err error
			if _, l, err = b.collect(b.frame(s, throttle, deflections)); err != nil {
				return integrators.Rate{}, err
			}
		}
		return b.rate(l, s), nil
	}

	next, err := b.integrator.Step(accel, start, b.elapsed, dt)
	if err != nil {
		b.log.Warn("tick failed", zap.Int("step", b.steps), zap.Error(err))
		return b.Pose(), err
	}
	if !next.IsValid() {
		b.log.Warn("state diverged", zap.Int("step", b.steps), zap.Float64("time", b.elapsed))
		return b.Pose(), fmt.Errorf("%w at step %d", ErrUnstable, b.steps)
	}

	b.state = next
	b.throttle = throttle
	b.deflections = deflections
	b.lastLoads = loads
	b.net = net
	b.elapsed += dt
	b.steps++
	return b.Pose(), nil
}

func (b *Body) mergeControls(controls map[string]float64) (map[string]float64, error) {
	merged := make(map[string]float64, len(b.deflections))
	for id, angle := range b.deflections {
		merged[id] = angle
	}
	for id, angle := range controls {
		if _, ok := merged[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSurface, id)
		}
		if !finite(angle) {
			return nil, fmt.Errorf("%w: deflection %q = %v", ErrInvalidInput, id, angle)
		}
		merged[id] = angle
	}
	return merged, nil
}

func (b *Body) frame(s integrators.State, throttle float64, deflections map[string]float64) physics.Frame {
	return physics.Frame{
		Position:        s.Position,
		Orientation:     s.Angle,
		Velocity:        s.Velocity,
		AngularVelocity: s.AngularVelocity,
		Mass:            b.mass,
		Throttle:        throttle,
		Deflections:     deflections,
		Medium:          b.medium,
	}
}

func (b *Body) collect(f physics.Frame) ([]ProducerLoad, physics.Load, error) {
	loads := make([]ProducerLoad, 0, len(b.producers))
	var net physics.Load
	for _, p := range b.producers {
		l, err := p.Load(f)
		if err != nil {
			return nil, physics.Load{}, fmt.Errorf("producer %s: %w", p.Name(), err)
		}
		loads = append(loads, ProducerLoad{Name: p.Name(), Load: l})
		net = net.Add(l)
	}
	return loads, net, nil
}

func (b *Body) rate(l physics.Load, s integrators.State) integrators.Rate {
	return integrators.Rate{
		Linear:  l.Force.Scale(1 / b.mass),
		Angular: (l.Torque - b.angularDamping*s.AngularVelocity) / b.inertia,
	}
}

func (b *Body) Pose() Pose {
	return Pose{Position: b.state.Position, Orientation: vec.Angle{Y: b.state.Angle}}
}

func (b *Body) Velocity() vec.XZ         { return b.state.Velocity }
func (b *Body) AngularVelocity() float64 { return b.state.AngularVelocity }
func (b *Body) Mass() float64            { return b.mass }
func (b *Body) Inertia() float64         { return b.inertia }
func (b *Body) HullDensity() float64     { return b.hullDensity }
func (b *Body) Hull() shape.Shape        { return b.hull }
func (b *Body) Medium() physics.Medium   { return b.medium }
func (b *Body) Elapsed() float64         { return b.elapsed }
func (b *Body) Steps() int               { return b.steps }
func (b *Body) Integrator() string       { return b.integrator.Name() }
func (b *Body) Producers() int           { return len(b.producers) }

// Depth is the z coordinate of the body origin; z grows downward.
func (b *Body) Depth() float64 { return b.state.Position.Z }

// Volume folds the hull and every displacing part.
func (b *Body) Volume() float64 {
	total := b.hull.Volume()
	for _, p := range b.producers {
		if d, ok := p.(physics.Displacer); ok {
			total += d.Volume()
		}
	}
	return total
}

// ProjectedArea sums the area every resistant part presents to the current
// relative flow.
func (b *Body) ProjectedArea() float64 {
	f := b.frame(b.state, b.throttle, b.deflections)
	total := 0.0
	for _, p := range b.producers {
		if r, ok := p.(physics.Resistant); ok {
			total += r.Area(f)
		}
	}
	return total
}

// Loads returns a copy of the per-producer loads from the last tick.
func (b *Body) Loads() []ProducerLoad {
	out := make([]ProducerLoad, len(b.lastLoads))
	copy(out, b.lastLoads)
	return out
}

func (b *Body) Snapshot() Snapshot {
	d := make(map[string]float64, len(b.deflections))
	for id, a := range b.deflections {
		d[id] = a
	}
	return Snapshot{
		Time:            b.elapsed,
		Step:            b.steps,
		Pose:            b.Pose(),
		Velocity:        b.state.Velocity,
		AngularVelocity: b.state.AngularVelocity,
		Throttle:        b.throttle,
		Deflections:     d,
		Force:           b.net.Force,
		Torque:          b.net.Torque,
	}
}
