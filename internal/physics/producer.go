package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/subsim/internal/shape"
	"github.com/san-kum/subsim/internal/vec"
)

// Frame is the body state a producer sees during one tick.
type Frame struct {
	Position        vec.XZ
	Orientation     float64
	Velocity        vec.XZ
	AngularVelocity float64
	Mass            float64

	Throttle float64
	// Deflections holds the commanded angle of each control surface by id.
	Deflections map[string]float64

	Medium Medium
}

// ToWorld maps a body-local offset to a world position.
func (f Frame) ToWorld(offset vec.XZ) vec.XZ {
	return f.Position.Add(offset.Rotate(f.Orientation))
}

// RelativeVelocity is the body velocity relative to the fluid current.
func (f Frame) RelativeVelocity() vec.XZ {
	return f.Velocity.Sub(f.Medium.Current)
}

// Load is a producer's contribution for one tick. Torque is about the body
// origin, positive rotating x toward z.
type Load struct {
	Force  vec.XZ
	Torque float64
}

func (l Load) Add(other Load) Load {
	return Load{Force: l.Force.Add(other.Force), Torque: l.Torque + other.Torque}
}

// Producer is anything attached to a body that yields a force each tick.
type Producer interface {
	Name() string
	Load(f Frame) (Load, error)
}

// Resistant producers expose the projected area they present to the flow.
type Resistant interface {
	Producer
	Area(f Frame) float64
}

// Displacer producers own a volume that counts toward the body's extent.
type Displacer interface {
	Producer
	Volume() float64
}

// Steerable producers accept a deflection through Frame.Deflections.
type Steerable interface {
	Producer
	SurfaceID() string
}

// Trimmable producers can vent or flood between ticks.
type Trimmable interface {
	Producer
	AirFraction() float64
	SetAirFraction(fraction float64) error
}

func loadAt(f Frame, offset vec.XZ, force vec.XZ) Load {
	arm := offset.Rotate(f.Orientation)
	return Load{Force: force, Torque: arm.Cross(force)}
}

// Propeller converts the tick's throttle into thrust along its mount.
type Propeller struct {
	ID         string
	Offset     vec.XZ
	MountAngle float64
}

func NewPropeller(id string, offset vec.XZ, mountAngle float64) *Propeller {
	return &Propeller{ID: id, Offset: offset, MountAngle: mountAngle}
}

func (p *Propeller) Name() string { return p.ID }

func (p *Propeller) Load(f Frame) (Load, error) {
	force := ThrustForce(f.Orientation+p.MountAngle, f.Throttle)
	return loadAt(f, p.Offset, force), nil
}

// Drag applies flow resistance to a drag-capable part.
type Drag struct {
	ID         string
	Part       shape.Placed
	Capability shape.Drag
}

func NewDrag(id string, part shape.Placed, capability shape.Drag) (*Drag, error) {
	if err := part.Shape.Validate(); err != nil {
		return nil, fmt.Errorf("drag %s: %w", id, err)
	}
	if err := capability.Validate(); err != nil {
		return nil, fmt.Errorf("drag %s: %w", id, err)
	}
	return &Drag{ID: id, Part: part, Capability: capability}, nil
}

func (d *Drag) Name() string { return d.ID }

func (d *Drag) Area(f Frame) float64 {
	return d.areaWith(f, 0)
}

func (d *Drag) areaWith(f Frame, deflection float64) float64 {
	v := f.RelativeVelocity()
	if v.IsZero() {
		return d.Capability.MinArea
	}
	part := d.Part
	part.Angle += deflection
	return part.InFrame(vec.XZ{}, f.Orientation).ProjectedArea(ViewAngle(v))
}

func (d *Drag) Load(f Frame) (Load, error) {
	return d.loadWith(f, 0), nil
}

func (d *Drag) loadWith(f Frame, deflection float64) Load {
	force := DragForce(f.RelativeVelocity(), d.areaWith(f, deflection), f.Medium.Density, d.Capability.Coefficient)
	return loadAt(f, d.Part.Offset, force)
}

// Surface is a control surface: a drag part whose angle is offset by the
// deflection commanded under its id.
type Surface struct {
	Drag
	// Limit bounds the deflection magnitude; zero means unbounded.
	Limit float64
}

func NewSurface(id string, part shape.Placed, capability shape.Drag, limit float64) (*Surface, error) {
	d, err := NewDrag(id, part, capability)
	if err != nil {
		return nil, err
	}
	if limit < 0 || math.IsNaN(limit) {
		return nil, fmt.Errorf("surface %s: %w: deflection limit %v", id, shape.ErrInvalidGeometry, limit)
	}
	return &Surface{Drag: *d, Limit: limit}, nil
}

func (s *Surface) SurfaceID() string { return s.ID }

// Deflection returns the commanded deflection clamped to the limit.
func (s *Surface) Deflection(f Frame) float64 {
	d := f.Deflections[s.ID]
	if s.Limit > 0 {
		d = math.Max(-s.Limit, math.Min(s.Limit, d))
	}
	return d
}

func (s *Surface) Area(f Frame) float64 {
	return s.areaWith(f, s.Deflection(f))
}

func (s *Surface) Load(f Frame) (Load, error) {
	return s.loadWith(f, s.Deflection(f)), nil
}

// Ballast is a tank whose contents blend air and ambient water. Its density
// follows the water density at the tank's current depth.
type Ballast struct {
	ID         string
	Part       shape.Placed
	Capability shape.Buoyancy
}

func NewBallast(id string, part shape.Placed, capability shape.Buoyancy) (*Ballast, error) {
	if err := part.Shape.Validate(); err != nil {
		return nil, fmt.Errorf("ballast %s: %w", id, err)
	}
	if err := capability.Validate(); err != nil {
		return nil, fmt.Errorf("ballast %s: %w", id, err)
	}
	return &Ballast{ID: id, Part: part, Capability: capability}, nil
}

func (b *Ballast) Name() string { return b.ID }

func (b *Ballast) Volume() float64 { return b.Part.Volume() }

func (b *Ballast) AirFraction() float64 { return b.Capability.AirFraction }

// SetAirFraction vents (toward 1) or floods (toward 0) the tank.
func (b *Ballast) SetAirFraction(fraction float64) error {
	c := shape.Buoyancy{AirFraction: fraction}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("ballast %s: %w", b.ID, err)
	}
	b.Capability = c
	return nil
}

// Depth is the world z of the tank centre.
func (b *Ballast) Depth(f Frame) float64 {
	return f.ToWorld(b.Part.Offset).Z
}

func (b *Ballast) Density(f Frame) (float64, error) {
	water := f.Medium.WaterDensity(b.Depth(f))
	return BlendDensity(b.Capability.AirFraction, f.Medium.AirDensity, water)
}

func (b *Ballast) Load(f Frame) (Load, error) {
	rho, err := b.Density(f)
	if err != nil {
		return Load{}, fmt.Errorf("ballast %s: %w", b.ID, err)
	}
	force := BuoyantForce(b.Volume(), rho, f.Medium.Gravity)
	return loadAt(f, b.Part.Offset, force), nil
}

// Weight is the body's own weight acting at its origin.
type Weight struct{}

func (Weight) Name() string { return "weight" }

func (Weight) Load(f Frame) (Load, error) {
	return Load{Force: f.Medium.Gravity.Scale(f.Mass)}, nil
}

// Constant is an externally injected force applied at a body-local offset.
type Constant struct {
	ID     string
	Force  vec.XZ
	Offset vec.XZ
}

func (c *Constant) Name() string { return c.ID }

func (c *Constant) Load(f Frame) (Load, error) {
	return loadAt(f, c.Offset, c.Force), nil
}
