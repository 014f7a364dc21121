package metrics

import (
	"github.com/san-kum/subsim/internal/body"
	"github.com/san-kum/subsim/internal/dynamo"
)

// KineticEnergy reports ½·m·|v|² of the last observed snapshot.
type KineticEnergy struct {
	name string
	mass float64
	last float64
}

func NewKineticEnergy(mass float64) *KineticEnergy {
	return &KineticEnergy{
		name: "kinetic_energy",
		mass: mass,
	}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(s body.Snapshot, in dynamo.Input) {
	e.last = 0.5 * e.mass * s.Velocity.MagnitudeSquared()
}

func (e *KineticEnergy) Value() float64 { return e.last }

func (e *KineticEnergy) Reset() { e.last = 0 }

// TerminalSpeed reports the speed of the last observed snapshot.
type TerminalSpeed struct {
	last float64
}

func NewTerminalSpeed() *TerminalSpeed { return &TerminalSpeed{} }

func (t *TerminalSpeed) Name() string { return "terminal_speed" }

func (t *TerminalSpeed) Observe(s body.Snapshot, in dynamo.Input) {
	t.last = s.Velocity.Magnitude()
}

func (t *TerminalSpeed) Value() float64 { return t.last }

func (t *TerminalSpeed) Reset() { t.last = 0 }

// DepthDrift is the absolute change in depth between the first and last
// observed snapshots. The trim search minimises it.
type DepthDrift struct {
	first, last float64
	samples     int
}

func NewDepthDrift() *DepthDrift { return &DepthDrift{} }

func (d *DepthDrift) Name() string { return "depth_drift" }

func (d *DepthDrift) Observe(s body.Snapshot, in dynamo.Input) {
	z := s.Pose.Position.Z
	if d.samples == 0 {
		d.first = z
	}
	d.last = z
	d.samples++
}

func (d *DepthDrift) Value() float64 {
	if d.last > d.first {
		return d.last - d.first
	}
	return d.first - d.last
}

func (d *DepthDrift) Reset() {
	d.first, d.last = 0, 0
	d.samples = 0
}
