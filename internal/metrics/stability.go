package metrics

import (
	"math"

	"github.com/san-kum/subsim/internal/body"
	"github.com/san-kum/subsim/internal/dynamo"
)

// DepthBand is the fraction of samples within ±band of a target depth.
type DepthBand struct {
	name    string
	target  float64
	band    float64
	inside  int
	samples int
}

func NewDepthBand(target, band float64) *DepthBand {
	return &DepthBand{
		name:   "depth_band",
		target: target,
		band:   band,
	}
}

func (d *DepthBand) Name() string {
	return d.name
}

func (d *DepthBand) Observe(s body.Snapshot, in dynamo.Input) {
	d.samples++
	if math.Abs(s.Pose.Position.Z-d.target) <= d.band {
		d.inside++
	}
}

func (d *DepthBand) Value() float64 {
	if d.samples == 0 {
		return 1.0
	}
	return float64(d.inside) / float64(d.samples)
}

func (d *DepthBand) Reset() {
	d.inside = 0
	d.samples = 0
}

// MaxPitch is the largest absolute body angle seen.
type MaxPitch struct {
	max float64
}

func NewMaxPitch() *MaxPitch { return &MaxPitch{} }

func (m *MaxPitch) Name() string { return "max_pitch" }

func (m *MaxPitch) Observe(s body.Snapshot, in dynamo.Input) {
	m.max = math.Max(m.max, math.Abs(s.Pose.Orientation.Y))
}

func (m *MaxPitch) Value() float64 { return m.max }

func (m *MaxPitch) Reset() { m.max = 0 }
