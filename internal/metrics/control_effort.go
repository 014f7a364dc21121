package metrics

import (
	"math"

	"github.com/san-kum/subsim/internal/body"
	"github.com/san-kum/subsim/internal/dynamo"
)

// ControlEffort is the mean absolute throttle over a run.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(s body.Snapshot, in dynamo.Input) {
	c.sum += math.Abs(in.Throttle)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// BallastActivity is the total change in commanded air fraction, summed
// over tanks.
type BallastActivity struct {
	last  map[string]float64
	total float64
}

func NewBallastActivity() *BallastActivity {
	return &BallastActivity{last: make(map[string]float64)}
}

func (b *BallastActivity) Name() string { return "ballast_activity" }

func (b *BallastActivity) Observe(s body.Snapshot, in dynamo.Input) {
	for tank, air := range in.Ballast {
		if prev, ok := b.last[tank]; ok {
			b.total += math.Abs(air - prev)
		}
		b.last[tank] = air
	}
}

func (b *BallastActivity) Value() float64 { return b.total }

func (b *BallastActivity) Reset() {
	b.last = make(map[string]float64)
	b.total = 0
}
