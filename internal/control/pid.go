package control

import (
	"math"

	"github.com/san-kum/subsim/internal/body"
	"github.com/san-kum/subsim/internal/dynamo"
)

type Gains struct {
	Kp float64 `yaml:"kp" toml:"kp"`
	Ki float64 `yaml:"ki" toml:"ki"`
	Kd float64 `yaml:"kd" toml:"kd"`
}

// Measure reads the controlled quantity from a snapshot.
type Measure func(body.Snapshot) float64

// PID drives one channel toward Target. The output is
// Bias + Sign·(Kp·e + Ki·∫e + Kd·de/dt), clamped to [Min, Max] when Max > Min.
type PID struct {
	Gains
	Target  float64
	Bias    float64
	Sign    float64
	Min     float64
	Max     float64
	Measure Measure
	Channel Channel

	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(gains Gains, target float64, measure Measure, ch Channel) *PID {
	return &PID{
		Gains:   gains,
		Target:  target,
		Sign:    1,
		Measure: measure,
		Channel: ch,
		first:   true,
	}
}

func Depth(s body.Snapshot) float64        { return s.Pose.Position.Z }
func ForwardSpeed(s body.Snapshot) float64 { return s.Velocity.X }
func Pitch(s body.Snapshot) float64        { return s.Pose.Orientation.Y }

// NewDepthHold vents or floods tank around the neutral air fraction to hold
// depth. Tank lift grows with the water it holds, so a boat deeper than
// target floods.
func NewDepthHold(tank string, depth, neutral float64, gains Gains) *PID {
	p := NewPID(gains, depth, Depth, Ballast(tank))
	p.Bias = neutral
	p.Min, p.Max = 0, 1
	return p
}

// NewSpeedHold drives the throttle to hold forward speed.
func NewSpeedHold(speed, maxThrottle float64, gains Gains) *PID {
	p := NewPID(gains, speed, ForwardSpeed, Throttle())
	p.Min, p.Max = 0, maxThrottle
	return p
}

// NewPitchHold deflects a surface to hold the body angle.
func NewPitchHold(surface string, pitch, limit float64, gains Gains) *PID {
	p := NewPID(gains, pitch, Pitch, Surface(surface))
	p.Min, p.Max = -limit, limit
	return p
}

func (p *PID) Compute(s body.Snapshot) dynamo.Input {
	err := p.Target - p.Measure(s)
	t := s.Time

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return p.Channel.Input(p.output(p.Kp * err))
	}

	dt := t - p.prevT
	if dt <= 0 {
		return p.Channel.Input(p.output(p.Kp*err + p.Ki*p.integral))
	}

	integral := p.integral + err*dt
	derivative := (err - p.prevErr) / dt
	raw := p.Bias + p.Sign*(p.Kp*err+p.Ki*integral+p.Kd*derivative)
	u := p.clamp(raw)
	// no integration while saturated
	if u == raw {
		p.integral = integral
	}

	p.prevErr = err
	p.prevT = t
	return p.Channel.Input(u)
}

func (p *PID) output(v float64) float64 {
	return p.clamp(p.Bias + p.Sign*v)
}

func (p *PID) clamp(u float64) float64 {
	if p.Max > p.Min {
		return math.Max(p.Min, math.Min(p.Max, u))
	}
	return u
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

