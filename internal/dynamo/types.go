package dynamo

import (
	"github.com/san-kum/subsim/internal/body"
)

// Ticker is the part of a body the simulator drives.
type Ticker interface {
	// Advance applies the ballast commands and ticks; a failure leaves the
	// body unchanged.
	Advance(dt, throttle float64, controls, ballast map[string]float64) (body.Pose, error)
	Snapshot() body.Snapshot
	Mass() float64
}

// Input is one step's control input. Ballast holds commanded air fractions
// by tank id; they take effect with the tick.
type Input struct {
	Throttle    float64
	Deflections map[string]float64
	Ballast     map[string]float64
}

type Controller interface {
	Compute(s body.Snapshot) Input
}

type Metric interface {
	Name() string
	Observe(s body.Snapshot, in Input)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s body.Snapshot, in Input)
}

type Config struct {
	Dt       float64
	Duration float64
	// Record keeps every Record-th snapshot; zero or one keeps all.
	Record int
	// StopAtSurface ends the run early once depth reaches SurfaceDepth.
	StopAtSurface bool
	SurfaceDepth  float64
}

func DefaultConfig() Config {
	return Config{
		Dt:       0.02,
		Duration: 60.0,
		Record:   1,
	}
}

type Result struct {
	Snapshots  []body.Snapshot
	Inputs     []Input
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	// Surfaced is set when StopAtSurface ended the run.
	Surfaced bool
}

// Final is the last recorded snapshot.
func (r *Result) Final() body.Snapshot {
	if len(r.Snapshots) == 0 {
		return body.Snapshot{}
	}
	return r.Snapshots[len(r.Snapshots)-1]
}

// Series extracts one value per recorded snapshot.
func (r *Result) Series(f func(body.Snapshot) float64) []float64 {
	out := make([]float64, len(r.Snapshots))
	for i, s := range r.Snapshots {
		out[i] = f(s)
	}
	return out
}

func Depth(s body.Snapshot) float64    { return s.Pose.Position.Z }
func Distance(s body.Snapshot) float64 { return s.Pose.Position.X }
func Speed(s body.Snapshot) float64    { return s.Velocity.Magnitude() }
func Pitch(s body.Snapshot) float64    { return s.Pose.Orientation.Y }
