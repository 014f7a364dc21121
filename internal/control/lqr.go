package control

import (
	"math"

	"github.com/san-kum/subsim/internal/body"
	"github.com/san-kum/subsim/internal/dynamo"
)

// LQR is static state feedback u = Bias − K·(x − Target) over a set of
// measured features, clamped to [Min, Max] when Max > Min.
type LQR struct {
	K        []float64
	Target   []float64
	Features []Measure
	Bias     float64
	Min, Max float64
	Channel  Channel
}

func NewLQR(k, target []float64, features []Measure, ch Channel) *LQR {
	return &LQR{K: k, Target: target, Features: features, Channel: ch}
}

func (l *LQR) Compute(s body.Snapshot) dynamo.Input {
	u := l.Bias
	for j, f := range l.Features {
		if j >= len(l.K) {
			break
		}
		target := 0.0
		if j < len(l.Target) {
			target = l.Target[j]
		}
		u -= l.K[j] * (f(s) - target)
	}
	if l.Max > l.Min {
		u = math.Max(l.Min, math.Min(l.Max, u))
	}
	return l.Channel.Input(u)
}

func VerticalSpeed(s body.Snapshot) float64 { return s.Velocity.Z }

var depthGains = []float64{0.01, 0.4}

// NewDepthLQR holds depth through one tank using depth and vertical speed.
func NewDepthLQR(tank string, depth, neutral float64) *LQR {
	l := NewLQR(depthGains, []float64{depth, 0}, []Measure{Depth, VerticalSpeed}, Ballast(tank))
	l.Bias = neutral
	l.Min, l.Max = 0, 1
	return l
}
