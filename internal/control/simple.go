package control

import (
	"maps"
	"sync"

	"github.com/san-kum/subsim/internal/body"
	"github.com/san-kum/subsim/internal/dynamo"
)

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Compute(body.Snapshot) dynamo.Input {
	return dynamo.Input{}
}

// Constant applies the same throttle and deflections every step.
type Constant struct {
	Throttle    float64
	Deflections map[string]float64
}

func NewConstant(throttle float64, deflections map[string]float64) *Constant {
	return &Constant{Throttle: throttle, Deflections: maps.Clone(deflections)}
}

func (c *Constant) Compute(body.Snapshot) dynamo.Input {
	return dynamo.Input{Throttle: c.Throttle, Deflections: maps.Clone(c.Deflections)}
}

// Chain sums throttles and merges maps; later controllers win on a
// shared surface or tank.
type Chain []dynamo.Controller

func (c Chain) Compute(s body.Snapshot) dynamo.Input {
	var out dynamo.Input
	for _, ctrl := range c {
		in := ctrl.Compute(s)
		out.Throttle += in.Throttle
		out.Deflections = merge(out.Deflections, in.Deflections)
		out.Ballast = merge(out.Ballast, in.Ballast)
	}
	return out
}

func (c Chain) Reset() {
	for _, ctrl := range c {
		if r, ok := ctrl.(interface{ Reset() }); ok {
			r.Reset()
		}
	}
}

func merge(dst, src map[string]float64) map[string]float64 {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]float64, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// Manual returns whatever input was last set on it. Setters may be called
// from another goroutine.
type Manual struct {
	mu sync.Mutex
	in dynamo.Input
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) SetThrottle(throttle float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.in.Throttle = throttle
}

// AdjustThrottle adds delta and returns the new throttle.
func (m *Manual) AdjustThrottle(delta float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.in.Throttle += delta
	return m.in.Throttle
}

func (m *Manual) SetDeflection(surface string, angle float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.in.Deflections = merge(m.in.Deflections, map[string]float64{surface: angle})
}

func (m *Manual) SetBallast(tank string, air float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.in.Ballast = merge(m.in.Ballast, map[string]float64{tank: air})
}

func (m *Manual) Compute(body.Snapshot) dynamo.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return dynamo.Input{
		Throttle:    m.in.Throttle,
		Deflections: maps.Clone(m.in.Deflections),
		Ballast:     maps.Clone(m.in.Ballast),
	}
}
