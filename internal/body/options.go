package body

import (
	"go.uber.org/zap"

	"github.com/san-kum/subsim/internal/integrators"
	"github.com/san-kum/subsim/internal/physics"
	"github.com/san-kum/subsim/internal/vec"
)

// DefaultAngularDamping resists rotation in proportion to angular velocity.
const DefaultAngularDamping = 0.05

type Option func(*Body)

func WithLogger(log *zap.Logger) Option {
	return func(b *Body) {
		if log != nil {
			b.log = log
		}
	}
}

func WithIntegrator(integ integrators.Integrator) Option {
	return func(b *Body) {
		if integ != nil {
			b.integrator = integ
		}
	}
}

func WithMedium(m physics.Medium) Option {
	return func(b *Body) { b.medium = m }
}

func WithAngularDamping(c float64) Option {
	return func(b *Body) { b.angularDamping = c }
}

func WithVelocity(v vec.XZ) Option {
	return func(b *Body) { b.state.Velocity = v }
}

func WithAngularVelocity(w float64) Option {
	return func(b *Body) { b.state.AngularVelocity = w }
}

// WithInertia fixes the rotational inertia instead of deriving it from the
// hull. It survives SetHullDensity and Reshape.
func WithInertia(inertia float64) Option {
	return func(b *Body) { b.fixedInertia = inertia }
}
