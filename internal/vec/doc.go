// Package vec provides the numeric vector types used by the simulation core.
//
// Two families are provided:
//
//   - [Vec]: a runtime-sized tuple of float64 components. Binary operations
//     check arity and fail with [ErrDimensionMismatch].
//   - fixed-arity views: [XZ] for planar position, force and velocity,
//     [Extent] for a 1-component linear extent and [Angle] for a 1-component
//     rotation about the y axis. Views cannot mismatch and are what the
//     physics packages use on the hot path.
//
// # Axes
//
// The simulation plane is x (horizontal) by z (vertical). z grows downward,
// so a larger z means a deeper position and gravity is +z.
//
// All values are immutable except through [Vec.Accumulate].
package vec
