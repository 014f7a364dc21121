// Package body implements the rigid body at the centre of the simulation.
//
// A [Body] owns a hull shape, its kinematic state and an ordered list of
// [physics.Producer] values. Each call to [Body.Tick] builds a
// [physics.Frame] from the current state, sums every producer's load,
// integrates one step and commits the result. A failed tick leaves the body
// exactly as it was.
//
// Mass is the hull's extent measure times the hull density and changes only
// through [Body.SetHullDensity] or [Body.Reshape].
//
// A Body is not safe for concurrent use.
package body
