// Package physics provides the force laws acting on a submerged body and the
// producers that apply them.
//
// The free functions are pure force laws:
//
//   - [DragForce]: ½·ρ·Cd·A·|v|², opposing the velocity
//   - [BuoyantForce]: −ρ·V·g, the weight of displaced fluid
//   - [ThrustForce]: a propeller's push along its mount axis
//
// Every contributor a body owns implements [Producer] and is asked for a
// [Load] once per tick, given the body's current [Frame]:
//
//   - [Propeller]: thrust from the tick's throttle
//   - [Drag]: resistance of a drag-capable part (hull, fins)
//   - [Surface]: a drag part whose angle follows a commanded deflection
//   - [Ballast]: buoyancy of a tank blending air and water
//   - [Weight]: the body's own weight
//   - [Constant]: an externally injected force
//
// # Axes
//
// z grows downward, gravity is +z and depth is the z coordinate. The
// [Medium] holds the fluid properties shared by all producers.
package physics
