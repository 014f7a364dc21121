// Package analysis inspects recorded time series from simulation runs.
//
//   - [Converged]: whether the tail of a series has settled
//   - [SettlingTime]: when a series last entered a tolerance band
//   - [Overshoot]: how far a series passed its target
//   - [DominantPeriod]: oscillation period from the power spectrum
//   - [NewPhasePortrait]: depth against vertical speed, for example
//
// # Terminal Velocity
//
// A body under constant thrust with drag attached settles at the speed where
// thrust equals drag:
//
//	speeds := result.Series(dynamo.Speed)
//	if analysis.Converged(speeds, 50, 1e-6) {
//	    // terminal velocity reached
//	}
package analysis
