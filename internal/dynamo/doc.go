// Package dynamo drives bodies through time.
//
// A [Simulator] owns one [Ticker] (normally a *body.Body) and an optional
// [Controller]. Each step it snapshots the body, asks the controller for an
// [Input], feeds metrics and observers, and ticks the body once:
//
//	b, _ := submarine.New(submarine.DefaultSpec(), body.Pose{})
//	sim := dynamo.New(b, control.NewConstant(2, nil))
//	result, err := sim.Run(ctx, dynamo.Config{Dt: 0.1, Duration: 60})
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. [Ensemble] runs several
// simulators in parallel, one goroutine per simulator; bodies are never
// shared between them.
package dynamo
