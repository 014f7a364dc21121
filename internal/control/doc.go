// Package control provides autopilots that implement [dynamo.Controller].
//
//   - [None]: zero input
//   - [Constant]: fixed throttle, deflections and ballast
//   - [PID]: single-channel PID on any measured quantity
//   - [LQR]: static state feedback
//   - [Chain]: merges several controllers
//   - [Manual]: input set from outside, for the live HUD
//
// # Usage
//
//	hold := control.NewDepthHold("main", 150, 0.81, control.Gains{Kp: 0.02, Kd: 0.5})
//	sim := dynamo.New(b, control.Chain{control.NewConstant(2, nil), hold})
//
// PID and LQR keep per-run state; call Reset between runs.
package control
