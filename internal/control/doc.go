// Package control provides traction controllers that modulate per-wheel
// brake and drive torque to track a target slip ratio.
//
// Controllers implement [Controller] and act on any [Plant]; a
// *vehicle.Vehicle is the usual plant:
//
//   - [Ramp]: analytic ramp law, the torque rate is proportional to slip error
//   - [Learned]: model-based variant backed by an inference [Backend], falling
//     back to the ramp law when the backend is unavailable or fails
//   - [None]: leaves torques untouched
//
// # Usage
//
//	ctrl := control.NewRamp(control.DefaultConfig())
//	for {
//	    ctrl.Update(veh, 0.01) // once per physics sub-step, before veh.Update
//	    veh.Update(0.01)
//	}
//
// [Build] selects a controller by name from a [Config].
package control
