// Package sim drives a vehicle and its traction controller at a fixed physics
// step, decoupled from wall-clock frame timing.
//
// Each outer iteration of [Loop.Run] measures the wall-clock time since the
// previous iteration and adds it to an accumulator. Whole physics steps are
// drained from the accumulator, each one running the controller and then the
// vehicle integration exactly once. The remainder carries over. One render
// pass follows, then a fixed sleep throttles the loop.
//
// The accumulator is a [time.Duration], so the number of physics steps after
// any sequence of frames is exactly floor(total / step).
package sim
