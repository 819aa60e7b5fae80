// Package vehicle models the longitudinal dynamics of a single vehicle body
// riding on a fixed set of wheels.
//
// Each physics step runs two friction passes in a fixed order:
//
//  1. Body pass - every wheel's slip against the current body speed produces a
//     signed friction force; the sum accelerates the body.
//
//  2. Wheel pass - every wheel's slip is re-evaluated against the updated body
//     speed to get the reaction torque on the wheel, which is then combined
//     with the commanded drive and brake torque.
//
// Swapping the passes changes the coupling stiffness between body and wheels,
// so they are kept as separate evaluations.
//
// A [Vehicle] is not safe for concurrent use. Renderers and recorders read a
// [Snapshot], which is a copy.
package vehicle
