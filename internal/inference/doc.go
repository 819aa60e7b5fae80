// Package inference runs small feed-forward networks as traction control
// backends.
//
// A model file is JSON: a stack of dense layers (weights stored row-major as
// [out][in]), an activation per layer, and optional min/max scalers for the
// inputs and the targets, mirroring a MinMaxScaler fitted at training time.
// [MLP] implements control.Backend.
package inference
