package control

import "fmt"

// FeatureCount is the width of the per-wheel feature vector fed to a Backend.
const FeatureCount = 8

// Features is laid out as [slip, angularVelocity, linearSpeed, brakeTorque,
// driveTorque, 0, 0, 0]. The last three lanes are reserved.
type Features [FeatureCount]float64

func NewFeatures(slip, angularVelocity, linearSpeed, brakeTorque, driveTorque float64) Features {
	return Features{slip, angularVelocity, linearSpeed, brakeTorque, driveTorque, 0, 0, 0}
}

// Output is what a Backend returns for one wheel: either a Pair or a Tensor.
type Output interface {
	isOutput()
}

// Pair is a (drive, brake) prediction.
type Pair struct {
	Drive float64
	Brake float64
}

// Tensor is a tensor-like prediction. Its last dimension holds the lanes:
// lane 0 is drive torque, lane 1 is brake torque.
type Tensor struct {
	Shape []int
	Data  []float64
}

func (Pair) isOutput()   {}
func (Tensor) isOutput() {}

// Torques extracts (drive, brake) from the first row of the tensor.
func (t Tensor) Torques() (drive, brake float64, err error) {
	lanes := len(t.Data)
	if len(t.Shape) > 0 {
		lanes = t.Shape[len(t.Shape)-1]
	}
	if lanes < 2 || len(t.Data) < 2 {
		return 0, 0, fmt.Errorf("%w: shape %v with %d values", ErrOutputShape, t.Shape, len(t.Data))
	}
	return t.Data[0], t.Data[1], nil
}

// Backend runs inference for a single wheel. Calls are synchronous.
type Backend interface {
	Predict(f Features) (Output, error)
}

// Loader produces a Backend. It is called at most once per Learned controller.
type Loader func() (Backend, error)
