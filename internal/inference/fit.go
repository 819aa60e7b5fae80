package inference

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/tractionsim/internal/control"
)

// usedFeatures is the number of leading feature lanes that carry data; the
// rest are reserved padding and get zero weight.
const usedFeatures = 5

type Sample struct {
	Features control.Features
	Drive    float64
	Brake    float64
}

// FitLinear fits a single linear layer mapping features to (drive, brake) by
// ridge regression. lambda regularises the feature weights, not the bias.
func FitLinear(samples []Sample, lambda float64) (*Model, error) {
	cols := usedFeatures + 1
	if len(samples) < cols {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughData, len(samples), cols)
	}

	x := mat.NewDense(len(samples), cols, nil)
	y := mat.NewDense(len(samples), 2, nil)
	for i, s := range samples {
		x.Set(i, 0, 1)
		for j := 0; j < usedFeatures; j++ {
			x.Set(i, j+1, s.Features[j])
		}
		y.Set(i, 0, s.Drive)
		y.Set(i, 1, s.Brake)
	}

	var a mat.Dense
	a.Mul(x.T(), x)
	for j := 1; j < cols; j++ {
		a.Set(j, j, a.At(j, j)+lambda)
	}
	var b mat.Dense
	b.Mul(x.T(), y)

	var w mat.Dense
	if err := w.Solve(&a, &b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("solve: %w", err)
		}
	}

	layer := Layer{
		Weights:    make([][]float64, 2),
		Bias:       []float64{w.At(0, 0), w.At(0, 1)},
		Activation: ActivationLinear,
	}
	for out := 0; out < 2; out++ {
		row := make([]float64, control.FeatureCount)
		for j := 0; j < usedFeatures; j++ {
			row[j] = w.At(j+1, out)
		}
		layer.Weights[out] = row
	}

	return &Model{
		Name:   "linear-ridge",
		Output: OutputTensor,
		Layers: []Layer{layer},
	}, nil
}
