package inference

import "errors"

var (
	ErrEmptyModel     = errors.New("inference: model has no layers")
	ErrLayerShape     = errors.New("inference: layer dimensions do not chain")
	ErrActivation     = errors.New("inference: unknown activation")
	ErrScalerShape    = errors.New("inference: scaler width does not match layer")
	ErrOutputKind     = errors.New("inference: unknown output kind")
	ErrNotEnoughData  = errors.New("inference: not enough samples to fit")
	ErrNonFiniteInput = errors.New("inference: non-finite feature")
)
