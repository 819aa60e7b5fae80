package control

import "errors"

var (
	ErrUnknownKind        = errors.New("control: unknown controller kind")
	ErrBackendUnavailable = errors.New("control: inference backend unavailable")
	ErrNoLoader           = errors.New("control: learned controller needs a model loader")
	ErrOutputShape        = errors.New("control: unexpected model output shape")
)
