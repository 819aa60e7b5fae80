package dataset

import "errors"

var (
	ErrBadHeader = errors.New("dataset: unexpected csv header")
	ErrBadRecord = errors.New("dataset: malformed record")
	ErrFormat    = errors.New("dataset: unknown file format")
)
