package bundle

import "errors"

var (
	ErrNotValid      = errors.New("not valid")
	ErrUnknownBundle = errors.New("unknown bundle")
)
