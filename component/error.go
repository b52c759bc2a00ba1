package component

import "errors"

var (
	// ErrComponentNotFound signals no strategy could locate a component.
	// Callers holding their own fallbacks try those next.
	ErrComponentNotFound = errors.New("component not found")
	ErrNotValid          = errors.New("not valid")
)
