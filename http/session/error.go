package session

import "errors"

var (
	ErrNotStarted    = errors.New("session not started")
	ErrNotValid      = errors.New("not valid")
	ErrUnknownDriver = errors.New("unknown session driver")
)
