package template

import "errors"

var (
	ErrNoFiles  = errors.New("no files provided")
	ErrNotFound = errors.New("template not found")
)
