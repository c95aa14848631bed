package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds = errors.New("index out of range")
	ErrNoLoader    = errors.New("no configuration loader")
	ErrUsage       = errors.New("usage")
)
