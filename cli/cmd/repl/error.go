package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds     = errors.New("index out of range")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrUnknownSetting  = errors.New("unknown setting")
	ErrMissingArgument = errors.New("missing argument")
)
