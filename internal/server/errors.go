package server

import "errors"

// Argument/Not-found errors (§7) raised by command handlers before
// any engine-level operation runs.
var (
	ErrBadArgument      = errors.New("server: invalid command argument")
	ErrNotFoundArgument = errors.New("server: argument does not resolve to an existing node")
)
