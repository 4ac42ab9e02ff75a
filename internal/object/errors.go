package object

import "errors"

// Failure modes from spec §4.1.
var (
	ErrNotFound        = errors.New("object: not found")
	ErrTypeMismatch    = errors.New("object: type mismatch")
	ErrAlreadyExists   = errors.New("object: already exists")
	ErrInvalidArgument = errors.New("object: invalid argument")
)
