package modify

import "errors"

var (
	ErrUnknownTypeCode   = errors.New("modify: unknown type code")
	ErrFieldTypeMismatch = errors.New("modify: field type mismatch")
)
