package modify

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Triplet is one (type_code, field_name, value_blob) entry of a modify
// request.
type Triplet struct {
	TypeCode TypeCode `validate:"required"`
	Field    string   `validate:"required,max=256"`
	Value    []byte
}

// Request is the full parsed modify command (§4.6 "Input").
type Request struct {
	Key      string `validate:"required"`
	Flags    Flags
	Triplets []Triplet `validate:"dive"`
}

// validateRequest checks the parsed triplet list's shape before
// dispatch, per DESIGN.md's ambient-stack validator wiring.
func validateRequest(r *Request) error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("modify: invalid request: %w", err)
	}
	return nil
}
