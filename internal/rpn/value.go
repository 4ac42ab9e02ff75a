// Package rpn implements the postfix expression language used by
// filter clauses and field-selection expressions (§4.5, C6).
package rpn

import "graphdb/internal/ids"

// Kind identifies the runtime type of a Value on the evaluation stack.
type Kind uint8

const (
	KNil Kind = iota
	KDouble
	KLong
	KString
	KSet
)

// Value is a tagged stack value: double, long, string, set, or nil.
type Value struct {
	Kind Kind
	D    float64
	L    int64
	S    string
	Set  *ids.Set
}

func Nil() Value              { return Value{Kind: KNil} }
func Double(v float64) Value  { return Value{Kind: KDouble, D: v} }
func Long(v int64) Value      { return Value{Kind: KLong, L: v} }
func Str(v string) Value      { return Value{Kind: KString, S: v} }
func SetVal(v *ids.Set) Value { return Value{Kind: KSet, Set: v} }

// Truthy implements the coercion-to-bool rule used by eval_bool and the
// short-circuit-eager boolean combinators: nil, zero numbers and empty
// strings/sets are false, everything else is true.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KNil:
		return false
	case KDouble:
		return v.D != 0
	case KLong:
		return v.L != 0
	case KString:
		return v.S != ""
	case KSet:
		return v.Set != nil && v.Set.Len() > 0
	default:
		return false
	}
}

// AsDouble coerces a numeric value to float64; ok is false for
// non-numeric kinds.
func (v Value) AsDouble() (float64, bool) {
	switch v.Kind {
	case KDouble:
		return v.D, true
	case KLong:
		return float64(v.L), true
	default:
		return 0, false
	}
}
