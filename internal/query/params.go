package query

import (
	"graphdb/internal/ids"
	"graphdb/internal/rpn"
)

// MergeStrategy is the sending mode for multi-seed result merges (§4.7).
type MergeStrategy uint8

const (
	MergeNone MergeStrategy = iota
	MergeAll
	MergeNamed
	MergeDeep
)

// IndexHint is one clause the indexer (C8) may memoize, keyed by the
// tuple (mode, field/expression, start node, order field, filter source).
type IndexHint struct {
	Mode       Mode
	Field      string
	StartID    ids.NodeId
	OrderField string
	FilterSrc  string
}

// Order is the (field, direction) sort key, absent when Field == "".
type Order struct {
	Field string
	Desc  bool
}

// Params is one parsed find/findIn/aggregate request (§4.7 "Request
// parameters").
type Params struct {
	Mode Mode
	// Field names the edge/array/ref field for the field-driven modes.
	Field string
	// FieldExpr, when set, selects the field traversed at each node for
	// the expression-driven modes instead of a fixed Field.
	FieldExpr *rpn.Expression
	// EdgeFilter optionally decides whether to cross each candidate edge.
	EdgeFilter *rpn.Expression

	Hints []IndexHint

	Order  Order
	Offset int // -1 means "from the end" only when Order.Field != ""
	Limit  int // -1 means unlimited

	Merge     MergeStrategy
	MergePath string

	// FieldGroups holds fallback field-name groups: within a group the
	// first present field wins. Nil means "no projection restriction".
	FieldGroups [][]string
	// FieldsExpr, when set, yields the set of field names to send.
	FieldsExpr     *rpn.Expression
	ExcludedFields []string

	Seeds []ids.NodeId

	Filter    *rpn.Expression
	Registers map[int][]byte
}

// NewParams returns a Params with the zero-value defaults the spec
// names: unlimited limit, no offset, no order, no merge.
func NewParams() Params {
	return Params{Offset: 0, Limit: -1}
}
