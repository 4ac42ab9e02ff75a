package query

import (
	"graphdb/internal/hierarchy"
	"graphdb/internal/rpn"
)

// evalFieldNameSet evaluates an RPN expression expected to yield a set
// of field names (fields_rpn, §4.7).
func evalFieldNameSet(h *hierarchy.Hierarchy, n *hierarchy.Node, expr *rpn.Expression) ([]string, error) {
	ctx := rpn.NewContext()
	ctx.SetHierarchyNode(h, n)
	ctx.SetObj(n.Fields)
	set, err := rpn.EvalSet(ctx, expr)
	if err != nil {
		return nil, err
	}
	return set.Strings(), nil
}
