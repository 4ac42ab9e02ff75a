package query

import (
	"graphdb/internal/edge"
	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
	"graphdb/internal/rpn"
)

// Walk drives one of the 12 traversal modes named in §4.3, calling emit
// for each discovered node (excluding the start node when the mode
// prescribes skipping self). emit returning false stops the walk.
func Walk(h *hierarchy.Hierarchy, es *edge.Store, start ids.NodeId, p *Params, emit func(ids.NodeId) bool) {
	if p.Mode.hierarchyNative() {
		walkNative(h, start, p, emit)
		return
	}
	switch p.Mode {
	case ModeRefsField:
		walkField(es, start, p.Field, emit)
	case ModeArrayField:
		walkArrayField(h, start, p.Field, emit)
	case ModeBFSEdgeField:
		walkBFSEdgeField(h, es, start, p.Field, emit)
	case ModeBFSExpression:
		walkExprTraversal(h, es, start, p, emit, true)
	case ModeExpression:
		walkExprTraversal(h, es, start, p, emit, false)
	}
}

func walkNative(h *hierarchy.Hierarchy, start ids.NodeId, p *Params, emit func(ids.NodeId) bool) {
	stopped := false
	h.Traverse(start, p.Mode.toHierarchyMode(), nil, hierarchy.Callbacks{
		NodeCB: func(id ids.NodeId) bool {
			if stopped {
				return true
			}
			if !emit(id) {
				stopped = true
				return true
			}
			return false
		},
	})
}

// walkField dereferences a single/multi edge field, single level only.
func walkField(es *edge.Store, start ids.NodeId, field string, emit func(ids.NodeId) bool) {
	for _, dst := range es.GetField(start, field) {
		if !emit(dst) {
			return
		}
	}
}

// walkArrayField iterates a node-id-typed array field on the node's own
// object, single level only.
func walkArrayField(h *hierarchy.Hierarchy, start ids.NodeId, field string, emit func(ids.NodeId) bool) {
	n, ok := h.Find(start)
	if !ok {
		return
	}
	ln, err := n.Fields.ArrayLen(field)
	if err != nil {
		return
	}
	for i := 0; i < ln; i++ {
		s, err := n.Fields.ArrayGetStringAt(field, i)
		if err != nil {
			continue
		}
		if !emit(ids.New(s)) {
			return
		}
	}
}

// walkBFSEdgeField is a breadth-first traversal that follows one named
// edge field instead of the hierarchy's children relation.
func walkBFSEdgeField(h *hierarchy.Hierarchy, es *edge.Store, start ids.NodeId, field string, emit func(ids.NodeId) bool) {
	visited := map[ids.NodeId]struct{}{start: {}}
	frontier := []ids.NodeId{start}
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		for _, nb := range es.GetField(cur, field) {
			if _, ok := visited[nb]; ok {
				continue
			}
			visited[nb] = struct{}{}
			if !emit(nb) {
				return
			}
			frontier = append(frontier, nb)
		}
	}
}

// walkExprTraversal evaluates p.FieldExpr at each node to obtain a set of
// field names (each a hierarchy relation, edge field, or ref field); the
// union of their targets is the neighbor set. p.EdgeFilter, if set,
// decides whether to cross each candidate edge. bfs selects
// breadth-first vs depth-first order (§4.3).
func walkExprTraversal(h *hierarchy.Hierarchy, es *edge.Store, start ids.NodeId, p *Params, emit func(ids.NodeId) bool, bfs bool) {
	visited := map[ids.NodeId]struct{}{start: {}}
	frontier := []ids.NodeId{start}

	neighborsOf := func(cur ids.NodeId) []ids.NodeId {
		n, ok := h.Find(cur)
		if !ok || p.FieldExpr == nil {
			return nil
		}
		ctx := rpn.NewContext()
		ctx.SetHierarchyNode(h, n)
		ctx.SetObj(n.Fields)
		names, err := rpn.EvalSet(ctx, p.FieldExpr)
		if err != nil {
			return nil
		}
		var out []ids.NodeId
		for _, name := range names.Strings() {
			switch name {
			case "children":
				out = append(out, n.Children.Items()...)
			case "parents":
				out = append(out, n.Parents.Items()...)
			default:
				out = append(out, es.GetField(cur, name)...)
			}
		}
		return out
	}

	edgeAllowed := func(from, to ids.NodeId) bool {
		if p.EdgeFilter == nil {
			return true
		}
		toNode, ok := h.Find(to)
		if !ok {
			return false
		}
		ctx := rpn.NewContext()
		ctx.SetHierarchyNode(h, toNode)
		ctx.SetObj(toNode.Fields)
		ok2, err := rpn.EvalBool(ctx, p.EdgeFilter)
		return err == nil && ok2
	}

	for len(frontier) > 0 {
		var cur ids.NodeId
		if bfs {
			cur = frontier[0]
			frontier = frontier[1:]
		} else {
			cur = frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
		}
		nbs := neighborsOf(cur)
		for _, nb := range nbs {
			if _, ok := visited[nb]; ok {
				continue
			}
			if !edgeAllowed(cur, nb) {
				continue
			}
			visited[nb] = struct{}{}
			if !emit(nb) {
				return
			}
			frontier = append(frontier, nb)
		}
	}
}
