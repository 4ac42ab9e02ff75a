package hierarchy

import "graphdb/internal/ids"

// Mode is one of the hierarchy-native traversal directions. The
// remaining five modes named in §4.3 (refs-via-field, array-via-field,
// BFS-via-edge-field, BFS-expression, expression) require the edge and
// RPN packages and are dispatched one layer up, by the query engine
// (C7), which calls back into Hierarchy for the graph-native legs of
// those traversals.
type Mode uint8

const (
	ModeChildren Mode = iota
	ModeParents
	ModeBFSAncestors
	ModeBFSDescendants
	ModeDFSAncestors
	ModeDFSDescendants
	ModeDFSFull
)

// Callbacks bundles the three traversal hooks named in §4.3: HeadCB
// fires once per entry head before it is enqueued, NodeCB fires on
// dequeue (returning true stops the traversal), ChildCB fires on each
// neighbor discovery.
type Callbacks struct {
	HeadCB  func(id ids.NodeId)
	NodeCB  func(id ids.NodeId) (stop bool)
	ChildCB func(parent, child ids.NodeId)
}

func (h *Hierarchy) neighbors(mode Mode) func(*Node) []ids.NodeId {
	switch mode {
	case ModeBFSDescendants, ModeDFSDescendants:
		return func(n *Node) []ids.NodeId { return n.Children.Items() }
	case ModeBFSAncestors, ModeDFSAncestors:
		return func(n *Node) []ids.NodeId { return n.Parents.Items() }
	case ModeDFSFull:
		return func(n *Node) []ids.NodeId {
			return append(append([]ids.NodeId(nil), n.Children.Items()...), n.Parents.Items()...)
		}
	default:
		return func(*Node) []ids.NodeId { return nil }
	}
}

// skipsSelf reports whether mode must not emit the start node itself
// (§4.7: "BFS-ancestors/descendants begin by marking the start node as
// already-visited and do not emit it").
func skipsSelf(mode Mode) bool {
	switch mode {
	case ModeBFSAncestors, ModeBFSDescendants, ModeDFSAncestors, ModeDFSDescendants, ModeDFSFull:
		return true
	default:
		return false
	}
}

// Traverse runs one of the seven hierarchy-native modes starting at
// start, marking visitation in a visited set created fresh for each
// call, so repeated traversals need no label clearing.
func (h *Hierarchy) Traverse(start ids.NodeId, mode Mode, visit func(id ids.NodeId) bool, cb Callbacks) {
	n, ok := h.nodes[start]
	if !ok {
		return
	}
	if cb.HeadCB != nil {
		cb.HeadCB(start)
	}

	if mode == ModeChildren || mode == ModeParents {
		var nbs []ids.NodeId
		if mode == ModeChildren {
			nbs = n.Children.Items()
		} else {
			nbs = n.Parents.Items()
		}
		for _, nb := range nbs {
			if cb.ChildCB != nil {
				cb.ChildCB(start, nb)
			}
			if visit != nil && !visit(nb) {
				continue
			}
			if cb.NodeCB != nil && cb.NodeCB(nb) {
				return
			}
		}
		return
	}

	visited := map[ids.NodeId]struct{}{}
	if skipsSelf(mode) {
		visited[start] = struct{}{}
	}

	next := h.neighbors(mode)
	isDFS := mode == ModeDFSAncestors || mode == ModeDFSDescendants || mode == ModeDFSFull

	frontier := []ids.NodeId{start}
	if !skipsSelf(mode) {
		if visit != nil && !visit(start) {
			return
		}
		if cb.NodeCB != nil && cb.NodeCB(start) {
			return
		}
	}

	for len(frontier) > 0 {
		var cur ids.NodeId
		if isDFS {
			cur = frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
		} else {
			cur = frontier[0]
			frontier = frontier[1:]
		}
		n, ok := h.nodes[cur]
		if !ok {
			continue
		}
		nbs := next(n)
		var toVisit []ids.NodeId
		if isDFS {
			for i := len(nbs) - 1; i >= 0; i-- {
				toVisit = append(toVisit, nbs[i])
			}
		} else {
			toVisit = nbs
		}
		for _, nb := range toVisit {
			if _, ok := visited[nb]; ok {
				continue
			}
			visited[nb] = struct{}{}
			if cb.ChildCB != nil {
				cb.ChildCB(cur, nb)
			}
			if visit != nil && !visit(nb) {
				continue
			}
			stop := false
			if cb.NodeCB != nil {
				stop = cb.NodeCB(nb)
			}
			if stop {
				return
			}
			frontier = append(frontier, nb)
		}
	}
}
