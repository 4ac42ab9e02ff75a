// Package hierarchy implements the node index, parent/child relation,
// orphan-head tracking, and BFS/DFS traversal primitives (§3, §4.3).
package hierarchy

import (
	"graphdb/internal/ids"
	"graphdb/internal/object"
	"graphdb/internal/trx"
)

// Node is one vertex of the hierarchy: an id, weak parent/child
// references, its typed field object, and traversal/subscription
// metadata. The Hierarchy is the sole owner.
type Node struct {
	ID       ids.NodeId
	Parents  *ids.Vector
	Children *ids.Vector
	Fields   *object.Object

	// Edges holds the node's edge-fields container (C5); it is an
	// interface{} here to avoid an import cycle, populated lazily by
	// the edge package on first use.
	Edges interface{}

	// Markers holds subscription markers registered on this node (C9);
	// also an interface{} to avoid an import cycle.
	Markers interface{}

	label trx.Label
	depth int
}

func newNode(id ids.NodeId) *Node {
	return &Node{
		ID:       id,
		Parents:  ids.NewVector(),
		Children: ids.NewVector(),
		Fields:   object.New(),
	}
}

// Depth returns the cached longest-path-from-any-head depth (only
// meaningful when the Hierarchy was constructed with depth tracking
// enabled).
func (n *Node) Depth() int { return n.depth }
