package hierarchy

import (
	"sort"

	"go.uber.org/zap"

	"graphdb/internal/ids"
	"graphdb/internal/trx"
)

// Hierarchy owns every Node, the parent/child relation between them,
// the set of orphan heads, and the traversal-label generator (§3,
// §4.2, §4.3).
type Hierarchy struct {
	nodes map[ids.NodeId]*Node
	order []ids.NodeId // kept sorted for in-key-order iteration

	heads map[ids.NodeId]struct{}

	trx trx.State

	depthEnabled bool
	log          *zap.Logger
}

// Option configures a Hierarchy at construction time.
type Option func(*Hierarchy)

// WithDepthTracking enables the optional per-node depth maintenance
// described in §4.3.
func WithDepthTracking() Option {
	return func(h *Hierarchy) { h.depthEnabled = true }
}

// WithLogger installs a structured logger; the zero value is a no-op
// logger so callers may omit this option entirely.
func WithLogger(l *zap.Logger) Option {
	return func(h *Hierarchy) { h.log = l }
}

// New creates a Hierarchy with the ROOT node already present, per §3
// ("the root node is always present and is never removed").
func New(opts ...Option) *Hierarchy {
	h := &Hierarchy{
		nodes: make(map[ids.NodeId]*Node),
		heads: make(map[ids.NodeId]struct{}),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	root := newNode(ids.Root)
	h.insertSorted(ids.Root)
	h.nodes[ids.Root] = root
	h.heads[ids.Root] = struct{}{}
	return h
}

func (h *Hierarchy) insertSorted(id ids.NodeId) {
	i := sort.Search(len(h.order), func(i int) bool { return !h.order[i].Less(id) })
	h.order = append(h.order, ids.NodeId{})
	copy(h.order[i+1:], h.order[i:])
	h.order[i] = id
}

func (h *Hierarchy) removeSorted(id ids.NodeId) {
	i := sort.Search(len(h.order), func(i int) bool { return !h.order[i].Less(id) })
	if i < len(h.order) && h.order[i] == id {
		h.order = append(h.order[:i], h.order[i+1:]...)
	}
}

// Find returns the node for id, or (nil, false).
func (h *Hierarchy) Find(id ids.NodeId) (*Node, bool) {
	n, ok := h.nodes[id]
	return n, ok
}

// Len returns the number of nodes in the hierarchy.
func (h *Hierarchy) Len() int { return len(h.nodes) }

// AllIDs returns every NodeId in key order; callers must not mutate it.
func (h *Hierarchy) AllIDs() []ids.NodeId { return h.order }

// GetHeads returns every orphan node (zero parents), including ROOT.
func (h *Hierarchy) GetHeads() []ids.NodeId {
	out := make([]ids.NodeId, 0, len(h.heads))
	for id := range h.heads {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (h *Hierarchy) getOrCreate(id ids.NodeId) *Node {
	if n, ok := h.nodes[id]; ok {
		return n
	}
	n := newNode(id)
	h.nodes[id] = n
	h.insertSorted(id)
	h.heads[id] = struct{}{}
	return n
}

func (h *Hierarchy) link(parent, child ids.NodeId) {
	p := h.getOrCreate(parent)
	c := h.getOrCreate(child)
	addedToP := p.Children.Add(child)
	addedToC := c.Parents.Add(parent)
	if addedToC && c.Parents.Len() == 1 {
		delete(h.heads, child)
	}
	_ = addedToP
}

func (h *Hierarchy) unlink(parent, child ids.NodeId) bool {
	p, pok := h.nodes[parent]
	c, cok := h.nodes[child]
	if !pok || !cok {
		return false
	}
	removedP := p.Children.Remove(child)
	removedC := c.Parents.Remove(parent)
	if removedC && c.Parents.Len() == 0 {
		h.heads[child] = struct{}{}
	}
	return removedP || removedC
}

// Add creates id if missing and installs the given parent/child links
// in addition to (not replacing) any existing links. If id is newly
// created, parents is empty and noRoot is false, ROOT is used as the
// implicit parent (§4.3 "add"); an existing node gets no implicit parent.
func (h *Hierarchy) Add(id ids.NodeId, parents, children []ids.NodeId, noRoot bool) *Node {
	_, existed := h.nodes[id]
	n := h.getOrCreate(id)
	if !existed && len(parents) == 0 && !noRoot && id != ids.Root {
		parents = []ids.NodeId{ids.Root}
	}
	for _, p := range parents {
		h.link(p, id)
	}
	for _, c := range children {
		h.link(id, c)
	}
	if h.depthEnabled {
		h.recomputeDepth(id)
	}
	h.log.Debug("hierarchy.add", zap.String("node", id.String()), zap.Bool("existed", existed))
	return n
}

// Set creates id if missing; otherwise clears its existing parent and
// child links before installing the given ones (§4.3 "set").
func (h *Hierarchy) Set(id ids.NodeId, parents, children []ids.NodeId, noRoot bool) *Node {
	n := h.getOrCreate(id)
	h.SetParents(id, nil, true)
	h.SetChildren(id, nil)
	if len(parents) == 0 && !noRoot && id != ids.Root {
		parents = []ids.NodeId{ids.Root}
	}
	for _, p := range parents {
		h.link(p, id)
	}
	for _, c := range children {
		h.link(id, c)
	}
	if h.depthEnabled {
		h.recomputeDepth(id)
	}
	return n
}

// SetParents clears id's existing parents and installs the given ones.
// skipRootDefault suppresses falling back to ROOT when parents is empty
// (used internally by Set, which applies the ROOT default itself).
func (h *Hierarchy) SetParents(id ids.NodeId, parents []ids.NodeId, skipRootDefault bool) {
	n, ok := h.nodes[id]
	if !ok {
		n = h.getOrCreate(id)
	}
	for _, p := range n.Parents.Items() {
		h.unlink(p, id)
	}
	if len(parents) == 0 && !skipRootDefault && id != ids.Root {
		parents = []ids.NodeId{ids.Root}
	}
	for _, p := range parents {
		h.link(p, id)
	}
}

// SetChildren clears id's existing children and installs the given ones.
func (h *Hierarchy) SetChildren(id ids.NodeId, children []ids.NodeId) {
	n, ok := h.nodes[id]
	if !ok {
		n = h.getOrCreate(id)
	}
	for _, c := range n.Children.Items() {
		h.unlink(id, c)
	}
	for _, c := range children {
		h.link(id, c)
	}
}

// DelEdges removes the given parent/child links; missing references
// are silently ignored (§4.3 "noop on absent").
func (h *Hierarchy) DelEdges(id ids.NodeId, parents, children []ids.NodeId) {
	for _, p := range parents {
		h.unlink(p, id)
	}
	for _, c := range children {
		h.unlink(id, c)
	}
	if h.depthEnabled {
		h.recomputeDepth(id)
	}
}

// DelNode cascading-destroys id per §3's lifecycle and §4.3/§9's
// delete semantics: for every child, remove this link; if the child's
// parent count then reaches zero, recursively destroy it too. ROOT
// itself is never removed, though its relations may still change.
func (h *Hierarchy) DelNode(id ids.NodeId, onDestroy func(ids.NodeId)) bool {
	n, ok := h.nodes[id]
	if !ok {
		return false
	}

	worklist := []ids.NodeId{id}
	destroyed := make(map[ids.NodeId]struct{})

	for len(worklist) > 0 {
		cur := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if _, done := destroyed[cur]; done {
			continue
		}
		curNode, ok := h.nodes[cur]
		if !ok {
			continue
		}
		if cur == ids.Root {
			// ROOT's node record survives; only sever the link that
			// brought us here (already done by the caller's unlink).
			continue
		}
		destroyed[cur] = struct{}{}

		children := append([]ids.NodeId(nil), curNode.Children.Items()...)
		parents := append([]ids.NodeId(nil), curNode.Parents.Items()...)
		for _, p := range parents {
			h.unlink(p, cur)
		}
		for _, c := range children {
			h.unlink(cur, c)
			if child, ok := h.nodes[c]; ok && child.Parents.Len() == 0 {
				worklist = append(worklist, c)
			}
		}

		curNode.Fields.Destroy()
		delete(h.nodes, cur)
		h.removeSorted(cur)
		delete(h.heads, cur)
		if onDestroy != nil {
			onDestroy(cur)
		}
		h.log.Debug("hierarchy.del_node", zap.String("node", cur.String()))
	}

	_ = n
	return true
}

func (h *Hierarchy) recomputeDepth(start ids.NodeId) {
	visited := map[ids.NodeId]struct{}{}
	queue := []ids.NodeId{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if _, ok := visited[cur]; ok {
			continue
		}
		visited[cur] = struct{}{}
		n, ok := h.nodes[cur]
		if !ok {
			continue
		}
		maxParentDepth := -1
		for _, p := range n.Parents.Items() {
			if pn, ok := h.nodes[p]; ok && pn.depth > maxParentDepth {
				maxParentDepth = pn.depth
			}
		}
		n.depth = maxParentDepth + 1
		queue = append(queue, n.Children.Items()...)
	}
}

// FindAncestors returns every node reachable by following Parents
// edges from id, unordered, not including id itself.
func (h *Hierarchy) FindAncestors(id ids.NodeId) []ids.NodeId {
	return h.collectReachable(id, func(n *Node) []ids.NodeId { return n.Parents.Items() })
}

// FindDescendants returns every node reachable by following Children
// edges from id, unordered, not including id itself.
func (h *Hierarchy) FindDescendants(id ids.NodeId) []ids.NodeId {
	return h.collectReachable(id, func(n *Node) []ids.NodeId { return n.Children.Items() })
}

func (h *Hierarchy) collectReachable(start ids.NodeId, next func(*Node) []ids.NodeId) []ids.NodeId {
	visited := map[ids.NodeId]struct{}{start: {}}
	var out []ids.NodeId
	queue := []ids.NodeId{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		n, ok := h.nodes[cur]
		if !ok {
			continue
		}
		for _, nb := range next(n) {
			if _, ok := visited[nb]; ok {
				continue
			}
			visited[nb] = struct{}{}
			out = append(out, nb)
			queue = append(queue, nb)
		}
	}
	return out
}
