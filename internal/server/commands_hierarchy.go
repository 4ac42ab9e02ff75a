package server

import (
	"graphdb/internal/ids"
	"graphdb/internal/wire"
)

func registerHierarchyCommands(r *Registry) {
	r.Register(Command{ID: 10, Name: "selva.hierarchy.add", Mode: ModeMutating, Handler: handleHierarchyAdd})
	r.Register(Command{ID: 11, Name: "selva.hierarchy.del", Mode: ModeMutating, Handler: handleHierarchyDel})
	r.Register(Command{ID: 12, Name: "selva.hierarchy.parents", Mode: ModePure, Handler: handleHierarchyParents})
	r.Register(Command{ID: 13, Name: "selva.hierarchy.children", Mode: ModePure, Handler: handleHierarchyChildren})
}

// idArgs decodes a leading node id followed by zero or more additional
// node ids from a flat string-value argument list.
func idArgs(args []wire.Value) ([]ids.NodeId, error) {
	out := make([]ids.NodeId, 0, len(args))
	for _, a := range args {
		if a.Kind != wire.KindString {
			return nil, ErrBadArgument
		}
		out = append(out, ids.New(a.Str))
	}
	return out, nil
}

// handleHierarchyAdd implements `selva.hierarchy.add <child> <parent>...`:
// link child under each named parent, creating either side as needed
// (§4.3). Every argument after the first is a parent id.
func handleHierarchyAdd(s *Session, args []wire.Value) ([]wire.Value, error) {
	nodeIDs, err := idArgs(args)
	if err != nil || len(nodeIDs) < 1 {
		return nil, ErrBadArgument
	}
	child := nodeIDs[0]
	parents := nodeIDs[1:]
	s.Hierarchy.Add(child, parents, nil, false)
	for _, p := range parents {
		s.Index.InvalidateNode(p)
	}
	s.Index.InvalidateNode(child)
	return []wire.Value{{Kind: wire.KindLong, Long: 1}}, nil
}

// handleHierarchyDel implements `selva.hierarchy.del <node>`: cascade
// delete per §4.3/scenario 6, invalidating every destroyed node's
// index entries and subscription markers.
func handleHierarchyDel(s *Session, args []wire.Value) ([]wire.Value, error) {
	nodeIDs, err := idArgs(args)
	if err != nil || len(nodeIDs) != 1 {
		return nil, ErrBadArgument
	}
	destroyed := 0
	ok := s.Hierarchy.DelNode(nodeIDs[0], func(id ids.NodeId) {
		destroyed++
		s.Index.InvalidateNode(id)
		s.Edges.TeardownNode(id)
	})
	if !ok {
		return nil, ErrNotFoundArgument
	}
	return []wire.Value{{Kind: wire.KindLong, Long: int64(destroyed)}}, nil
}

func handleHierarchyParents(s *Session, args []wire.Value) ([]wire.Value, error) {
	nodeIDs, err := idArgs(args)
	if err != nil || len(nodeIDs) != 1 {
		return nil, ErrBadArgument
	}
	n, ok := s.Hierarchy.Find(nodeIDs[0])
	if !ok {
		return nil, ErrNotFoundArgument
	}
	return nodeIdsToValues(n.Parents.Items()), nil
}

func handleHierarchyChildren(s *Session, args []wire.Value) ([]wire.Value, error) {
	nodeIDs, err := idArgs(args)
	if err != nil || len(nodeIDs) != 1 {
		return nil, ErrBadArgument
	}
	n, ok := s.Hierarchy.Find(nodeIDs[0])
	if !ok {
		return nil, ErrNotFoundArgument
	}
	return nodeIdsToValues(n.Children.Items()), nil
}

func nodeIdsToValues(list []ids.NodeId) []wire.Value {
	out := make([]wire.Value, len(list))
	for i, id := range list {
		out[i] = wire.Value{Kind: wire.KindString, Str: id.String()}
	}
	return out
}
