package server

import (
	"graphdb/internal/ids"
	"graphdb/internal/wire"
)

func registerEdgeCommands(r *Registry) {
	r.Register(Command{ID: 70, Name: "selva.hierarchy.addref", Mode: ModeMutating, Handler: handleEdgeAdd})
	r.Register(Command{ID: 71, Name: "selva.hierarchy.delref", Mode: ModeMutating, Handler: handleEdgeDel})
	r.Register(Command{ID: 72, Name: "selva.hierarchy.getrefs", Mode: ModePure, Handler: handleEdgeGet})
}

// edgeArgs decodes `src, field, dst` for the single-edge commands.
func edgeArgs(args []wire.Value) (ids.NodeId, string, ids.NodeId, error) {
	if len(args) != 3 || args[0].Kind != wire.KindString || args[1].Kind != wire.KindString || args[2].Kind != wire.KindString {
		return ids.NodeId{}, "", ids.NodeId{}, ErrBadArgument
	}
	return ids.New(args[0].Str), args[1].Str, ids.New(args[2].Str), nil
}

// handleEdgeAdd implements `selva.hierarchy.addref <src> <field> <dst>`:
// add dst to src's named edge field, enforcing that field's registered
// Constraint (§4.4 edge fields).
func handleEdgeAdd(s *Session, args []wire.Value) ([]wire.Value, error) {
	src, field, dst, err := edgeArgs(args)
	if err != nil {
		return nil, err
	}
	if err := s.Edges.AddEdge(src, field, dst); err != nil {
		return nil, err
	}
	s.Index.InvalidateNode(src)
	return []wire.Value{{Kind: wire.KindLong, Long: 1}}, nil
}

// handleEdgeDel implements `selva.hierarchy.delref <src> <field> <dst>`.
func handleEdgeDel(s *Session, args []wire.Value) ([]wire.Value, error) {
	src, field, dst, err := edgeArgs(args)
	if err != nil {
		return nil, err
	}
	if err := s.Edges.DelEdge(src, field, dst); err != nil {
		return nil, err
	}
	s.Index.InvalidateNode(src)
	return []wire.Value{{Kind: wire.KindLong, Long: 1}}, nil
}

// handleEdgeGet implements `selva.hierarchy.getrefs <src> <field>`: the
// destination node ids currently held by src's named edge field.
func handleEdgeGet(s *Session, args []wire.Value) ([]wire.Value, error) {
	if len(args) != 2 || args[0].Kind != wire.KindString || args[1].Kind != wire.KindString {
		return nil, ErrBadArgument
	}
	dst := s.Edges.GetField(ids.New(args[0].Str), args[1].Str)
	return nodeIdsToValues(dst), nil
}
