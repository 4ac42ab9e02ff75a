package server

import (
	"graphdb/internal/ids"
	"graphdb/internal/wire"
)

func registerObjectCommands(r *Registry) {
	r.Register(Command{ID: 40, Name: "object.exists", Mode: ModePure, Handler: handleObjectExists})
	r.Register(Command{ID: 41, Name: "object.get", Mode: ModePure, Handler: handleObjectGet})
	r.Register(Command{ID: 42, Name: "object.set", Mode: ModeMutating, Handler: handleObjectSet})
	r.Register(Command{ID: 43, Name: "object.del", Mode: ModeMutating, Handler: handleObjectDel})
	r.Register(Command{ID: 44, Name: "object.incrby", Mode: ModeMutating, Handler: handleObjectIncrBy})
	r.Register(Command{ID: 45, Name: "object.len", Mode: ModePure, Handler: handleObjectLen})
}

// findForField decodes `key, field` for the single-field object.* commands.
func (s *Session) findForField(args []wire.Value) (*ids.NodeId, string, error) {
	if len(args) < 2 || args[0].Kind != wire.KindString || args[1].Kind != wire.KindString {
		return nil, "", ErrBadArgument
	}
	id := ids.New(args[0].Str)
	return &id, args[1].Str, nil
}

func handleObjectExists(s *Session, args []wire.Value) ([]wire.Value, error) {
	id, field, err := s.findForField(args)
	if err != nil {
		return nil, err
	}
	n, ok := s.Hierarchy.Find(*id)
	if !ok {
		return []wire.Value{{Kind: wire.KindLong, Long: 0}}, nil
	}
	return []wire.Value{{Kind: wire.KindLong, Long: boolToLong(n.Fields.Exists(field))}}, nil
}

func handleObjectGet(s *Session, args []wire.Value) ([]wire.Value, error) {
	id, field, err := s.findForField(args)
	if err != nil {
		return nil, err
	}
	n, ok := s.Hierarchy.Find(*id)
	if !ok {
		return nil, ErrNotFoundArgument
	}
	if v, gerr := n.Fields.GetString(field); gerr == nil {
		return []wire.Value{{Kind: wire.KindString, Str: v}}, nil
	}
	if v, gerr := n.Fields.GetDouble(field); gerr == nil {
		return []wire.Value{{Kind: wire.KindDouble, Double: v}}, nil
	}
	if v, gerr := n.Fields.GetLong(field); gerr == nil {
		return []wire.Value{{Kind: wire.KindLong, Long: v}}, nil
	}
	return []wire.Value{{Kind: wire.KindNull}}, nil
}

func handleObjectSet(s *Session, args []wire.Value) ([]wire.Value, error) {
	id, field, err := s.findForField(args)
	if err != nil {
		return nil, err
	}
	if len(args) != 3 {
		return nil, ErrBadArgument
	}
	n, ok := s.Hierarchy.Find(*id)
	if !ok {
		n = s.Hierarchy.Add(*id, nil, nil, false)
	}
	switch v := args[2]; v.Kind {
	case wire.KindString:
		err = n.Fields.SetString(field, v.Str)
	case wire.KindDouble:
		err = n.Fields.SetDouble(field, v.Double)
	case wire.KindLong:
		err = n.Fields.SetLong(field, v.Long)
	default:
		return nil, ErrBadArgument
	}
	if err != nil {
		return nil, err
	}
	s.Index.InvalidateNode(*id)
	return []wire.Value{{Kind: wire.KindLong, Long: 1}}, nil
}

func handleObjectDel(s *Session, args []wire.Value) ([]wire.Value, error) {
	id, field, err := s.findForField(args)
	if err != nil {
		return nil, err
	}
	n, ok := s.Hierarchy.Find(*id)
	if !ok {
		return nil, ErrNotFoundArgument
	}
	if err := n.Fields.Del(field); err != nil {
		return nil, err
	}
	s.Index.InvalidateNode(*id)
	return []wire.Value{{Kind: wire.KindLong, Long: 1}}, nil
}

func handleObjectIncrBy(s *Session, args []wire.Value) ([]wire.Value, error) {
	id, field, err := s.findForField(args)
	if err != nil {
		return nil, err
	}
	if len(args) != 3 || args[2].Kind != wire.KindLong {
		return nil, ErrBadArgument
	}
	n, ok := s.Hierarchy.Find(*id)
	if !ok {
		return nil, ErrNotFoundArgument
	}
	prev, err := n.Fields.IncrementLong(field, 0, args[2].Long)
	if err != nil {
		return nil, err
	}
	s.Index.InvalidateNode(*id)
	return []wire.Value{{Kind: wire.KindLong, Long: prev + args[2].Long}}, nil
}

func handleObjectLen(s *Session, args []wire.Value) ([]wire.Value, error) {
	id, field, err := s.findForField(args)
	if err != nil {
		return nil, err
	}
	n, ok := s.Hierarchy.Find(*id)
	if !ok {
		return nil, ErrNotFoundArgument
	}
	l, err := n.Fields.Len(&field)
	if err != nil {
		return nil, err
	}
	return []wire.Value{{Kind: wire.KindLong, Long: int64(l)}}, nil
}
