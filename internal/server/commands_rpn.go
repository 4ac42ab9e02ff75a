package server

import (
	"graphdb/internal/ids"
	"graphdb/internal/rpn"
	"graphdb/internal/wire"
)

func registerRPNCommands(r *Registry) {
	r.Register(Command{ID: 30, Name: "selva.rpn.evalbool", Mode: ModePure, Handler: handleEvalBool})
	r.Register(Command{ID: 31, Name: "selva.rpn.evaldouble", Mode: ModePure, Handler: handleEvalDouble})
	r.Register(Command{ID: 32, Name: "selva.rpn.evalstring", Mode: ModePure, Handler: handleEvalString})
	r.Register(Command{ID: 33, Name: "selva.rpn.evalset", Mode: ModePure, Handler: handleEvalSet})
}

// rpnContext builds an evaluation context for `key, expr, args...`
// (§6 commands table): key selects the node whose fields and
// hierarchy position are visible to the expression, and each
// remaining string arg loads into register i.
func (s *Session) rpnContext(args []wire.Value) (*rpn.Context, *rpn.Expression, error) {
	if len(args) < 2 || args[0].Kind != wire.KindString || args[1].Kind != wire.KindString {
		return nil, nil, ErrBadArgument
	}
	node, ok := s.Hierarchy.Find(ids.New(args[0].Str))
	if !ok {
		return nil, nil, ErrNotFoundArgument
	}
	expr, err := rpn.Compile(args[1].Str)
	if err != nil {
		return nil, nil, err
	}
	ctx := rpn.NewContext()
	ctx.SetHierarchyNode(s.Hierarchy, node)
	ctx.SetObj(node.Fields)
	for i, a := range args[2:] {
		if a.Kind != wire.KindString {
			return nil, nil, ErrBadArgument
		}
		if err := ctx.SetReg(i, []byte(a.Str), false); err != nil {
			return nil, nil, err
		}
	}
	return ctx, expr, nil
}

func handleEvalBool(s *Session, args []wire.Value) ([]wire.Value, error) {
	ctx, expr, err := s.rpnContext(args)
	if err != nil {
		return nil, err
	}
	v, err := rpn.EvalBool(ctx, expr)
	if err != nil {
		return nil, err
	}
	return []wire.Value{{Kind: wire.KindLong, Long: boolToLong(v)}}, nil
}

func handleEvalDouble(s *Session, args []wire.Value) ([]wire.Value, error) {
	ctx, expr, err := s.rpnContext(args)
	if err != nil {
		return nil, err
	}
	v, err := rpn.EvalDouble(ctx, expr)
	if err != nil {
		return nil, err
	}
	return []wire.Value{{Kind: wire.KindDouble, Double: v}}, nil
}

func handleEvalString(s *Session, args []wire.Value) ([]wire.Value, error) {
	ctx, expr, err := s.rpnContext(args)
	if err != nil {
		return nil, err
	}
	v, err := rpn.EvalString(ctx, expr)
	if err != nil {
		return nil, err
	}
	return []wire.Value{{Kind: wire.KindString, Str: v}}, nil
}

func handleEvalSet(s *Session, args []wire.Value) ([]wire.Value, error) {
	ctx, expr, err := s.rpnContext(args)
	if err != nil {
		return nil, err
	}
	set, err := rpn.EvalSet(ctx, expr)
	if err != nil {
		return nil, err
	}
	sink := &wireReplySink{}
	sink.SetValue("", set)
	return sink.out, nil
}
