package server

import (
	"graphdb/internal/query"
	"graphdb/internal/wire"
)

func registerAggregateCommands(r *Registry) {
	r.Register(Command{ID: 60, Name: "selva.aggregate", Mode: ModePure, Handler: handleAggregate})
	r.Register(Command{ID: 61, Name: "selva.aggregateRecursive", Mode: ModePure, Handler: handleAggregateRecursive})
}

var reducerByName = map[string]query.Reducer{
	"count": query.ReduceCount,
	"sum":   query.ReduceSum,
	"avg":   query.ReduceAvg,
	"min":   query.ReduceMin,
	"max":   query.ReduceMax,
}

// handleAggregate implements `selva.aggregate <seed> <reducer> <field>`:
// run the same seed/filter/traversal machinery as find but reduce the
// named field across matches instead of streaming a reply tree (§4.7
// supplemented from aggregate.c).
func handleAggregate(s *Session, args []wire.Value) ([]wire.Value, error) {
	return runAggregate(s, args, query.ModeBFSDescendants)
}

// handleAggregateRecursive is the recursive-descendants variant named
// in §6's commands table; it shares aggregate's engine call but walks
// the descendants depth-first (ModeDFSDescendants) where aggregate walks
// them breadth-first. Both modes reach every descendant; only the visit
// order differs.
func handleAggregateRecursive(s *Session, args []wire.Value) ([]wire.Value, error) {
	return runAggregate(s, args, query.ModeDFSDescendants)
}

func runAggregate(s *Session, args []wire.Value, mode query.Mode) ([]wire.Value, error) {
	if len(args) != 3 || args[0].Kind != wire.KindString || args[1].Kind != wire.KindString || args[2].Kind != wire.KindString {
		return nil, ErrBadArgument
	}
	reducer, ok := reducerByName[args[1].Str]
	if !ok {
		return nil, ErrBadArgument
	}
	seeds, err := idArgs(args[:1])
	if err != nil {
		return nil, ErrBadArgument
	}

	p := query.NewParams()
	p.Mode = mode
	p.Seeds = seeds

	res, err := s.Query.Aggregate(p, args[2].Str, reducer)
	if err != nil {
		return nil, err
	}
	return []wire.Value{
		{Kind: wire.KindDouble, Double: res.Value},
		{Kind: wire.KindLong, Long: int64(res.Count)},
	}, nil
}
