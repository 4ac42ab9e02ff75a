package server

import (
	"graphdb/internal/ids"
	"graphdb/internal/object"
	"graphdb/internal/query"
	"graphdb/internal/wire"
)

func registerQueryCommands(r *Registry) {
	r.Register(Command{ID: 50, Name: "selva.hierarchy.find", Mode: ModePure, Handler: handleHierarchyFind})
	r.Register(Command{ID: 51, Name: "selva.hierarchy.findIn", Mode: ModePure, Handler: handleHierarchyFindIn})
	r.Register(Command{ID: 52, Name: "selva.hierarchy.dump", Mode: ModePure, Handler: handleHierarchyDump})
}

// wireReplySink adapts object.ReplySink onto a flat []wire.Value reply,
// each (path, value) pair sent as two consecutive values and object
// nesting bracketed by sentinel strings, since the wire protocol has
// no native tree shape (§6 "Value encoding" is flat TLV).
type wireReplySink struct {
	out []wire.Value
}

func (w *wireReplySink) path(p string) { w.out = append(w.out, wire.Value{Kind: wire.KindString, Str: p}) }

func (w *wireReplySink) Null(path string) {
	w.path(path)
	w.out = append(w.out, wire.Value{Kind: wire.KindNull})
}

func (w *wireReplySink) Double(path string, v float64, binary bool) {
	w.path(path)
	w.out = append(w.out, wire.Value{Kind: wire.KindDouble, Double: v})
}

func (w *wireReplySink) Long(path string, v int64, binary bool) {
	w.path(path)
	w.out = append(w.out, wire.Value{Kind: wire.KindLong, Long: v})
}

func (w *wireReplySink) String(path string, v string, lang string) {
	w.path(path)
	w.out = append(w.out, wire.Value{Kind: wire.KindString, Str: v})
}

func (w *wireReplySink) ObjectBegin(path string) {
	w.out = append(w.out, wire.Value{Kind: wire.KindString, Str: path + ".{"})
}

func (w *wireReplySink) ObjectEnd(path string) {
	w.out = append(w.out, wire.Value{Kind: wire.KindString, Str: path + ".}"})
}

func (w *wireReplySink) SetValue(path string, s *ids.Set) {
	w.path(path)
	var elems []wire.Value
	switch s.Kind {
	case ids.KindString:
		for _, v := range s.Strings() {
			elems = append(elems, wire.Value{Kind: wire.KindString, Str: v})
		}
	case ids.KindDouble:
		for _, v := range s.Doubles() {
			elems = append(elems, wire.Value{Kind: wire.KindDouble, Double: v})
		}
	case ids.KindLong:
		for _, v := range s.Longs() {
			elems = append(elems, wire.Value{Kind: wire.KindLong, Long: v})
		}
	case ids.KindNodeId:
		for _, v := range s.NodeIds() {
			elems = append(elems, wire.Value{Kind: wire.KindString, Str: v.String()})
		}
	}
	w.out = append(w.out, wire.Value{Kind: wire.KindArray, ArrayLen: uint32(len(elems))})
	w.out = append(w.out, elems...)
}

func (w *wireReplySink) Pointer(path string, p *object.PointerValue) {
	w.path(path)
	w.out = append(w.out, wire.Value{Kind: wire.KindLong, Long: int64(p.TypeID)})
}

// handleHierarchyFind implements `selva.hierarchy.find <seed>...`: BFS
// descendants from each seed, streamed back flattened onto the wire
// (§4.7). The command takes only seed ids: no filter, order, limit or
// traversal mode argument is accepted, so every descendant is returned.
// Direction is always descendants.
func handleHierarchyFind(s *Session, args []wire.Value) ([]wire.Value, error) {
	seeds, err := idArgs(args)
	if err != nil || len(seeds) == 0 {
		return nil, ErrBadArgument
	}
	p := query.NewParams()
	p.Mode = query.ModeBFSDescendants
	p.Seeds = seeds

	sink := &wireReplySink{}
	if err := s.Query.Find(p, sink, nil, 0); err != nil {
		return nil, err
	}
	return sink.out, nil
}

// handleHierarchyFindIn implements `selva.hierarchy.findIn <node>...`:
// the node ids given ARE the result set — no traversal and no filter;
// each id is echoed back as one (path, value) pair, without checking
// that the node exists (find.c's FindInCommand takes an explicit node
// id list rather than a single traversed root).
func handleHierarchyFindIn(s *Session, args []wire.Value) ([]wire.Value, error) {
	nodeIDs, err := idArgs(args)
	if err != nil || len(nodeIDs) == 0 {
		return nil, ErrBadArgument
	}
	sink := &wireReplySink{}
	for _, id := range nodeIDs {
		sink.String(id.String(), id.String(), "")
	}
	return sink.out, nil
}

// handleHierarchyDump implements `selva.hierarchy.dump`: emit the id of
// every node in the hierarchy, in key order, a debugging aid with no
// filter/order/limit machinery.
func handleHierarchyDump(s *Session, args []wire.Value) ([]wire.Value, error) {
	all := s.Hierarchy.AllIDs()
	out := make([]wire.Value, 0, len(all))
	for _, id := range all {
		out = append(out, wire.Value{Kind: wire.KindString, Str: id.String()})
	}
	return out, nil
}
