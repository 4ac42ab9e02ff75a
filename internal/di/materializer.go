package di

import (
	"graphdb/internal/edge"
	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
	"graphdb/internal/query"
	"graphdb/internal/rpn"
)

// NewMaterializer builds the closure index.Store uses to promote a
// cold IndexHint into a concrete, ordered node set: it replays the hint
// as a one-shot query.Walk, compiling FilterSrc when present, rather
// than keeping a second traversal implementation for the indexer.
func NewMaterializer(h *hierarchy.Hierarchy, edges *edge.Store) func(hint query.IndexHint) ([]ids.NodeId, bool) {
	return func(hint query.IndexHint) ([]ids.NodeId, bool) {
		p := &query.Params{
			Mode:   hint.Mode,
			Field:  hint.Field,
			Seeds:  []ids.NodeId{hint.StartID},
			Offset: 0,
			Limit:  -1,
		}
		if hint.OrderField != "" {
			p.Order = query.Order{Field: hint.OrderField}
		}
		if hint.FilterSrc != "" {
			expr, err := rpn.Compile(hint.FilterSrc)
			if err == nil {
				p.Filter = expr
			}
		}

		var out []ids.NodeId
		query.Walk(h, edges, hint.StartID, p, func(id ids.NodeId) bool {
			ok, err := query.ApplyFilter(h, id, p.Filter, nil)
			if err == nil && ok {
				out = append(out, id)
			}
			return true
		})
		return out, hint.OrderField != ""
	}
}
