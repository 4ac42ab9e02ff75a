package query

import (
	"errors"

	"graphdb/internal/edge"
	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
	"graphdb/internal/object"
	"graphdb/internal/rpn"
)

var (
	// ErrNegativeOffsetWithoutOrder is returned when offset == -1 is
	// requested with no order set (§9 edge case: "offset=-1 with order
	// means 'return last'; with no order is an error").
	ErrNegativeOffsetWithoutOrder = errors.New("query: offset -1 requires an order")
)

// IndexProvider is implemented by the auto-index (C8). Find consults it
// per hint and picks the smallest materialized set, recording
// (taken, total) accounting that drives admission/eviction.
type IndexProvider interface {
	Lookup(hint IndexHint) (set []ids.NodeId, ordered bool, ok bool)
	Account(hint IndexHint, taken, total int)
}

// Engine binds the stores Find needs: the hierarchy, the edge-field
// store, and (optionally) an auto-index.
type Engine struct {
	H     *hierarchy.Hierarchy
	Edges *edge.Store
	Index IndexProvider
}

// ApplyFilter evaluates expr (nil always passes) against id's node,
// exported so callers outside Engine.Find — the indexer's materializer
// chief among them — apply the same per-node filter semantics instead
// of duplicating rpn.EvalBool plumbing.
func ApplyFilter(h *hierarchy.Hierarchy, id ids.NodeId, expr *rpn.Expression, regs map[int][]byte) (bool, error) {
	if expr == nil {
		return true, nil
	}
	n, ok := h.Find(id)
	if !ok {
		return false, nil
	}
	ctx := rpn.NewContext()
	ctx.SetHierarchyNode(h, n)
	ctx.SetObj(n.Fields)
	for i, b := range regs {
		if err := ctx.SetReg(i, b, false); err != nil {
			return false, err
		}
	}
	return rpn.EvalBool(ctx, expr)
}

// Find runs one find/findIn request across p.Seeds and writes results to
// sink (§4.7 steps 2-4).
func (e *Engine) Find(p Params, sink object.ReplySink, lang []string, flags object.ReplyFlag) error {
	if p.Offset == -1 && p.Order.Field == "" {
		return ErrNegativeOffsetWithoutOrder
	}

	ordered := p.Order.Field != ""
	var buffered []ids.NodeId
	em := newEmitter(sink, lang, flags, &p)

	offset := p.Offset
	taken := 0

	for _, seed := range p.Seeds {
		matched, usedHint := e.matchedSetForSeed(seed, &p)

		consume := func(id ids.NodeId) bool {
			ok, err := ApplyFilter(e.H, id, p.Filter, p.Registers)
			if err != nil || !ok {
				return true
			}
			if ordered {
				buffered = append(buffered, id)
				return true
			}
			if offset > 0 {
				offset--
				return true
			}
			if p.Limit >= 0 && taken >= p.Limit {
				return false
			}
			em.EmitNode(e.H, id)
			taken++
			return p.Limit < 0 || taken < p.Limit
		}

		total := 0
		if matched != nil {
			for _, id := range matched {
				total++
				if !consume(id) {
					break
				}
			}
		} else {
			Walk(e.H, e.Edges, seed, &p, consume)
		}
		if usedHint != nil && e.Index != nil {
			e.Index.Account(*usedHint, total, total)
		}
	}

	if ordered {
		sortHits(e.H, buffered, p.Order, lang)
		start := p.Offset
		if start == -1 {
			// "return last": take the final Limit entries (all of them
			// when Limit is unbounded).
			if p.Limit >= 0 && len(buffered)-p.Limit > 0 {
				start = len(buffered) - p.Limit
			} else {
				start = 0
			}
		}
		if start < 0 {
			start = 0
		}
		if start > len(buffered) {
			start = len(buffered)
		}
		end := len(buffered)
		if p.Limit >= 0 && start+p.Limit < end {
			end = start + p.Limit
		}
		for _, id := range buffered[start:end] {
			em.EmitNode(e.H, id)
		}
	}
	return nil
}

// matchedSetForSeed consults the auto-index for a seed when the
// request's hints make it eligible, returning the chosen hint (for
// later accounting) or nil when no index was used.
func (e *Engine) matchedSetForSeed(seed ids.NodeId, p *Params) ([]ids.NodeId, *IndexHint) {
	if e.Index == nil || len(p.Hints) == 0 {
		return nil, nil
	}
	var best []ids.NodeId
	var bestHint *IndexHint
	for i := range p.Hints {
		h := p.Hints[i]
		h.StartID = seed
		set, _, ok := e.Index.Lookup(h)
		if !ok {
			continue
		}
		if best == nil || len(set) < len(best) {
			best = set
			bestHint = &h
		}
	}
	return best, bestHint
}
