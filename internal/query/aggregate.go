package query

import (
	"errors"

	"graphdb/internal/ids"
)

// Reducer is one of the aggregate functions supplemented from
// find.c/aggregate.c (not present in the distilled spec's find/findIn
// description, but part of the original's command surface).
type Reducer uint8

const (
	ReduceCount Reducer = iota
	ReduceSum
	ReduceAvg
	ReduceMin
	ReduceMax
)

var ErrAggregateFieldNotNumeric = errors.New("query: aggregate field is not numeric")

// AggregateResult is the scalar produced by one reducer over one
// field across the matched set.
type AggregateResult struct {
	Reducer Reducer
	Field   string
	Value   float64
	Count   int
}

// Aggregate runs p the same way Find does (same seeds, filter, traversal,
// offset/limit selection of the matched set) but reduces the chosen
// field across matches instead of emitting a reply tree. p.Order is not
// applied: offset and limit count matches in traversal order.
func (e *Engine) Aggregate(p Params, field string, reducer Reducer) (AggregateResult, error) {
	res := AggregateResult{Reducer: reducer, Field: field}
	var values []float64

	offset := p.Offset
	taken := 0
	for _, seed := range p.Seeds {
		matched, _ := e.matchedSetForSeed(seed, &p)
		consume := func(id ids.NodeId) bool {
			ok, err := ApplyFilter(e.H, id, p.Filter, p.Registers)
			if err != nil || !ok {
				return true
			}
			if offset > 0 {
				offset--
				return true
			}
			if p.Limit >= 0 && taken >= p.Limit {
				return false
			}
			n, ok := e.H.Find(id)
			if ok {
				k := keyFor(e.H, n.ID, field, nil)
				if k.hasNum {
					values = append(values, k.num)
				}
			}
			taken++
			return p.Limit < 0 || taken < p.Limit
		}
		if matched != nil {
			for _, id := range matched {
				if !consume(id) {
					break
				}
			}
		} else {
			Walk(e.H, e.Edges, seed, &p, consume)
		}
	}

	res.Count = len(values)
	switch reducer {
	case ReduceCount:
		res.Value = float64(res.Count)
	case ReduceSum, ReduceAvg:
		var sum float64
		for _, v := range values {
			sum += v
		}
		res.Value = sum
		if reducer == ReduceAvg && res.Count > 0 {
			res.Value = sum / float64(res.Count)
		}
	case ReduceMin:
		if res.Count == 0 {
			return res, ErrAggregateFieldNotNumeric
		}
		res.Value = values[0]
		for _, v := range values[1:] {
			if v < res.Value {
				res.Value = v
			}
		}
	case ReduceMax:
		if res.Count == 0 {
			return res, ErrAggregateFieldNotNumeric
		}
		res.Value = values[0]
		for _, v := range values[1:] {
			if v > res.Value {
				res.Value = v
			}
		}
	}
	return res, nil
}
