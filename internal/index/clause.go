// Package index implements the auto-index control-block cache (§4.8,
// C8): admission by hit rate, score-based eviction, and lazy staleness
// invalidation on hierarchy mutation.
package index

import (
	"strconv"

	"graphdb/internal/ids"
	"graphdb/internal/query"
)

// clauseKey renders an IndexHint's identity tuple — (mode, field/expr,
// start-node-id, order-key, filter source) — to a stable map key.
func clauseKey(h query.IndexHint) string {
	var b []byte
	b = strconv.AppendInt(b, int64(h.Mode), 10)
	b = append(b, '|')
	b = append(b, h.Field...)
	b = append(b, '|')
	b = append(b, h.StartID.Bytes()...)
	b = append(b, '|')
	b = append(b, h.OrderField...)
	b = append(b, '|')
	b = append(b, h.FilterSrc...)
	return string(b)
}

// State is a control block's materialization lifecycle.
type State uint8

const (
	StateCold State = iota
	StateBuilding
	StateReady
	StateEvicting
)

func (s State) String() string {
	switch s {
	case StateCold:
		return "cold"
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	case StateEvicting:
		return "evicting"
	default:
		return "unknown"
	}
}

// controlBlock tracks one clause's caching state (§4.8 "Design").
type controlBlock struct {
	hint  query.IndexHint
	state State

	hits        int
	takenAccum  int
	totalAccum  int
	lastAccessU int64 // unix nanos; avoids importing time into the hot path type

	set     []ids.NodeId
	members map[ids.NodeId]struct{}
	ordered bool
}

func newControlBlock(hint query.IndexHint) *controlBlock {
	return &controlBlock{hint: hint, state: StateCold}
}

// hitRate is the fraction of accesses after the first that re-hit this
// same clause key — a simple monotonic proxy for "hit rate exceeds a
// configured threshold" (§4.8 admission rule); a real deployment would
// use a decaying window instead of a lifetime ratio.
func (cb *controlBlock) hitRate() float64 {
	if cb.hits <= 1 {
		return 0
	}
	return float64(cb.hits-1) / float64(cb.hits)
}

// selectivity is total/taken, used by the eviction score.
func (cb *controlBlock) selectivity() float64 {
	if cb.takenAccum == 0 {
		return float64(cb.totalAccum + 1)
	}
	return float64(cb.totalAccum) / float64(cb.takenAccum)
}

func (cb *controlBlock) score() float64 {
	return cb.hitRate() * cb.selectivity()
}
