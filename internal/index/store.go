package index

import (
	"sync"
	"time"

	"graphdb/internal/ids"
	"graphdb/internal/query"
)

// Materializer computes the full matched set for a clause when it is
// promoted from cold to building. The index package has no traversal
// logic of its own — it is handed one by whoever wires C7 and C8
// together (di.NewMaterializer builds it).
type Materializer func(hint query.IndexHint) (set []ids.NodeId, ordered bool)

// Store is the process-wide auto-index. It implements
// query.IndexProvider.
type Store struct {
	mu sync.Mutex

	blocks map[string]*controlBlock

	maxIndices     int
	admitThreshold float64

	materialize Materializer
	metrics     *Metrics
}

// NewStore builds an auto-index store. maxIndices == 0 disables
// indexing entirely (§4.8): Lookup then always misses.
func NewStore(maxIndices int, admitThreshold float64, materialize Materializer, metrics *Metrics) *Store {
	return &Store{
		blocks:         make(map[string]*controlBlock),
		maxIndices:     maxIndices,
		admitThreshold: admitThreshold,
		materialize:    materialize,
		metrics:        metrics,
	}
}

// Lookup implements query.IndexProvider. A cold clause accrues a hit
// and is promoted (materialized) once its hit rate crosses the
// admission threshold; only a ready block is actually served.
func (s *Store) Lookup(hint query.IndexHint) ([]ids.NodeId, bool, bool) {
	if s.maxIndices == 0 {
		return nil, false, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := clauseKey(hint)
	cb, ok := s.blocks[key]
	if !ok {
		cb = newControlBlock(hint)
		s.blocks[key] = cb
		s.evictIfNeededLocked()
	}
	cb.hits++
	cb.lastAccessU = time.Now().UnixNano()

	switch cb.state {
	case StateCold:
		if cb.hitRate() >= s.admitThreshold {
			s.admitLocked(cb)
		} else {
			s.recordMiss()
			return nil, false, false
		}
	case StateBuilding, StateEvicting:
		s.recordMiss()
		return nil, false, false
	}

	if cb.state != StateReady {
		s.recordMiss()
		return nil, false, false
	}
	s.recordHit()
	return cb.set, cb.ordered, true
}

func (s *Store) admitLocked(cb *controlBlock) {
	cb.state = StateBuilding
	if s.materialize == nil {
		cb.state = StateCold
		return
	}
	set, ordered := s.materialize(cb.hint)
	cb.set = set
	cb.ordered = ordered
	cb.members = make(map[ids.NodeId]struct{}, len(set))
	for _, id := range set {
		cb.members[id] = struct{}{}
	}
	cb.state = StateReady
	if s.metrics != nil {
		s.metrics.Admissions.Inc()
		s.metrics.Cardinality.WithLabelValues(clauseKey(cb.hint)).Set(float64(len(set)))
		s.metrics.LiveIndices.Set(float64(len(s.blocks)))
	}
}

func (s *Store) recordHit() {
	if s.metrics != nil {
		s.metrics.HitsTotal.Inc()
	}
}

func (s *Store) recordMiss() {
	if s.metrics != nil {
		s.metrics.MissesTotal.Inc()
	}
}

// Account implements query.IndexProvider: whichever hint Find chose
// accumulates (taken, total); others accumulate (0, total) — callers
// not wired to the chosen-hint path should call Account with taken=0.
func (s *Store) Account(hint query.IndexHint, taken, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := clauseKey(hint)
	cb, ok := s.blocks[key]
	if !ok {
		cb = newControlBlock(hint)
		s.blocks[key] = cb
	}
	cb.takenAccum += taken
	cb.totalAccum += total
}

// evictIfNeededLocked evicts the ready block with the lowest score —
// recent-hit-rate × selectivity — when the live count exceeds
// maxIndices (§4.8 "Eviction"). Caller must hold s.mu.
func (s *Store) evictIfNeededLocked() {
	if len(s.blocks) <= s.maxIndices {
		return
	}
	var worstKey string
	var worst *controlBlock
	for k, cb := range s.blocks {
		if cb.state != StateReady {
			continue
		}
		if worst == nil || cb.score() < worst.score() {
			worst, worstKey = cb, k
		}
	}
	if worst == nil {
		return
	}
	worst.state = StateEvicting
	delete(s.blocks, worstKey)
	if s.metrics != nil {
		s.metrics.Evictions.Inc()
		s.metrics.LiveIndices.Set(float64(len(s.blocks)))
	}
}

// InvalidateNode marks stale every control block whose materialized set
// or start node references id (§4.8 "Consistency": mutation marks
// dependent indices stale for lazy re-evaluation; a stale block goes
// back to cold and is not served again until Lookup re-materializes it
// once its hit rate meets the threshold).
func (s *Store) InvalidateNode(id ids.NodeId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cb := range s.blocks {
		if cb.hint.StartID == id {
			cb.state = StateCold
			cb.set = nil
			cb.members = nil
			continue
		}
		if cb.members != nil {
			if _, ok := cb.members[id]; ok {
				cb.state = StateCold
				cb.set = nil
				cb.members = nil
			}
		}
	}
}

// Len reports the current number of live control blocks (for tests and
// the admin HTTP surface).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blocks)
}
