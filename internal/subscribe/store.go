package subscribe

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
)

// Store is the process-wide marker registry plus the pending-events
// buffer that backs precheck/defer/dispatch (§4.9).
type Store struct {
	mu sync.Mutex

	h       *hierarchy.Hierarchy
	markers map[ids.NodeId][]*Marker // keyed by the marker's own anchor node
	bySub   map[SubscriptionID][]*Marker

	pending map[string]Event // keyed by dedupKey, per-dispatch-cycle scratch

	publisher Publisher
	log       *zap.Logger
}

// NewStore binds a subscribe Store to a Hierarchy.
func NewStore(h *hierarchy.Hierarchy, publisher Publisher, log *zap.Logger) *Store {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		h:         h,
		markers:   make(map[ids.NodeId][]*Marker),
		bySub:     make(map[SubscriptionID][]*Marker),
		pending:   make(map[string]Event),
		publisher: publisher,
		log:       log,
	}
}

// Register installs a marker.
func (s *Store) Register(m *Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[m.NodeID] = append(s.markers[m.NodeID], m)
	s.bySub[m.ID] = append(s.bySub[m.ID], m)
}

// Unregister removes every marker for a subscription, e.g. on client
// disconnect.
func (s *Store) Unregister(sub SubscriptionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.bySub[sub] {
		ms := s.markers[m.NodeID]
		for i, cand := range ms {
			if cand == m {
				s.markers[m.NodeID] = append(ms[:i], ms[i+1:]...)
				break
			}
		}
	}
	delete(s.bySub, sub)
}

// Precheck captures which markers cover target before a mutation runs
// (§4.9 step 1). It must be called before the mutating operation.
func (s *Store) Precheck(target ids.NodeId) []*Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	var hit []*Marker
	for _, ms := range s.markers {
		for _, m := range ms {
			if m.covers(s.h, target) {
				hit = append(hit, m)
			}
		}
	}
	return hit
}

// DeferFieldChangeEvents records pending field-change events for every
// precheck-matched marker whose Fields filter accepts field (§4.9 step
// 3). Parents/children are never passed here directly — the hierarchy
// layer instead precheck/defers against the affected subtree root.
func (s *Store) DeferFieldChangeEvents(precheck []*Marker, node ids.NodeId, field string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range precheck {
		if !m.fieldMatches(field) {
			continue
		}
		e := Event{Subscription: m.ID, NodeID: node, Kind: EventFieldChange, Field: field, At: at}
		s.pending[e.dedupKey()] = e
	}
}

// DeferTriggerEvents records created/updated/deleted triggers for every
// precheck-matched marker (§4.9 step 4).
func (s *Store) DeferTriggerEvents(precheck []*Marker, node ids.NodeId, kind EventKind, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range precheck {
		e := Event{Subscription: m.ID, NodeID: node, Kind: kind, At: at}
		s.pending[e.dedupKey()] = e
	}
}

// DispatchDeferred publishes every pending event once, de-duplicated
// per subscription, and clears the pending buffer (§4.9 step 5). It is
// called at command completion.
func (s *Store) DispatchDeferred(ctx context.Context) error {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil
	}
	batch := make([]Event, 0, len(s.pending))
	for _, e := range s.pending {
		batch = append(batch, e)
	}
	s.pending = make(map[string]Event)
	s.mu.Unlock()

	if err := s.publisher.Publish(ctx, batch); err != nil {
		s.log.Error("failed to dispatch deferred subscription events", zap.Int("count", len(batch)), zap.Error(err))
		return err
	}
	s.log.Debug("dispatched deferred subscription events", zap.Int("count", len(batch)))
	return nil
}
