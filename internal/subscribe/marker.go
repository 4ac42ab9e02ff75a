// Package subscribe implements change subscriptions (§4.9, C9): markers
// registered per node or per subtree, precheck/defer/dispatch around
// each mutation.
package subscribe

import (
	"github.com/google/uuid"

	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
)

// SubscriptionID is the 32-byte opaque subscription identifier (§4.9).
// The first 16 bytes are a random UUIDv4; the remainder is reserved.
type SubscriptionID [32]byte

// NewSubscriptionID mints a fresh random subscription id.
func NewSubscriptionID() SubscriptionID {
	var id SubscriptionID
	u := uuid.New()
	copy(id[:16], u[:])
	return id
}

func (id SubscriptionID) String() string {
	var u uuid.UUID
	copy(u[:], id[:16])
	return u.String()
}

// MarkerType is the subscription scope a marker covers.
type MarkerType uint8

const (
	// TypeNode matches exactly one node.
	TypeNode MarkerType = iota
	// TypeSubtreeAncestors matches the node and all its ancestors.
	TypeSubtreeAncestors
	// TypeSubtreeDescendants matches the node and all its descendants.
	TypeSubtreeDescendants
)

// Marker is one registered (subscription_id, type) pair anchored at a
// node (§4.9 "Markers are registered per node or per subtree").
type Marker struct {
	ID     SubscriptionID
	Type   MarkerType
	NodeID ids.NodeId
	// Fields restricts field-change matching to these names; empty means
	// any field (and triggers always match regardless of Fields).
	Fields []string
}

func (m *Marker) fieldMatches(field string) bool {
	if len(m.Fields) == 0 {
		return true
	}
	for _, f := range m.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// covers reports whether m's scope covers target, given h for subtree
// resolution. Parents/children fields never publish field-change events
// directly (§4.9); the hierarchy layer calls Precheck with the subtree
// root instead, so this only needs to resolve the marker's own anchor.
func (m *Marker) covers(h *hierarchy.Hierarchy, target ids.NodeId) bool {
	if m.NodeID == target {
		return true
	}
	switch m.Type {
	case TypeSubtreeDescendants:
		for _, id := range h.FindDescendants(m.NodeID) {
			if id == target {
				return true
			}
		}
	case TypeSubtreeAncestors:
		for _, id := range h.FindAncestors(m.NodeID) {
			if id == target {
				return true
			}
		}
	}
	return false
}
