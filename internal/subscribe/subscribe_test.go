package subscribe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
)

type capturePublisher struct {
	batches [][]Event
}

func (c *capturePublisher) Publish(_ context.Context, events []Event) error {
	c.batches = append(c.batches, events)
	return nil
}

func TestNodeMarkerFieldChangeDispatch(t *testing.T) {
	h := hierarchy.New()
	n := ids.New("n")
	h.Add(n, nil, nil, true)

	pub := &capturePublisher{}
	s := NewStore(h, pub, nil)
	sub := NewSubscriptionID()
	s.Register(&Marker{ID: sub, Type: TypeNode, NodeID: n, Fields: []string{"score"}})

	pre := s.Precheck(n)
	require.Len(t, pre, 1)
	s.DeferFieldChangeEvents(pre, n, "score", time.Unix(0, 0))

	require.NoError(t, s.DispatchDeferred(context.Background()))
	require.Len(t, pub.batches, 1)
	assert.Equal(t, sub, pub.batches[0][0].Subscription)
}

func TestFieldFilterExcludesNonMatchingField(t *testing.T) {
	h := hierarchy.New()
	n := ids.New("n")
	h.Add(n, nil, nil, true)

	pub := &capturePublisher{}
	s := NewStore(h, pub, nil)
	s.Register(&Marker{ID: NewSubscriptionID(), Type: TypeNode, NodeID: n, Fields: []string{"other"}})

	pre := s.Precheck(n)
	s.DeferFieldChangeEvents(pre, n, "score", time.Unix(0, 0))
	require.NoError(t, s.DispatchDeferred(context.Background()))
	assert.Empty(t, pub.batches)
}

func TestSubtreeDescendantMarkerCoversChild(t *testing.T) {
	h := hierarchy.New()
	root := ids.New("root")
	child := ids.New("child")
	h.Add(root, nil, nil, true)
	h.Add(child, []ids.NodeId{root}, nil, true)

	pub := &capturePublisher{}
	s := NewStore(h, pub, nil)
	sub := NewSubscriptionID()
	s.Register(&Marker{ID: sub, Type: TypeSubtreeDescendants, NodeID: root})

	pre := s.Precheck(child)
	require.Len(t, pre, 1)
	assert.Equal(t, sub, pre[0].ID)
}

func TestDedupCollapsesRepeatedEventsPerSubscription(t *testing.T) {
	h := hierarchy.New()
	n := ids.New("n")
	h.Add(n, nil, nil, true)

	pub := &capturePublisher{}
	s := NewStore(h, pub, nil)
	sub := NewSubscriptionID()
	s.Register(&Marker{ID: sub, Type: TypeNode, NodeID: n})

	pre := s.Precheck(n)
	s.DeferFieldChangeEvents(pre, n, "a", time.Unix(0, 0))
	s.DeferFieldChangeEvents(pre, n, "a", time.Unix(1, 0))
	require.NoError(t, s.DispatchDeferred(context.Background()))
	require.Len(t, pub.batches, 1)
	assert.Len(t, pub.batches[0], 1, "repeated field-change for the same field should collapse to one event")
}

func TestUnregisterRemovesMarkers(t *testing.T) {
	h := hierarchy.New()
	n := ids.New("n")
	h.Add(n, nil, nil, true)

	s := NewStore(h, nil, nil)
	sub := NewSubscriptionID()
	s.Register(&Marker{ID: sub, Type: TypeNode, NodeID: n})
	require.Len(t, s.Precheck(n), 1)

	s.Unregister(sub)
	assert.Empty(t, s.Precheck(n))
}
