package edge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
)

func setup() (*hierarchy.Hierarchy, *Store, ids.NodeId, ids.NodeId) {
	h := hierarchy.New()
	a, b := ids.New("A"), ids.New("B")
	h.Add(a, nil, nil, true)
	h.Add(b, nil, nil, true)
	s := NewStore(h)
	return h, s, a, b
}

func TestBidirectionalPairing(t *testing.T) {
	_, s, a, b := setup()
	s.Register(Constraint{Name: "friends", Multi: true, Reverse: "friendsOf"})

	require.NoError(t, s.AddEdge(a, "friends", b))
	assert.True(t, s.Has(a, "friends", b))
	assert.True(t, s.Has(b, "friendsOf", a))
}

func TestSingleValuedRejectsSecond(t *testing.T) {
	h, s, a, b := setup()
	s.Register(Constraint{Name: "parent", Multi: false})
	c := ids.New("C")
	h.Add(c, nil, nil, true)

	require.NoError(t, s.AddEdge(a, "parent", b))
	err := s.AddEdge(a, "parent", c)
	assert.ErrorIs(t, err, ErrSingleFieldFull)
}

func TestEdgeMetadata(t *testing.T) {
	_, s, a, b := setup()
	s.Register(Constraint{Name: "likes", Multi: true})
	require.NoError(t, s.AddEdge(a, "likes", b))

	meta, err := s.GetEdgeMetadata(a, "likes", b, true)
	require.NoError(t, err)
	require.NoError(t, meta.SetLong("weight", 5))

	meta2, err := s.GetEdgeMetadata(a, "likes", b, false)
	require.NoError(t, err)
	v, err := meta2.GetLong("weight")
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
}

func TestDelEdgeRemovesReverse(t *testing.T) {
	_, s, a, b := setup()
	s.Register(Constraint{Name: "friends", Multi: true, Reverse: "friendsOf"})
	require.NoError(t, s.AddEdge(a, "friends", b))
	require.NoError(t, s.DelEdge(a, "friends", b))
	assert.False(t, s.Has(a, "friends", b))
	assert.False(t, s.Has(b, "friendsOf", a))
}
