package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphdb/internal/ids"
	"graphdb/internal/query"
)

func TestColdMissUntilAdmitted(t *testing.T) {
	n1, n2 := ids.New("n1"), ids.New("n2")
	mat := func(h query.IndexHint) ([]ids.NodeId, bool) { return []ids.NodeId{n1, n2}, false }
	s := NewStore(10, 0.5, mat, nil)

	hint := query.IndexHint{Mode: query.ModeBFSDescendants, StartID: ids.New("root")}

	_, _, ok := s.Lookup(hint)
	assert.False(t, ok, "first lookup is cold, below threshold with hits=1/total=0")

	set, _, ok := s.Lookup(hint)
	require.True(t, ok)
	assert.ElementsMatch(t, []ids.NodeId{n1, n2}, set)
}

func TestEvictsLowestScoreWhenOverCapacity(t *testing.T) {
	mat := func(h query.IndexHint) ([]ids.NodeId, bool) { return []ids.NodeId{ids.New("x")}, false }
	s := NewStore(1, 0, mat, nil)

	h1 := query.IndexHint{StartID: ids.New("a")}
	h2 := query.IndexHint{StartID: ids.New("b")}

	_, _, _ = s.Lookup(h1)
	assert.LessOrEqual(t, s.Len(), 1)
	_, _, _ = s.Lookup(h2)
	assert.LessOrEqual(t, s.Len(), 1)
}

func TestInvalidateNodeTriggersRematerialization(t *testing.T) {
	target := ids.New("target")
	calls := 0
	mat := func(h query.IndexHint) ([]ids.NodeId, bool) {
		calls++
		if calls == 1 {
			return []ids.NodeId{target}, false
		}
		return nil, false // target was deleted by the time of re-evaluation
	}
	s := NewStore(10, 0, mat, nil)
	hint := query.IndexHint{StartID: ids.New("root")}

	set, _, ok := s.Lookup(hint)
	require.True(t, ok)
	require.Contains(t, set, target)

	s.InvalidateNode(target)
	set, _, ok = s.Lookup(hint)
	require.True(t, ok)
	assert.Equal(t, 2, calls, "invalidation must force the materializer to re-run")
	assert.NotContains(t, set, target, "re-evaluation must not return a deleted node")
}

func TestMaxIndicesZeroDisablesIndexing(t *testing.T) {
	mat := func(h query.IndexHint) ([]ids.NodeId, bool) { return []ids.NodeId{ids.New("x")}, false }
	s := NewStore(0, 0, mat, nil)
	_, _, ok := s.Lookup(query.IndexHint{})
	assert.False(t, ok)
}
