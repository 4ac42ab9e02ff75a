package hierarchy

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphdb/internal/ids"
)

func TestAddDefaultsToRoot(t *testing.T) {
	h := New()
	k1 := ids.New("K1")
	h.Add(k1, nil, nil, false)
	n, ok := h.Find(k1)
	require.True(t, ok)
	assert.True(t, n.Parents.Has(ids.Root))
}

func TestAddChildrenThenQuery(t *testing.T) {
	h := New()
	k1 := ids.New("K1")
	k2 := ids.New("K2")
	h.Add(k1, nil, nil, false)
	h.Add(k2, []ids.NodeId{k1}, nil, false)

	n1, _ := h.Find(k1)
	assert.True(t, n1.Children.Has(k2))
	n2, _ := h.Find(k2)
	assert.True(t, n2.Parents.Has(k1))

	heads := h.GetHeads()
	for _, hid := range heads {
		assert.NotEqual(t, k1, hid)
	}
}

func TestCascadeDelete(t *testing.T) {
	h := New()
	a, b, c, d := ids.New("A"), ids.New("B"), ids.New("C"), ids.New("D")
	h.Add(a, nil, []ids.NodeId{b}, true)
	h.Add(b, nil, []ids.NodeId{c, d}, true)

	var destroyed []ids.NodeId
	h.DelNode(a, func(id ids.NodeId) { destroyed = append(destroyed, id) })

	for _, id := range []ids.NodeId{a, b, c, d} {
		_, ok := h.Find(id)
		assert.False(t, ok, "%s should be gone", id)
	}
	sort.Slice(destroyed, func(i, j int) bool { return destroyed[i].Less(destroyed[j]) })
	assert.Len(t, destroyed, 4)
}

func TestCascadeDeleteSurvivesMultiParent(t *testing.T) {
	h := New()
	a, b, shared := ids.New("A"), ids.New("B"), ids.New("SHARED")
	h.Add(a, nil, []ids.NodeId{shared}, true)
	h.Add(b, nil, []ids.NodeId{shared}, true)

	h.DelNode(a, nil)

	n, ok := h.Find(shared)
	require.True(t, ok, "shared child with another parent must survive")
	assert.True(t, n.Parents.Has(b))
}

func TestDelNodeTwiceNotFound(t *testing.T) {
	h := New()
	a := ids.New("A")
	h.Add(a, nil, nil, true)
	assert.True(t, h.DelNode(a, nil))
	assert.False(t, h.DelNode(a, nil))
}

func TestBFSDescendantsSkipsSelf(t *testing.T) {
	h := New()
	a, b, c := ids.New("A"), ids.New("B"), ids.New("C")
	h.Add(a, nil, []ids.NodeId{b}, true)
	h.Add(b, nil, []ids.NodeId{c}, true)

	var visitedOrder []ids.NodeId
	h.Traverse(a, ModeBFSDescendants, nil, Callbacks{
		NodeCB: func(id ids.NodeId) bool {
			visitedOrder = append(visitedOrder, id)
			return false
		},
	})
	assert.Equal(t, []ids.NodeId{b, c}, visitedOrder)
}

func TestSetClearsExistingLinks(t *testing.T) {
	h := New()
	a, b, c := ids.New("A"), ids.New("B"), ids.New("C")
	h.Add(a, nil, []ids.NodeId{b}, true)
	h.Set(a, nil, []ids.NodeId{c}, true)

	n, _ := h.Find(a)
	assert.False(t, n.Children.Has(b))
	assert.True(t, n.Children.Has(c))
}
