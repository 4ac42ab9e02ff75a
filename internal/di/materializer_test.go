package di_test

import (
	"testing"

	"graphdb/internal/di"
	"graphdb/internal/edge"
	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
	"graphdb/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializerReplaysHintThroughWalk(t *testing.T) {
	h := hierarchy.New()
	a, b, c := ids.New("a"), ids.New("b"), ids.New("c")
	h.Add(a, []ids.NodeId{ids.Root}, nil, true)
	h.Add(b, []ids.NodeId{a}, nil, true)
	h.Add(c, []ids.NodeId{a}, nil, true)

	materialize := di.NewMaterializer(h, edge.NewStore(h))

	set, ordered := materialize(query.IndexHint{
		Mode:    query.ModeBFSDescendants,
		StartID: a,
	})

	assert.False(t, ordered)
	assert.ElementsMatch(t, []ids.NodeId{b, c}, set)
}

func TestMaterializerCompilesFilterSrc(t *testing.T) {
	h := hierarchy.New()
	a, b, c := ids.New("a"), ids.New("b"), ids.New("c")
	h.Add(a, []ids.NodeId{ids.Root}, nil, true)
	h.Add(b, []ids.NodeId{a}, nil, true)
	h.Add(c, []ids.NodeId{a}, nil, true)

	nb, ok := h.Find(b)
	require.True(t, ok)
	require.NoError(t, nb.Fields.SetString("kind", "keep"))
	nc, ok := h.Find(c)
	require.True(t, ok)
	require.NoError(t, nc.Fields.SetString("kind", "drop"))

	materialize := di.NewMaterializer(h, edge.NewStore(h))

	set, _ := materialize(query.IndexHint{
		Mode:      query.ModeBFSDescendants,
		StartID:   a,
		FilterSrc: `@kind "keep" eq`,
	})

	assert.Equal(t, []ids.NodeId{b}, set)
}

func TestMaterializerOrderedWhenOrderFieldSet(t *testing.T) {
	h := hierarchy.New()
	a := ids.New("a")
	h.Add(a, []ids.NodeId{ids.Root}, nil, true)

	materialize := di.NewMaterializer(h, edge.NewStore(h))
	_, ordered := materialize(query.IndexHint{
		Mode:       query.ModeBFSDescendants,
		StartID:    a,
		OrderField: "rank",
	})

	assert.True(t, ordered)
}
