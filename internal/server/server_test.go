package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphdb/internal/edge"
	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
	"graphdb/internal/index"
	"graphdb/internal/modify"
	"graphdb/internal/query"
	"graphdb/internal/subscribe"
	"graphdb/internal/wire"
)

func newTestSession() *Session {
	h := hierarchy.New()
	es := edge.NewStore(h)
	subs := subscribe.NewStore(h, nil, nil)
	idx := index.NewStore(64, 0.5, func(hint query.IndexHint) ([]ids.NodeId, bool) { return nil, false }, nil)
	mod := modify.NewExecutor(h, es, subs, nil)
	q := &query.Engine{H: h, Edges: es, Index: idx}
	return NewSession(h, es, subs, idx, mod, q)
}

func strVal(s string) wire.Value { return wire.Value{Kind: wire.KindString, Str: s} }
func longVal(v int64) wire.Value { return wire.Value{Kind: wire.KindLong, Long: v} }

func TestStreamPoolAllocAndRelease(t *testing.T) {
	p := NewStreamPool()
	assert.True(t, p.AllFree())
	i, err := p.Alloc()
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	assert.False(t, p.AllFree())
	assert.Equal(t, 1, p.InUse())
	p.Release(i)
	assert.True(t, p.AllFree())
}

func TestStreamPoolExhaustion(t *testing.T) {
	p := NewStreamPool()
	for i := 0; i < MaxStreams; i++ {
		_, err := p.Alloc()
		require.NoError(t, err)
	}
	_, err := p.Alloc()
	assert.ErrorIs(t, err, ErrStreamsExhausted)
}

func TestRegistryDispatchPing(t *testing.T) {
	r := NewDefaultRegistry()
	s := newTestSession()
	out, err := r.Dispatch(s, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "pong", out[0].Str)
}

func TestRegistryDispatchUnknownCommand(t *testing.T) {
	r := NewDefaultRegistry()
	s := newTestSession()
	_, err := r.Dispatch(s, 255, nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRegistryListSortedByID(t *testing.T) {
	r := NewDefaultRegistry()
	list := r.List()
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestHierarchyAddAndChildren(t *testing.T) {
	r := NewDefaultRegistry()
	s := newTestSession()

	_, err := r.Dispatch(s, 10, []wire.Value{strVal("k2"), strVal("k1")})
	require.NoError(t, err)

	out, err := r.Dispatch(s, 13, []wire.Value{strVal("k1")})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, ids.New("k2").String(), out[0].Str)
}

func TestHierarchyDelCascades(t *testing.T) {
	r := NewDefaultRegistry()
	s := newTestSession()
	_, err := r.Dispatch(s, 10, []wire.Value{strVal("b"), strVal("a")})
	require.NoError(t, err)
	_, err = r.Dispatch(s, 10, []wire.Value{strVal("c"), strVal("b")})
	require.NoError(t, err)

	out, err := r.Dispatch(s, 11, []wire.Value{strVal("a")})
	require.NoError(t, err)
	assert.Equal(t, int64(3), out[0].Long)
}

func TestModifyCommandCreatesNodeWithField(t *testing.T) {
	r := NewDefaultRegistry()
	s := newTestSession()
	out, err := r.Dispatch(s, 20, []wire.Value{
		strVal("n1"), strVal(""),
		longVal(int64(modify.CodeSetString)), strVal("title"), strVal("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, ids.New("n1").String(), out[0].Str)
	assert.Equal(t, int64(1), out[1].Long) // created
	assert.Equal(t, "UPDATED", out[2].Str)
}

func TestObjectSetGetRoundTrip(t *testing.T) {
	r := NewDefaultRegistry()
	s := newTestSession()
	_, err := r.Dispatch(s, 42, []wire.Value{strVal("n1"), strVal("title"), strVal("hi")})
	require.NoError(t, err)

	out, err := r.Dispatch(s, 41, []wire.Value{strVal("n1"), strVal("title")})
	require.NoError(t, err)
	assert.Equal(t, "hi", out[0].Str)
}

func TestEvalBoolAgainstNodeField(t *testing.T) {
	r := NewDefaultRegistry()
	s := newTestSession()
	_, err := r.Dispatch(s, 42, []wire.Value{strVal("n1"), strVal("score"), longVal(5)})
	require.NoError(t, err)

	out, err := r.Dispatch(s, 30, []wire.Value{strVal("n1"), strVal("@score 3 >")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out[0].Long)
}
