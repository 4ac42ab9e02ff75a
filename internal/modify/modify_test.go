package modify

import (
	"context"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphdb/internal/edge"
	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
	"graphdb/internal/subscribe"
)

func newExecutor() *Executor {
	h := hierarchy.New()
	es := edge.NewStore(h)
	subs := subscribe.NewStore(h, nil, nil)
	return NewExecutor(h, es, subs, nil)
}

func encodeDouble(v float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	return b
}

func encodeLong(v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return b
}

func encodeIncrementLong(def, delta int64) []byte {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint64(b[:8], uint64(def))
	binary.LittleEndian.PutUint64(b[8:], uint64(delta))
	return b
}

func encodeOpSet(adds, deletes, replaces []ids.NodeId) []byte {
	var out []byte
	for _, run := range [][]ids.NodeId{adds, deletes, replaces} {
		count := make([]byte, 4)
		binary.LittleEndian.PutUint32(count, uint32(len(run)))
		out = append(out, count...)
		for _, id := range run {
			out = append(out, id.Bytes()...)
		}
	}
	return out
}

func encodeAliasList(names ...string) []byte {
	var out []byte
	for _, n := range names {
		l := make([]byte, 4)
		binary.LittleEndian.PutUint32(l, uint32(len(n)))
		out = append(out, l...)
		out = append(out, []byte(n)...)
	}
	return out
}

func TestCreateNodeWithPlainSetTriplet(t *testing.T) {
	x := newExecutor()
	req := &Request{
		Key: "n1",
		Triplets: []Triplet{
			{TypeCode: CodeSetString, Field: "name", Value: []byte("hello")},
		},
	}
	res, err := x.Exec(context.Background(), req, time.Unix(0, 0))
	require.NoError(t, err)
	assert.True(t, res.Created)
	require.Len(t, res.Triplets, 1)
	assert.Equal(t, "UPDATED", res.Triplets[0].Reply)
	assert.Equal(t, StateUpdated, res.Triplets[0].State)
	assert.True(t, res.ReplicationBitmap[0])

	node, ok := x.H.Find(ids.New("n1"))
	require.True(t, ok)
	v, err := node.Fields.GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
	assert.True(t, node.Parents.Has(ids.Root), "implicit ROOT parent expected without N flag")
}

func TestRepeatedSetSameValueReportsOK(t *testing.T) {
	x := newExecutor()
	req := &Request{
		Key:      "n1",
		Triplets: []Triplet{{TypeCode: CodeSetString, Field: "name", Value: []byte("hello")}},
	}
	_, err := x.Exec(context.Background(), req, time.Unix(0, 0))
	require.NoError(t, err)

	res, err := x.Exec(context.Background(), req, time.Unix(1, 0))
	require.NoError(t, err)
	assert.Equal(t, "OK", res.Triplets[0].Reply)
	assert.Equal(t, StateUnchanged, res.Triplets[0].State)
	assert.False(t, res.ReplicationBitmap[0])
}

func TestFailIfExistsReturnsNull(t *testing.T) {
	x := newExecutor()
	req := &Request{Key: "n1", Triplets: []Triplet{{TypeCode: CodeSetString, Field: "name", Value: []byte("a")}}}
	_, err := x.Exec(context.Background(), req, time.Unix(0, 0))
	require.NoError(t, err)

	req.Flags = Flags{FailIfExists: true}
	res, err := x.Exec(context.Background(), req, time.Unix(1, 0))
	require.NoError(t, err)
	assert.True(t, res.Null)
}

func TestFailIfMissingReturnsNull(t *testing.T) {
	x := newExecutor()
	req := &Request{
		Key:      "ghost",
		Flags:    Flags{FailIfMissing: true},
		Triplets: []Triplet{{TypeCode: CodeSetString, Field: "name", Value: []byte("a")}},
	}
	res, err := x.Exec(context.Background(), req, time.Unix(0, 0))
	require.NoError(t, err)
	assert.True(t, res.Null)
	_, ok := x.H.Find(ids.New("ghost"))
	assert.False(t, ok, "node must not be created when U short-circuits")
}

func TestNoRootParentFlagSuppressesImplicitRoot(t *testing.T) {
	x := newExecutor()
	req := &Request{
		Key:      "n1",
		Flags:    Flags{NoRootParent: true},
		Triplets: []Triplet{{TypeCode: CodeSetString, Field: "name", Value: []byte("a")}},
	}
	_, err := x.Exec(context.Background(), req, time.Unix(0, 0))
	require.NoError(t, err)
	node, ok := x.H.Find(ids.New("n1"))
	require.True(t, ok)
	assert.Equal(t, 0, node.Parents.Len())
}

func TestClearFirstWipesExistingFields(t *testing.T) {
	x := newExecutor()
	req := &Request{Key: "n1", Triplets: []Triplet{{TypeCode: CodeSetString, Field: "name", Value: []byte("a")}}}
	_, err := x.Exec(context.Background(), req, time.Unix(0, 0))
	require.NoError(t, err)

	req2 := &Request{
		Key:      "n1",
		Flags:    Flags{ClearFirst: true},
		Triplets: []Triplet{{TypeCode: CodeSetString, Field: "other", Value: []byte("b")}},
	}
	_, err = x.Exec(context.Background(), req2, time.Unix(1, 0))
	require.NoError(t, err)

	node, _ := x.H.Find(ids.New("n1"))
	assert.False(t, node.Fields.Exists("name"))
	assert.True(t, node.Fields.Exists("other"))
}

func TestIncrementLongAlwaysReplicatesRegardlessOfChange(t *testing.T) {
	x := newExecutor()
	req := &Request{
		Key:      "n1",
		Triplets: []Triplet{{TypeCode: CodeIncrementLong, Field: "counter", Value: encodeIncrementLong(0, 0)}},
	}
	res, err := x.Exec(context.Background(), req, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, StateReplicate, res.Triplets[0].State)
	assert.True(t, res.ReplicationBitmap[0])

	node, _ := x.H.Find(ids.New("n1"))
	v, err := node.Fields.GetLong("counter")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)
}

func TestSetOpAddThenDelete(t *testing.T) {
	x := newExecutor()
	a, b := ids.New("a"), ids.New("b")
	req := &Request{
		Key:      "n1",
		Triplets: []Triplet{{TypeCode: CodeSetOp, Field: "tags", Value: encodeOpSet([]ids.NodeId{a, b}, nil, nil)}},
	}
	_, err := x.Exec(context.Background(), req, time.Unix(0, 0))
	require.NoError(t, err)
	node, _ := x.H.Find(ids.New("n1"))
	set, err := node.Fields.GetSet("tags")
	require.NoError(t, err)
	assert.True(t, set.HasNodeId(a))
	assert.True(t, set.HasNodeId(b))

	req2 := &Request{
		Key:      "n1",
		Triplets: []Triplet{{TypeCode: CodeSetOp, Field: "tags", Value: encodeOpSet(nil, []ids.NodeId{a}, nil)}},
	}
	_, err = x.Exec(context.Background(), req2, time.Unix(1, 0))
	require.NoError(t, err)
	set, err = node.Fields.GetSet("tags")
	require.NoError(t, err)
	assert.False(t, set.HasNodeId(a))
	assert.True(t, set.HasNodeId(b))
}

func TestSetOpOnParentsUsesHierarchy(t *testing.T) {
	x := newExecutor()
	parent := ids.New("parent")
	x.H.Add(parent, nil, nil, true)

	req := &Request{
		Key:      "child",
		Flags:    Flags{NoRootParent: true},
		Triplets: []Triplet{{TypeCode: CodeSetOp, Field: "parents", Value: encodeOpSet([]ids.NodeId{parent}, nil, nil)}},
	}
	_, err := x.Exec(context.Background(), req, time.Unix(0, 0))
	require.NoError(t, err)

	node, ok := x.H.Find(ids.New("child"))
	require.True(t, ok)
	assert.True(t, node.Parents.Has(parent))
}

func TestAliasResolutionRedirectsTarget(t *testing.T) {
	x := newExecutor()
	target := ids.New("target")
	x.H.Add(target, nil, nil, true)
	x.Aliases.Claim("my-alias", target)

	req := &Request{
		Key: "ignored",
		Triplets: []Triplet{
			{TypeCode: CodeAliasQuery, Field: "aliases", Value: encodeAliasList("my-alias")},
			{TypeCode: CodeSetString, Field: "name", Value: []byte("hi")},
		},
	}
	res, err := x.Exec(context.Background(), req, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, target, res.NodeID)
	assert.False(t, res.Created)
}

func TestUnresolvedAliasIsQueuedOnAliasesField(t *testing.T) {
	x := newExecutor()
	req := &Request{
		Key: "n1",
		Triplets: []Triplet{
			{TypeCode: CodeAliasQuery, Field: "aliases", Value: encodeAliasList("fresh-alias")},
		},
	}
	_, err := x.Exec(context.Background(), req, time.Unix(0, 0))
	require.NoError(t, err)

	node, ok := x.H.Find(ids.New("n1"))
	require.True(t, ok)
	set, err := node.Fields.GetSet("aliases")
	require.NoError(t, err)
	assert.True(t, set.HasString("fresh-alias"))

	target, ok := x.Aliases.Resolve("fresh-alias")
	require.True(t, ok)
	assert.Equal(t, node.ID, target)
}

func TestEdgeMetaOpSetsMetadataOnExistingEdge(t *testing.T) {
	x := newExecutor()
	x.Edges.Register(edge.Constraint{Name: "friends", Multi: true})

	req := &Request{Key: "n1", Flags: Flags{NoRootParent: true}, Triplets: nil}
	_, err := x.Exec(context.Background(), req, time.Unix(0, 0))
	require.NoError(t, err)
	req2 := &Request{Key: "n2", Flags: Flags{NoRootParent: true}, Triplets: nil}
	_, err = x.Exec(context.Background(), req2, time.Unix(0, 0))
	require.NoError(t, err)

	src, dst := ids.New("n1"), ids.New("n2")
	require.NoError(t, x.Edges.AddEdge(src, "friends", dst))

	value := func() []byte {
		b := append([]byte{}, dst.Bytes()...)
		b = append(b, 's')
		l := make([]byte, 4)
		binary.LittleEndian.PutUint32(l, uint32(len("since")))
		b = append(b, l...)
		b = append(b, []byte("since")...)
		b = append(b, []byte("2024")...)
		return b
	}()

	req3 := &Request{
		Key:      "n1",
		Triplets: []Triplet{{TypeCode: CodeEdgeMetaOp, Field: "friends", Value: value}},
	}
	_, err = x.Exec(context.Background(), req3, time.Unix(0, 0))
	require.NoError(t, err)

	meta, err := x.Edges.GetEdgeMetadata(src, "friends", dst, false)
	require.NoError(t, err)
	v, err := meta.GetString("since")
	require.NoError(t, err)
	assert.Equal(t, "2024", v)
}

func TestInvalidTripletReportsErrorWithoutAbortingRequest(t *testing.T) {
	x := newExecutor()
	req := &Request{
		Key: "n1",
		Triplets: []Triplet{
			{TypeCode: CodeSetDouble, Field: "score", Value: []byte("too-short")},
			{TypeCode: CodeSetString, Field: "name", Value: []byte("ok")},
		},
	}
	res, err := x.Exec(context.Background(), req, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, ErrMalformedValue.Error(), res.Triplets[0].Reply)
	assert.Equal(t, "UPDATED", res.Triplets[1].Reply)
}

func TestRequestWithoutKeyFailsValidation(t *testing.T) {
	x := newExecutor()
	_, err := x.Exec(context.Background(), &Request{}, time.Unix(0, 0))
	assert.Error(t, err)
}

func TestSetDoubleAndSetLongRoundTrip(t *testing.T) {
	x := newExecutor()
	req := &Request{
		Key: "n1",
		Triplets: []Triplet{
			{TypeCode: CodeSetDouble, Field: "score", Value: encodeDouble(3.5)},
			{TypeCode: CodeSetLong, Field: "rank", Value: encodeLong(7)},
		},
	}
	res, err := x.Exec(context.Background(), req, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, "UPDATED", res.Triplets[0].Reply)
	assert.Equal(t, "UPDATED", res.Triplets[1].Reply)

	node, _ := x.H.Find(ids.New("n1"))
	score, err := node.Fields.GetDouble("score")
	require.NoError(t, err)
	assert.Equal(t, 3.5, score)
	rank, err := node.Fields.GetLong("rank")
	require.NoError(t, err)
	assert.Equal(t, int64(7), rank)
}
