package object

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarSetGet(t *testing.T) {
	o := New()
	require.NoError(t, o.SetLong("age", 42))
	v, err := o.GetLong("age")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
	assert.True(t, o.Exists("age"))
	assert.Equal(t, Long, o.GetType("age"))
}

func TestSetDefaultAndUpdate(t *testing.T) {
	o := New()
	require.NoError(t, o.SetStringDefault("title", "a"))
	err := o.SetStringDefault("title", "b")
	assert.ErrorIs(t, err, ErrAlreadyExists)
	v, _ := o.GetString("title")
	assert.Equal(t, "a", v)

	err = o.UpdateString("title", "a")
	assert.ErrorIs(t, err, ErrAlreadyExists)
	require.NoError(t, o.UpdateString("title", "c"))
	v, _ = o.GetString("title")
	assert.Equal(t, "c", v)
}

func TestDottedPathAutoCreate(t *testing.T) {
	o := New()
	require.NoError(t, o.SetLong("stats.views", 10))
	v, err := o.GetLong("stats.views")
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)
	assert.True(t, o.ExistsTopLevel("stats.views"))
	assert.True(t, o.ExistsTopLevel("stats.nonexistent"))

	_, err = o.GetLong("missing.views")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIncrementLong(t *testing.T) {
	o := New()
	prev, err := o.IncrementLong("counter", 5, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), prev)
	v, _ := o.GetLong("counter")
	assert.Equal(t, int64(8), v)

	prev, err = o.IncrementLong("counter", 5, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(8), prev)
}

func TestDelFiresOnce(t *testing.T) {
	o := New()
	freed := 0
	ops := &PointerOps{TypeID: 1, Free: func(interface{}) { freed++ }}
	require.NoError(t, o.SetPointer("p", NewPointer(ops, "data")))
	require.NoError(t, o.Del("p"))
	assert.Equal(t, 1, freed)
	err := o.Del("p")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, freed)
}

func TestArraySparseAssign(t *testing.T) {
	o := New()
	require.NoError(t, o.ArrayAssignStringAt("tags", 2, "third"))
	n, err := o.ArrayLen("tags")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	v, err := o.ArrayGetStringAt("tags", 2)
	require.NoError(t, err)
	assert.Equal(t, "third", v)
	_, err = o.ArrayGetStringAt("tags", 0)
	assert.ErrorIs(t, err, ErrTypeMismatch) // unfilled slot holds a Null entry
}

func TestSetTypeMismatch(t *testing.T) {
	o := New()
	require.NoError(t, o.SetAddString("tags", "a"))
	err := o.SetAddLong("tags", 1)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestForeachKeyOrder(t *testing.T) {
	o := New()
	o.SetLong("a", 1)
	o.SetLong("b", 2)
	o.SetLong("c", 3)
	var seen []string
	o.ForeachKey(func(key string, tag Tag) bool {
		seen = append(seen, key)
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestSnapshotRoundTrip(t *testing.T) {
	o := New()
	o.SetLong("age", 42)
	o.SetDouble("score", 3.5)
	o.SetString("name", "ok")
	sub, _ := o.GetOrCreateObject("nested")
	sub.SetLong("x", 1)
	o.SetAddString("tags", "a")
	o.SetAddString("tags", "b")

	var buf bytes.Buffer
	require.NoError(t, o.Save(&buf))

	loaded, err := Load(&buf, func(uint16) (*PointerOps, bool) { return nil, false })
	require.NoError(t, err)

	v, err := loaded.GetLong("age")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	ns, err := loaded.GetObject("nested")
	require.NoError(t, err)
	nx, err := ns.GetLong("x")
	require.NoError(t, err)
	assert.Equal(t, int64(1), nx)

	s, err := loaded.GetSet("tags")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, s.Strings())
}
