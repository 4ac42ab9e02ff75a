package rpn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
	"graphdb/internal/object"
)

func TestScoreGreaterThanFilter(t *testing.T) {
	obj := object.New()
	require.NoError(t, obj.SetLong("score", 5))

	expr, err := Compile(`@score 0 >`)
	require.NoError(t, err)

	ctx := NewContext()
	ctx.SetObj(obj)

	ok, err := EvalBool(ctx, expr)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArithmeticAndComparison(t *testing.T) {
	expr, err := Compile(`2 3 + 4 *`)
	require.NoError(t, err)
	ctx := NewContext()
	v, err := Eval(ctx, expr)
	require.NoError(t, err)
	f, ok := v.AsDouble()
	require.True(t, ok)
	assert.Equal(t, float64(20), f)
}

func TestBooleanCombinators(t *testing.T) {
	obj := object.New()
	require.NoError(t, obj.SetLong("a", 1))
	require.NoError(t, obj.SetLong("b", 0))

	expr, err := Compile(`@a @b or`)
	require.NoError(t, err)
	ctx := NewContext()
	ctx.SetObj(obj)
	ok, err := EvalBool(ctx, expr)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStringComparison(t *testing.T) {
	obj := object.New()
	require.NoError(t, obj.SetString("name", "zeta"))

	expr, err := Compile(`@name "alpha" >`)
	require.NoError(t, err)
	ctx := NewContext()
	ctx.SetObj(obj)
	ok, err := EvalBool(ctx, expr)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterReference(t *testing.T) {
	expr, err := Compile(`$0 10 >`)
	require.NoError(t, err)
	ctx := NewContext()
	require.NoError(t, ctx.SetReg(0, []byte("42"), false))
	ok, err := EvalBool(ctx, expr)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUndefinedRegister(t *testing.T) {
	expr, err := Compile(`$3 1 ==`)
	require.NoError(t, err)
	ctx := NewContext()
	_, err = Eval(ctx, expr)
	assert.ErrorIs(t, err, ErrUndefinedRegister)
}

func TestStackUnderflow(t *testing.T) {
	expr, err := Compile(`1 +`)
	require.NoError(t, err)
	ctx := NewContext()
	_, err = Eval(ctx, expr)
	assert.ErrorIs(t, err, ErrStackUnderflow)
}

func TestTypeMismatchStringArithmetic(t *testing.T) {
	expr, err := Compile(`"x" 1 +`)
	require.NoError(t, err)
	ctx := NewContext()
	_, err = Eval(ctx, expr)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestSetMembership(t *testing.T) {
	obj := object.New()
	require.NoError(t, obj.SetAddString("tags", "red"))
	require.NoError(t, obj.SetAddString("tags", "blue"))

	expr, err := Compile(`@tags "red" has`)
	require.NoError(t, err)
	ctx := NewContext()
	ctx.SetObj(obj)
	ok, err := EvalBool(ctx, expr)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAncestorReachability(t *testing.T) {
	h := hierarchy.New()
	parent := ids.New("parent")
	child := ids.New("child")
	h.Add(parent, nil, nil, true)
	h.Add(child, []ids.NodeId{parent}, nil, true)

	expr, err := Compile(`"parent" "child" ancestor`)
	require.NoError(t, err)
	ctx := NewContext()
	ctx.SetHierarchyNode(h, nil)
	ok, err := EvalBool(ctx, expr)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompileUnrecognizedToken(t *testing.T) {
	_, err := Compile(`@score ~~~ >`)
	assert.Error(t, err)
}
