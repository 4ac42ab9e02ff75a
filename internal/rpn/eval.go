package rpn

import (
	"math"
	"strconv"

	"graphdb/internal/ids"
)

// Eval runs the compiled expression against ctx and returns the final
// stack value. Exactly one value must remain on the stack when the
// program ends (§4.5).
func Eval(ctx *Context, expr *Expression) (Value, error) {
	var stack []Value
	push := func(v Value) { stack = append(stack, v) }
	pop := func() (Value, error) {
		if len(stack) == 0 {
			return Value{}, ErrStackUnderflow
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}

	for _, t := range expr.tokens {
		switch t.kind {
		case tokNumber:
			push(t.num)
		case tokString:
			push(Str(t.text))
		case tokField:
			v, err := fieldValue(ctx, t.text)
			if err != nil {
				return Value{}, err
			}
			push(v)
		case tokReg:
			idx, err := strconv.Atoi(t.text)
			if err != nil {
				return Value{}, ErrUndefinedRegister
			}
			if idx < 0 || idx >= maxRegisters || !ctx.regs[idx].set {
				return Value{}, ErrUndefinedRegister
			}
			r := ctx.regs[idx]
			if r.isNaN {
				push(Str(string(r.bytes)))
			} else if f, err := strconv.ParseFloat(string(r.bytes), 64); err == nil {
				push(Double(f))
			} else {
				push(Str(string(r.bytes)))
			}
		case tokOp:
			if err := applyOp(ctx, t.text, &stack, pop, push); err != nil {
				return Value{}, err
			}
		}
	}
	if len(stack) != 1 {
		if len(stack) == 0 {
			return Value{}, ErrStackUnderflow
		}
		return Value{}, ErrTrailingOperands
	}
	return stack[0], nil
}

func fieldValue(ctx *Context, name string) (Value, error) {
	if ctx.obj == nil {
		return Nil(), ErrUnknownField
	}
	if !ctx.obj.Exists(name) {
		return Nil(), nil
	}
	if f, err := ctx.obj.GetDouble(name); err == nil {
		return Double(f), nil
	}
	if l, err := ctx.obj.GetLong(name); err == nil {
		return Long(l), nil
	}
	if s, err := ctx.obj.GetString(name); err == nil {
		return Str(s), nil
	}
	if s, err := ctx.obj.GetSet(name); err == nil {
		return SetVal(s), nil
	}
	return Nil(), nil
}

func applyOp(ctx *Context, op string, stack *[]Value, pop func() (Value, error), push func(Value)) error {
	binaryNum := func(fn func(a, b float64) (float64, error)) error {
		b, err := pop()
		if err != nil {
			return err
		}
		a, err := pop()
		if err != nil {
			return err
		}
		af, ok1 := a.AsDouble()
		bf, ok2 := b.AsDouble()
		if !ok1 || !ok2 {
			return ErrTypeMismatch
		}
		r, err := fn(af, bf)
		if err != nil {
			return err
		}
		push(Double(r))
		return nil
	}

	switch op {
	case "+":
		return binaryNum(func(a, b float64) (float64, error) { return a + b, nil })
	case "-":
		return binaryNum(func(a, b float64) (float64, error) { return a - b, nil })
	case "*":
		return binaryNum(func(a, b float64) (float64, error) { return a * b, nil })
	case "/":
		return binaryNum(func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, ErrArithmeticDomain
			}
			return a / b, nil
		})
	case "%":
		return binaryNum(func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, ErrArithmeticDomain
			}
			return math.Mod(a, b), nil
		})
	case "<", ">", "<=", ">=", "==", "!=", "eq", "neq":
		b, err := pop()
		if err != nil {
			return err
		}
		a, err := pop()
		if err != nil {
			return err
		}
		res, err := compare(op, a, b)
		if err != nil {
			return err
		}
		push(boolVal(res))
		return nil
	case "and":
		b, err := pop()
		if err != nil {
			return err
		}
		a, err := pop()
		if err != nil {
			return err
		}
		push(boolVal(a.Truthy() && b.Truthy()))
		return nil
	case "or":
		b, err := pop()
		if err != nil {
			return err
		}
		a, err := pop()
		if err != nil {
			return err
		}
		push(boolVal(a.Truthy() || b.Truthy()))
		return nil
	case "not":
		a, err := pop()
		if err != nil {
			return err
		}
		push(boolVal(!a.Truthy()))
		return nil
	case "exists":
		a, err := pop()
		if err != nil {
			return err
		}
		if a.Kind != KString {
			return ErrTypeMismatch
		}
		push(boolVal(ctx.obj != nil && ctx.obj.Exists(a.S)))
		return nil
	case "field":
		a, err := pop()
		if err != nil {
			return err
		}
		if a.Kind != KString {
			return ErrTypeMismatch
		}
		v, err := fieldValue(ctx, a.S)
		if err != nil {
			return err
		}
		push(v)
		return nil
	case "has", "in":
		b, err := pop()
		if err != nil {
			return err
		}
		a, err := pop()
		if err != nil {
			return err
		}
		if a.Kind != KSet {
			return ErrTypeMismatch
		}
		var found bool
		switch b.Kind {
		case KString:
			found = a.Set.HasString(b.S)
		case KLong:
			found = a.Set.HasLong(b.L)
		case KDouble:
			found = a.Set.HasDouble(b.D)
		default:
			return ErrTypeMismatch
		}
		push(boolVal(found))
		return nil
	case "union":
		b, err := pop()
		if err != nil {
			return err
		}
		a, err := pop()
		if err != nil {
			return err
		}
		if a.Kind != KSet || b.Kind != KSet {
			return ErrTypeMismatch
		}
		push(SetVal(a.Set.Union(b.Set)))
		return nil
	case "ancestor", "descendant":
		b, err := pop()
		if err != nil {
			return err
		}
		a, err := pop()
		if err != nil {
			return err
		}
		if a.Kind != KString || b.Kind != KString {
			return ErrTypeMismatch
		}
		if ctx.hierarchy == nil {
			return ErrNoHierarchy
		}
		subject := ids.New(a.S)
		target := ids.New(b.S)
		var set []ids.NodeId
		if op == "ancestor" {
			set = ctx.hierarchy.FindAncestors(target)
		} else {
			set = ctx.hierarchy.FindDescendants(target)
		}
		found := false
		for _, id := range set {
			if id == subject {
				found = true
				break
			}
		}
		push(boolVal(found))
		return nil
	default:
		return ErrUnsupportedOperator
	}
}

func boolVal(b bool) Value {
	if b {
		return Long(1)
	}
	return Long(0)
}

func compare(op string, a, b Value) (bool, error) {
	if a.Kind == KString || b.Kind == KString {
		if a.Kind != KString || b.Kind != KString {
			return false, ErrTypeMismatch
		}
		switch op {
		case "<":
			return a.S < b.S, nil
		case ">":
			return a.S > b.S, nil
		case "<=":
			return a.S <= b.S, nil
		case ">=":
			return a.S >= b.S, nil
		case "==", "eq":
			return a.S == b.S, nil
		case "!=", "neq":
			return a.S != b.S, nil
		}
	}
	af, ok1 := a.AsDouble()
	bf, ok2 := b.AsDouble()
	if !ok1 || !ok2 {
		return false, ErrTypeMismatch
	}
	switch op {
	case "<":
		return af < bf, nil
	case ">":
		return af > bf, nil
	case "<=":
		return af <= bf, nil
	case ">=":
		return af >= bf, nil
	case "==", "eq":
		return af == bf, nil
	case "!=", "neq":
		return af != bf, nil
	}
	return false, ErrUnsupportedOperator
}

// EvalBool compiles nothing; it evaluates an already-compiled
// expression and coerces the result to bool via Value.Truthy.
func EvalBool(ctx *Context, expr *Expression) (bool, error) {
	v, err := Eval(ctx, expr)
	if err != nil {
		return false, err
	}
	return v.Truthy(), nil
}

// EvalDouble evaluates and coerces the result to float64.
func EvalDouble(ctx *Context, expr *Expression) (float64, error) {
	v, err := Eval(ctx, expr)
	if err != nil {
		return 0, err
	}
	f, ok := v.AsDouble()
	if !ok {
		return 0, ErrTypeMismatch
	}
	return f, nil
}

// EvalString evaluates and requires a string result.
func EvalString(ctx *Context, expr *Expression) (string, error) {
	v, err := Eval(ctx, expr)
	if err != nil {
		return "", err
	}
	if v.Kind != KString {
		return "", ErrTypeMismatch
	}
	return v.S, nil
}

// EvalSet evaluates and requires a set result.
func EvalSet(ctx *Context, expr *Expression) (*ids.Set, error) {
	v, err := Eval(ctx, expr)
	if err != nil {
		return nil, err
	}
	if v.Kind != KSet {
		return nil, ErrTypeMismatch
	}
	return v.Set, nil
}
