package rpn

import (
	"graphdb/internal/hierarchy"
	"graphdb/internal/object"
)

// maxRegisters bounds the register file. No register is reserved:
// SetHierarchyNode does not write the node id into any register, and
// callers load their arguments from index 0 upward.
const maxRegisters = 64

// register is a raw byte-string register value plus the is_nan flag
// that marks a token not convertible to a number.
type register struct {
	bytes []byte
	isNaN bool
	set   bool
}

// Context carries the register file and the installed node/object/
// hierarchy handles for one evaluation.
type Context struct {
	regs      [maxRegisters]register
	hierarchy *hierarchy.Hierarchy
	node      *hierarchy.Node
	obj       *object.Object
}

// NewContext creates an empty evaluation context.
func NewContext() *Context {
	return &Context{}
}

// SetReg stores bytes as register i. flagIsNaN marks the token as not
// numerically convertible (§4.5 "set_reg ... flag is_nan").
func (c *Context) SetReg(i int, data []byte, flagIsNaN bool) error {
	if i < 0 || i >= maxRegisters {
		return ErrUndefinedRegister
	}
	c.regs[i] = register{bytes: append([]byte(nil), data...), isNaN: flagIsNaN, set: true}
	return nil
}

// SetHierarchyNode installs the traversal context's current node.
func (c *Context) SetHierarchyNode(h *hierarchy.Hierarchy, n *hierarchy.Node) {
	c.hierarchy = h
	c.node = n
}

// SetObj installs the current object (usually the node's own Fields,
// but may be a sub-object for nested filter evaluation).
func (c *Context) SetObj(o *object.Object) {
	c.obj = o
}
