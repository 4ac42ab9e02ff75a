package object

import "io"

// PointerOps is the pluggable vtable for a POINTER value (§3, §9
// "Pointer values with plug-in vtables"): a stable type id for
// snapshot serialization, a wire reply serializer, a destructor, a
// length function, and save/load hooks.
type PointerOps struct {
	TypeID uint16
	Reply  func(w io.Writer, data interface{}) error
	Free   func(data interface{})
	Len    func(data interface{}) int
	Save   func(w io.Writer, data interface{}) error
	Load   func(r io.Reader) (interface{}, error)
}

// PointerValue is an opaque handle plus its ops vtable. The value is
// owned by the containing Object iff Ops.Free is non-nil; otherwise it
// is a borrowed reference whose lifetime is the caller's responsibility
// (§3 "Ownership").
type PointerValue struct {
	ops  *PointerOps
	data interface{}
}

// NewPointer wraps data with ops.
func NewPointer(ops *PointerOps, data interface{}) *PointerValue {
	return &PointerValue{ops: ops, data: data}
}

// Data returns the wrapped opaque value.
func (p *PointerValue) Data() interface{} { return p.data }

// Ops returns the vtable.
func (p *PointerValue) Ops() *PointerOps { return p.ops }

func (p *PointerValue) destroy() {
	if p == nil || p.ops == nil || p.ops.Free == nil {
		return
	}
	p.ops.Free(p.data)
}
