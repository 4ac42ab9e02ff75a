package object

import "graphdb/internal/ids"

// ReplyFlag controls reply_with_object's wire-shape behavior (§6
// SELVA_OBJECT_REPLY_* flags).
type ReplyFlag uint8

const (
	// FlagSplice names the path-splicing flag; ReplyWithObject does not
	// read it.
	FlagSplice ReplyFlag = 1 << iota
	// FlagBinumf sends numeric fields in little-endian binary form.
	FlagBinumf
	// FlagAnyObject names the any-object wildcard flag; ReplyWithObject
	// does not read it.
	FlagAnyObject
)

// ReplySink receives the (path, value) pairs produced by ReplyWithObject.
// The wire layer implements this to serialize directly onto a frame;
// tests can implement it to capture pairs in memory.
type ReplySink interface {
	Null(path string)
	Double(path string, v float64, binary bool)
	Long(path string, v int64, binary bool)
	String(path string, v string, lang string)
	ObjectBegin(path string)
	ObjectEnd(path string)
	SetValue(path string, s *ids.Set)
	Pointer(path string, p *PointerValue)
}

func joinPath(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	return prefix + "." + seg
}

func (e *entry) emitLeaf(sink ReplySink, path string, flags ReplyFlag) {
	switch e.tag {
	case Null:
		sink.Null(path)
	case Double:
		sink.Double(path, e.d, flags&FlagBinumf != 0)
	case Long:
		sink.Long(path, e.ll, flags&FlagBinumf != 0)
	case String:
		sink.String(path, e.s, e.lang)
	case Set:
		sink.SetValue(path, e.set)
	case Pointer:
		sink.Pointer(path, e.ptr)
	case Array:
		// Arrays are sent element-by-element under an index path;
		// ReplySink has no array-begin callback, so each element is
		// emitted as if it were its own leaf.
		for i, el := range e.arr.items {
			el.emitLeaf(sink, joinPath(path, itoa(i)), flags)
		}
	case Obj:
		e.obj.emitTree(sink, path, flags)
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// emitTree recursively emits a full nested tree (no flattening): OBJECT
// values get an ObjectBegin/ObjectEnd bracket around their own children.
func (o *Object) emitTree(sink ReplySink, prefix string, flags ReplyFlag) {
	sink.ObjectBegin(prefix)
	for _, k := range o.order {
		e := o.values[k]
		full := joinPath(prefix, k)
		e.emitLeaf(sink, full, flags)
	}
	sink.ObjectEnd(prefix)
}

// emitLeavesFlatten emits full dotted-path leaves only, descending
// through nested OBJECT values without bracketing them ("trailing .*"
// semantics).
func emitLeavesFlatten(sink ReplySink, path string, e *entry, flags ReplyFlag) {
	if e.tag == Obj {
		for _, k := range e.obj.order {
			child := e.obj.values[k]
			emitLeavesFlatten(sink, joinPath(path, k), child, flags)
		}
		return
	}
	e.emitLeaf(sink, path, flags)
}

func (o *Object) emitLeavesAll(sink ReplySink, prefix string, flags ReplyFlag) {
	for _, k := range o.order {
		emitLeavesFlatten(sink, joinPath(prefix, k), o.values[k], flags)
	}
}

// ReplyWithObject serializes o onto sink. key == nil replies with the
// full nested tree. A key containing a '*' path segment (mid-path) or
// a trailing ".*" flattens matching leaves to dotted full paths instead
// (§4.1 "Wildcard reply").
func (o *Object) ReplyWithObject(sink ReplySink, lang []string, key *string, flags ReplyFlag) error {
	if key == nil {
		o.emitTree(sink, "", flags)
		return nil
	}
	return o.replyPath(sink, "", splitPath(*key), flags)
}

func (o *Object) replyPath(sink ReplySink, prefix string, segs []string, flags ReplyFlag) error {
	seg := segs[0]
	if seg == "*" {
		for _, k := range o.order {
			e := o.values[k]
			full := joinPath(prefix, k)
			if len(segs) == 1 {
				emitLeavesFlatten(sink, full, e, flags)
				continue
			}
			if e.tag == Obj {
				if err := e.obj.replyPath(sink, full, segs[1:], flags); err != nil && err != ErrNotFound {
					return err
				}
			}
		}
		return nil
	}

	e, ok := o.values[seg]
	if !ok {
		return ErrNotFound
	}
	full := joinPath(prefix, seg)

	if len(segs) == 1 {
		e.emitLeaf(sink, full, flags)
		return nil
	}
	if len(segs) == 2 && segs[1] == "*" {
		if e.tag != Obj {
			return ErrTypeMismatch
		}
		e.obj.emitLeavesAll(sink, full, flags)
		return nil
	}
	if e.tag != Obj {
		return ErrNotFound
	}
	return e.obj.replyPath(sink, full, segs[1:], flags)
}
