// Package object implements the recursive, schemaless typed field
// container (§3 "TypedObject", §4.1) that the hierarchy store owns on
// every node. It is a tagged-sum container: every key maps to exactly
// one of NULL/DOUBLE/LONGLONG/STRING/OBJECT/SET/ARRAY/POINTER, switched
// on explicitly rather than behind an interface{} union, so destructor
// dispatch for POINTER values is exhaustive and checked (§9 "Polymorphic
// values").
package object

import (
	"graphdb/internal/ids"
)

// Tag identifies the kind of value stored under a key. Values must not
// be reordered; original_source's selva_object.h documents the same
// constraint for its on-disk tag byte.
type Tag uint8

const (
	Null Tag = iota
	Double
	Long
	String
	Obj
	Set
	Array
	Pointer
)

func (t Tag) String() string {
	switch t {
	case Null:
		return "null"
	case Double:
		return "double"
	case Long:
		return "long"
	case String:
		return "string"
	case Obj:
		return "object"
	case Set:
		return "set"
	case Array:
		return "array"
	case Pointer:
		return "pointer"
	default:
		return "unknown"
	}
}

// entry is one key's tagged value plus its user-meta word.
type entry struct {
	tag      Tag
	userMeta uint32
	lang     string // optional language tag for a localized-text STRING

	d   float64
	ll  int64
	s   string
	obj *Object
	set *ids.Set
	arr *Array
	ptr *PointerValue
}

func (e *entry) destroy() {
	if e == nil {
		return
	}
	switch e.tag {
	case Obj:
		if e.obj != nil {
			e.obj.Destroy()
		}
	case Array:
		if e.arr != nil {
			e.arr.destroy()
		}
	case Pointer:
		if e.ptr != nil {
			e.ptr.destroy()
		}
	}
}

// Object is the recursive keyed container. Keys preserve insertion
// order for deterministic foreach/snapshot iteration.
type Object struct {
	order  []string
	values map[string]*entry
}

// New creates an empty Object.
func New() *Object {
	return &Object{values: make(map[string]*entry)}
}

// Destroy fires pointer destructors in post-order for this object and
// every nested object/array it owns (§3 "when a node is destroyed").
func (o *Object) Destroy() {
	if o == nil {
		return
	}
	for _, k := range o.order {
		o.values[k].destroy()
	}
	o.order = nil
	o.values = nil
}

// topEntry resolves only the first segment of a dotted path, per
// exists_top_level.
func (o *Object) topEntry(key string) (*entry, bool) {
	segs := splitPath(key)
	e, ok := o.values[segs[0]]
	return e, ok
}

// navigate walks all but the last segment of the path, optionally
// creating intermediate OBJECT values (for setters). It returns the
// object holding the final segment and that segment's name.
func (o *Object) navigate(key string, create bool) (*Object, string, error) {
	segs := splitPath(key)
	if len(segs) == 0 || segs[0] == "" {
		return nil, "", ErrInvalidArgument
	}
	cur := o
	for _, seg := range segs[:len(segs)-1] {
		if seg == "" {
			return nil, "", ErrInvalidArgument
		}
		e, ok := cur.values[seg]
		if ok && e.tag == Obj {
			cur = e.obj
			continue
		}
		if ok && e.tag != Obj {
			if !create {
				return nil, "", ErrNotFound
			}
			return nil, "", ErrTypeMismatch
		}
		if !create {
			return nil, "", ErrNotFound
		}
		child := New()
		cur.set(seg, &entry{tag: Obj, obj: child})
		cur = child
	}
	last := segs[len(segs)-1]
	if last == "" {
		return nil, "", ErrInvalidArgument
	}
	return cur, last, nil
}

func (o *Object) set(key string, e *entry) {
	if old, exists := o.values[key]; exists {
		old.destroy()
	} else {
		o.order = append(o.order, key)
	}
	o.values[key] = e
}

func (o *Object) get(key string) (*entry, error) {
	parent, last, err := o.navigate(key, false)
	if err != nil {
		return nil, err
	}
	e, ok := parent.values[last]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// GetType returns the tag stored at key, or Null if absent.
func (o *Object) GetType(key string) Tag {
	e, err := o.get(key)
	if err != nil {
		return Null
	}
	return e.tag
}

// Exists reports whether key resolves to a non-NULL value.
func (o *Object) Exists(key string) bool {
	return o.GetType(key) != Null
}

// ExistsTopLevel reports whether only the first dotted segment resolves.
func (o *Object) ExistsTopLevel(key string) bool {
	_, ok := o.topEntry(key)
	return ok
}

// Del removes key, firing pointer destructors as needed.
func (o *Object) Del(key string) error {
	parent, last, err := o.navigate(key, false)
	if err != nil {
		return err
	}
	e, ok := parent.values[last]
	if !ok {
		return ErrNotFound
	}
	e.destroy()
	delete(parent.values, last)
	for i, k := range parent.order {
		if k == last {
			parent.order = append(parent.order[:i], parent.order[i+1:]...)
			break
		}
	}
	return nil
}

// UserMetaGet returns the opaque user-meta word for key.
func (o *Object) UserMetaGet(key string) (uint32, error) {
	e, err := o.get(key)
	if err != nil {
		return 0, err
	}
	return e.userMeta, nil
}

// UserMetaSet sets the opaque user-meta word for key.
func (o *Object) UserMetaSet(key string, meta uint32) error {
	e, err := o.get(key)
	if err != nil {
		return err
	}
	e.userMeta = meta
	return nil
}

// ForeachKey iterates keys in insertion order. fn returning false stops
// iteration early. Per §4.1, iteration is invalidated by mutation, but
// a snapshot of the order slice is safe under pure reads.
func (o *Object) ForeachKey(fn func(key string, tag Tag) bool) {
	for _, k := range o.order {
		e := o.values[k]
		if !fn(k, e.tag) {
			return
		}
	}
}

// ForeachValueOfType iterates only keys whose tag equals t.
func (o *Object) ForeachValueOfType(t Tag, fn func(key string) bool) {
	for _, k := range o.order {
		if o.values[k].tag == t {
			if !fn(k) {
				return
			}
		}
	}
}

// Len implements the polymorphic length operator: OBJECT returns key
// count, STRING returns byte length, SET/ARRAY return element count,
// POINTER delegates to its ops vtable. A nil key means "len of this
// object itself".
func (o *Object) Len(key *string) (int, error) {
	if key == nil {
		return len(o.order), nil
	}
	e, err := o.get(*key)
	if err != nil {
		return 0, err
	}
	switch e.tag {
	case Obj:
		return len(e.obj.order), nil
	case String:
		return len(e.s), nil
	case Set:
		return e.set.Len(), nil
	case Array:
		return e.arr.Len(), nil
	case Pointer:
		if e.ptr.ops.Len == nil {
			return 0, nil
		}
		return e.ptr.ops.Len(e.ptr.data), nil
	default:
		return 0, ErrTypeMismatch
	}
}
