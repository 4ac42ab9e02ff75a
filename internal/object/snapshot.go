package object

import (
	"encoding/binary"
	"fmt"
	"io"

	"graphdb/internal/ids"
)

// PointerRegistry resolves a stable type id to the ops vtable needed to
// load a POINTER value from a snapshot (§9 "registration occurs at
// startup via a static table").
type PointerRegistry func(typeID uint16) (*PointerOps, bool)

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Save walks the tree in key order, dispatching POINTER values to
// their registered save hook.
func (o *Object) Save(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(o.order))); err != nil {
		return err
	}
	for _, k := range o.order {
		e := o.values[k]
		if err := writeString(w, k); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint8(e.tag)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, e.userMeta); err != nil {
			return err
		}
		if err := writeString(w, e.lang); err != nil {
			return err
		}
		if err := e.save(w); err != nil {
			return fmt.Errorf("object: save key %q: %w", k, err)
		}
	}
	return nil
}

func (e *entry) save(w io.Writer) error {
	switch e.tag {
	case Null:
		return nil
	case Double:
		return binary.Write(w, binary.LittleEndian, e.d)
	case Long:
		return binary.Write(w, binary.LittleEndian, e.ll)
	case String:
		return writeString(w, e.s)
	case Obj:
		return e.obj.Save(w)
	case Set:
		return saveSet(w, e.set)
	case Array:
		return saveArray(w, e.arr)
	case Pointer:
		if err := binary.Write(w, binary.LittleEndian, e.ptr.ops.TypeID); err != nil {
			return err
		}
		if e.ptr.ops.Save == nil {
			return nil
		}
		return e.ptr.ops.Save(w, e.ptr.data)
	default:
		return fmt.Errorf("object: unknown tag %d", e.tag)
	}
}

func saveSet(w io.Writer, s *ids.Set) error {
	if err := binary.Write(w, binary.LittleEndian, uint8(s.Kind)); err != nil {
		return err
	}
	switch s.Kind {
	case ids.KindString:
		vals := s.Strings()
		if err := binary.Write(w, binary.LittleEndian, uint32(len(vals))); err != nil {
			return err
		}
		for _, v := range vals {
			if err := writeString(w, v); err != nil {
				return err
			}
		}
	case ids.KindDouble:
		vals := s.Doubles()
		if err := binary.Write(w, binary.LittleEndian, uint32(len(vals))); err != nil {
			return err
		}
		for _, v := range vals {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
	case ids.KindLong:
		vals := s.Longs()
		if err := binary.Write(w, binary.LittleEndian, uint32(len(vals))); err != nil {
			return err
		}
		for _, v := range vals {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
	case ids.KindNodeId:
		vals := s.NodeIds()
		if err := binary.Write(w, binary.LittleEndian, uint32(len(vals))); err != nil {
			return err
		}
		for _, v := range vals {
			if _, err := w.Write(v[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

func saveArray(w io.Writer, a *Array) error {
	if err := binary.Write(w, binary.LittleEndian, uint8(a.ElemTag)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(a.items))); err != nil {
		return err
	}
	for _, e := range a.items {
		if err := binary.Write(w, binary.LittleEndian, uint8(e.tag)); err != nil {
			return err
		}
		if err := e.save(w); err != nil {
			return err
		}
	}
	return nil
}

// Load reads an Object previously written by Save.
func Load(r io.Reader, reg PointerRegistry) (*Object, error) {
	o := New()
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		k, err := readString(r)
		if err != nil {
			return nil, err
		}
		var tagByte uint8
		if err := binary.Read(r, binary.LittleEndian, &tagByte); err != nil {
			return nil, err
		}
		var meta uint32
		if err := binary.Read(r, binary.LittleEndian, &meta); err != nil {
			return nil, err
		}
		lang, err := readString(r)
		if err != nil {
			return nil, err
		}
		e, err := loadEntry(r, Tag(tagByte), reg)
		if err != nil {
			return nil, fmt.Errorf("object: load key %q: %w", k, err)
		}
		e.userMeta = meta
		e.lang = lang
		o.order = append(o.order, k)
		o.values[k] = e
	}
	return o, nil
}

func loadEntry(r io.Reader, tag Tag, reg PointerRegistry) (*entry, error) {
	e := &entry{tag: tag}
	switch tag {
	case Null:
	case Double:
		if err := binary.Read(r, binary.LittleEndian, &e.d); err != nil {
			return nil, err
		}
	case Long:
		if err := binary.Read(r, binary.LittleEndian, &e.ll); err != nil {
			return nil, err
		}
	case String:
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		e.s = s
	case Obj:
		sub, err := Load(r, reg)
		if err != nil {
			return nil, err
		}
		e.obj = sub
	case Set:
		s, err := loadSet(r)
		if err != nil {
			return nil, err
		}
		e.set = s
	case Array:
		a, err := loadArray(r, reg)
		if err != nil {
			return nil, err
		}
		e.arr = a
	case Pointer:
		var typeID uint16
		if err := binary.Read(r, binary.LittleEndian, &typeID); err != nil {
			return nil, err
		}
		ops, ok := reg(typeID)
		if !ok {
			return nil, fmt.Errorf("object: unregistered pointer type %d", typeID)
		}
		var data interface{}
		if ops.Load != nil {
			d, err := ops.Load(r)
			if err != nil {
				return nil, err
			}
			data = d
		}
		e.ptr = &PointerValue{ops: ops, data: data}
	default:
		return nil, fmt.Errorf("object: unknown tag %d on load", tag)
	}
	return e, nil
}

func loadSet(r io.Reader) (*ids.Set, error) {
	var kind uint8
	if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
		return nil, err
	}
	s := ids.NewSet()
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	switch ids.ElementKind(kind) {
	case ids.KindString:
		for i := uint32(0); i < n; i++ {
			v, err := readString(r)
			if err != nil {
				return nil, err
			}
			s.AddString(v)
		}
	case ids.KindDouble:
		for i := uint32(0); i < n; i++ {
			var v float64
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			s.AddDouble(v)
		}
	case ids.KindLong:
		for i := uint32(0); i < n; i++ {
			var v int64
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			s.AddLong(v)
		}
	case ids.KindNodeId:
		for i := uint32(0); i < n; i++ {
			var v ids.NodeId
			if _, err := io.ReadFull(r, v[:]); err != nil {
				return nil, err
			}
			s.AddNodeId(v)
		}
	}
	return s, nil
}

func loadArray(r io.Reader, reg PointerRegistry) (*Array, error) {
	var elemTag uint8
	if err := binary.Read(r, binary.LittleEndian, &elemTag); err != nil {
		return nil, err
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	a := &Array{ElemTag: Tag(elemTag)}
	for i := uint32(0); i < n; i++ {
		var tagByte uint8
		if err := binary.Read(r, binary.LittleEndian, &tagByte); err != nil {
			return nil, err
		}
		e, err := loadEntry(r, Tag(tagByte), reg)
		if err != nil {
			return nil, err
		}
		a.items = append(a.items, e)
	}
	return a, nil
}
