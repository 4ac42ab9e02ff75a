package object

import "graphdb/internal/ids"

func (o *Object) getSet(key string) (*ids.Set, error) {
	e, err := o.get(key)
	if err != nil {
		return nil, err
	}
	if e.tag != Set {
		return nil, ErrTypeMismatch
	}
	return e.set, nil
}

func (o *Object) getOrCreateSet(key string) (*ids.Set, error) {
	parent, last, err := o.navigate(key, true)
	if err != nil {
		return nil, err
	}
	e, ok := parent.values[last]
	if ok {
		if e.tag != Set {
			return nil, ErrTypeMismatch
		}
		return e.set, nil
	}
	s := ids.NewSet()
	parent.set(last, &entry{tag: Set, set: s})
	return s, nil
}

// GetSet returns the Set stored at key.
func (o *Object) GetSet(key string) (*ids.Set, error) {
	return o.getSet(key)
}

// SetAddString adds a string element to the set at key, creating the
// set if absent. A cross-type insertion (set already holds a different
// element kind) fails with type_mismatch.
func (o *Object) SetAddString(key, v string) error {
	s, err := o.getOrCreateSet(key)
	if err != nil {
		return err
	}
	if _, ok := s.AddString(v); !ok {
		return ErrTypeMismatch
	}
	return nil
}

func (o *Object) SetAddDouble(key string, v float64) error {
	s, err := o.getOrCreateSet(key)
	if err != nil {
		return err
	}
	if _, ok := s.AddDouble(v); !ok {
		return ErrTypeMismatch
	}
	return nil
}

func (o *Object) SetAddLong(key string, v int64) error {
	s, err := o.getOrCreateSet(key)
	if err != nil {
		return err
	}
	if _, ok := s.AddLong(v); !ok {
		return ErrTypeMismatch
	}
	return nil
}

func (o *Object) SetAddNodeId(key string, v ids.NodeId) error {
	s, err := o.getOrCreateSet(key)
	if err != nil {
		return err
	}
	if _, ok := s.AddNodeId(v); !ok {
		return ErrTypeMismatch
	}
	return nil
}

func (o *Object) SetRemoveString(key, v string) error {
	s, err := o.getSet(key)
	if err != nil {
		return err
	}
	if !s.RemoveString(v) {
		return ErrNotFound
	}
	return nil
}

func (o *Object) SetRemoveNodeId(key string, v ids.NodeId) error {
	s, err := o.getSet(key)
	if err != nil {
		return err
	}
	if !s.RemoveNodeId(v) {
		return ErrNotFound
	}
	return nil
}
