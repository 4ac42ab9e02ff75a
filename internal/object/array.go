package object

// Array is an ordered, sparse-assignable sequence of Tag-typed
// elements; elements are homogeneous, with the subtype declared on the
// first insert (§3). A sparse slot that has never been assigned holds
// the zero entry (tag Null).
type Array struct {
	ElemTag Tag
	items   []*entry
}

func newArray() *Array {
	return &Array{}
}

func (a *Array) destroy() {
	for _, e := range a.items {
		e.destroy()
	}
	a.items = nil
}

func (a *Array) ensureTag(t Tag) error {
	if a.ElemTag == Null {
		a.ElemTag = t
		return nil
	}
	if a.ElemTag != t {
		return ErrTypeMismatch
	}
	return nil
}

// Len reports the element count, including unfilled sparse slots.
func (a *Array) Len() int { return len(a.items) }

func (a *Array) growTo(n int) {
	for len(a.items) < n {
		a.items = append(a.items, &entry{tag: Null})
	}
}

func (a *Array) append(e *entry) error {
	if err := a.ensureTag(e.tag); err != nil {
		return err
	}
	a.items = append(a.items, e)
	return nil
}

func (a *Array) insertAt(i int, e *entry) error {
	if err := a.ensureTag(e.tag); err != nil {
		return err
	}
	if i < 0 {
		return ErrInvalidArgument
	}
	if i >= len(a.items) {
		a.growTo(i)
		a.items = append(a.items, e)
		return nil
	}
	a.items = append(a.items, nil)
	copy(a.items[i+1:], a.items[i:])
	a.items[i] = e
	return nil
}

// assignAt may grow the array sparsely to accommodate i.
func (a *Array) assignAt(i int, e *entry) error {
	if i < 0 {
		return ErrInvalidArgument
	}
	if err := a.ensureTag(e.tag); err != nil {
		return err
	}
	if i >= len(a.items) {
		a.growTo(i)
		a.items = append(a.items, e)
		return nil
	}
	old := a.items[i]
	old.destroy()
	a.items[i] = e
	return nil
}

func (a *Array) removeAt(i int) error {
	if i < 0 || i >= len(a.items) {
		return ErrNotFound
	}
	a.items[i].destroy()
	a.items = append(a.items[:i], a.items[i+1:]...)
	return nil
}

func (a *Array) at(i int) (*entry, error) {
	if i < 0 || i >= len(a.items) {
		return nil, ErrNotFound
	}
	return a.items[i], nil
}

// --- Object-level array accessors, all operating at a dotted path ---

func (o *Object) getArray(key string) (*Array, error) {
	e, err := o.get(key)
	if err != nil {
		return nil, err
	}
	if e.tag != Array {
		return nil, ErrTypeMismatch
	}
	return e.arr, nil
}

func (o *Object) getOrCreateArray(key string) (*Array, error) {
	parent, last, err := o.navigate(key, true)
	if err != nil {
		return nil, err
	}
	e, ok := parent.values[last]
	if ok {
		if e.tag != Array {
			return nil, ErrTypeMismatch
		}
		return e.arr, nil
	}
	arr := newArray()
	parent.set(last, &entry{tag: Array, arr: arr})
	return arr, nil
}

func (o *Object) ArrayLen(key string) (int, error) {
	a, err := o.getArray(key)
	if err != nil {
		return 0, err
	}
	return a.Len(), nil
}

func (o *Object) ArrayAppendString(key, v string) error {
	a, err := o.getOrCreateArray(key)
	if err != nil {
		return err
	}
	return a.append(&entry{tag: String, s: v})
}

func (o *Object) ArrayAppendDouble(key string, v float64) error {
	a, err := o.getOrCreateArray(key)
	if err != nil {
		return err
	}
	return a.append(&entry{tag: Double, d: v})
}

func (o *Object) ArrayAppendLong(key string, v int64) error {
	a, err := o.getOrCreateArray(key)
	if err != nil {
		return err
	}
	return a.append(&entry{tag: Long, ll: v})
}

func (o *Object) ArrayInsertStringAt(key string, i int, v string) error {
	a, err := o.getOrCreateArray(key)
	if err != nil {
		return err
	}
	return a.insertAt(i, &entry{tag: String, s: v})
}

func (o *Object) ArrayAssignStringAt(key string, i int, v string) error {
	a, err := o.getOrCreateArray(key)
	if err != nil {
		return err
	}
	return a.assignAt(i, &entry{tag: String, s: v})
}

func (o *Object) ArrayRemoveAt(key string, i int) error {
	a, err := o.getArray(key)
	if err != nil {
		return err
	}
	return a.removeAt(i)
}

func (o *Object) ArrayGetStringAt(key string, i int) (string, error) {
	a, err := o.getArray(key)
	if err != nil {
		return "", err
	}
	e, err := a.at(i)
	if err != nil {
		return "", err
	}
	if e.tag != String {
		return "", ErrTypeMismatch
	}
	return e.s, nil
}

func (o *Object) ArrayGetDoubleAt(key string, i int) (float64, error) {
	a, err := o.getArray(key)
	if err != nil {
		return 0, err
	}
	e, err := a.at(i)
	if err != nil {
		return 0, err
	}
	if e.tag != Double {
		return 0, ErrTypeMismatch
	}
	return e.d, nil
}

func (o *Object) ArrayGetLongAt(key string, i int) (int64, error) {
	a, err := o.getArray(key)
	if err != nil {
		return 0, err
	}
	e, err := a.at(i)
	if err != nil {
		return 0, err
	}
	if e.tag != Long {
		return 0, ErrTypeMismatch
	}
	return e.ll, nil
}
