package object

// setLeaf installs e at key, auto-creating intermediate OBJECT segments.
func (o *Object) setLeaf(key string, e *entry) error {
	parent, last, err := o.navigate(key, true)
	if err != nil {
		return err
	}
	parent.set(last, e)
	return nil
}

// --- double ---

func (o *Object) GetDouble(key string) (float64, error) {
	e, err := o.get(key)
	if err != nil {
		return 0, err
	}
	if e.tag != Double {
		return 0, ErrTypeMismatch
	}
	return e.d, nil
}

func (o *Object) SetDouble(key string, v float64) error {
	return o.setLeaf(key, &entry{tag: Double, d: v})
}

// SetDoubleDefault sets v only if key is currently NULL; otherwise
// reports already_exists without modification.
func (o *Object) SetDoubleDefault(key string, v float64) error {
	if o.Exists(key) {
		return ErrAlreadyExists
	}
	return o.SetDouble(key, v)
}

// UpdateDouble sets v only if it differs from the current value.
func (o *Object) UpdateDouble(key string, v float64) error {
	cur, err := o.GetDouble(key)
	if err == nil && cur == v {
		return ErrAlreadyExists
	}
	return o.SetDouble(key, v)
}

// IncrementDouble initializes to def if absent, then adds delta,
// reporting the prior value.
func (o *Object) IncrementDouble(key string, def, delta float64) (prev float64, err error) {
	cur, gerr := o.GetDouble(key)
	if gerr != nil {
		if gerr != ErrNotFound {
			return 0, gerr
		}
		cur = def
	}
	prev = cur
	return prev, o.SetDouble(key, cur+delta)
}

// --- long ---

func (o *Object) GetLong(key string) (int64, error) {
	e, err := o.get(key)
	if err != nil {
		return 0, err
	}
	if e.tag != Long {
		return 0, ErrTypeMismatch
	}
	return e.ll, nil
}

func (o *Object) SetLong(key string, v int64) error {
	return o.setLeaf(key, &entry{tag: Long, ll: v})
}

func (o *Object) SetLongDefault(key string, v int64) error {
	if o.Exists(key) {
		return ErrAlreadyExists
	}
	return o.SetLong(key, v)
}

func (o *Object) UpdateLong(key string, v int64) error {
	cur, err := o.GetLong(key)
	if err == nil && cur == v {
		return ErrAlreadyExists
	}
	return o.SetLong(key, v)
}

func (o *Object) IncrementLong(key string, def, delta int64) (prev int64, err error) {
	cur, gerr := o.GetLong(key)
	if gerr != nil {
		if gerr != ErrNotFound {
			return 0, gerr
		}
		cur = def
	}
	prev = cur
	return prev, o.SetLong(key, cur+delta)
}

// --- string ---

func (o *Object) GetString(key string) (string, error) {
	e, err := o.get(key)
	if err != nil {
		return "", err
	}
	if e.tag != String {
		return "", ErrTypeMismatch
	}
	return e.s, nil
}

// GetStringLang returns the value and its localized-text language tag
// (empty if none was set).
func (o *Object) GetStringLang(key string) (string, string, error) {
	e, err := o.get(key)
	if err != nil {
		return "", "", err
	}
	if e.tag != String {
		return "", "", ErrTypeMismatch
	}
	return e.s, e.lang, nil
}

func (o *Object) SetString(key, v string) error {
	return o.setLeaf(key, &entry{tag: String, s: v})
}

// SetStringLang sets v tagged with a localized-text language subtype.
func (o *Object) SetStringLang(key, v, lang string) error {
	return o.setLeaf(key, &entry{tag: String, s: v, lang: lang})
}

func (o *Object) SetStringDefault(key, v string) error {
	if o.Exists(key) {
		return ErrAlreadyExists
	}
	return o.SetString(key, v)
}

func (o *Object) UpdateString(key, v string) error {
	cur, err := o.GetString(key)
	if err == nil && cur == v {
		return ErrAlreadyExists
	}
	return o.SetString(key, v)
}

// --- nested object ---

func (o *Object) GetObject(key string) (*Object, error) {
	e, err := o.get(key)
	if err != nil {
		return nil, err
	}
	if e.tag != Obj {
		return nil, ErrTypeMismatch
	}
	return e.obj, nil
}

// SetObject installs v (taking ownership) at key.
func (o *Object) SetObject(key string, v *Object) error {
	return o.setLeaf(key, &entry{tag: Obj, obj: v})
}

// GetOrCreateObject returns the OBJECT at key, creating it if absent.
func (o *Object) GetOrCreateObject(key string) (*Object, error) {
	parent, last, err := o.navigate(key, true)
	if err != nil {
		return nil, err
	}
	e, ok := parent.values[last]
	if ok {
		if e.tag != Obj {
			return nil, ErrTypeMismatch
		}
		return e.obj, nil
	}
	child := New()
	parent.set(last, &entry{tag: Obj, obj: child})
	return child, nil
}

// --- pointer ---

func (o *Object) GetPointer(key string) (*PointerValue, error) {
	e, err := o.get(key)
	if err != nil {
		return nil, err
	}
	if e.tag != Pointer {
		return nil, ErrTypeMismatch
	}
	return e.ptr, nil
}

func (o *Object) SetPointer(key string, pv *PointerValue) error {
	return o.setLeaf(key, &entry{tag: Pointer, ptr: pv})
}
