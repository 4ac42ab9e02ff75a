package ids

// ElementKind identifies the homogeneous element type of a Set or Array
// value inside a TypedObject (§3).
type ElementKind uint8

const (
	KindNone ElementKind = iota
	KindString
	KindDouble
	KindLong
	KindNodeId
)

// Set is a homogeneous, insertion-ordered set over one of
// {string, double, long, NodeId}. The element kind is fixed on first
// insert; attempting to insert a different kind is a type_mismatch
// error at the call site (object package), not here.
type Set struct {
	Kind    ElementKind
	strs    map[string]struct{}
	strOrd  []string
	doubles map[float64]struct{}
	dblOrd  []float64
	longs   map[int64]struct{}
	llOrd   []int64
	nodes   map[NodeId]struct{}
	nodeOrd []NodeId
}

// NewSet creates an empty, kind-less Set.
func NewSet() *Set {
	return &Set{}
}

func (s *Set) ensureKind(k ElementKind) bool {
	if s.Kind == KindNone {
		s.Kind = k
		switch k {
		case KindString:
			s.strs = make(map[string]struct{})
		case KindDouble:
			s.doubles = make(map[float64]struct{})
		case KindLong:
			s.longs = make(map[int64]struct{})
		case KindNodeId:
			s.nodes = make(map[NodeId]struct{})
		}
		return true
	}
	return s.Kind == k
}

// AddString inserts a string element. Reports (added, ok); ok is false
// on a kind mismatch.
func (s *Set) AddString(v string) (added, ok bool) {
	if !s.ensureKind(KindString) {
		return false, false
	}
	if _, exists := s.strs[v]; exists {
		return false, true
	}
	s.strs[v] = struct{}{}
	s.strOrd = append(s.strOrd, v)
	return true, true
}

func (s *Set) RemoveString(v string) bool {
	if s.Kind != KindString {
		return false
	}
	if _, exists := s.strs[v]; !exists {
		return false
	}
	delete(s.strs, v)
	for i, e := range s.strOrd {
		if e == v {
			s.strOrd = append(s.strOrd[:i], s.strOrd[i+1:]...)
			break
		}
	}
	return true
}

func (s *Set) HasString(v string) bool {
	if s.Kind != KindString {
		return false
	}
	_, ok := s.strs[v]
	return ok
}

func (s *Set) Strings() []string {
	return s.strOrd
}

func (s *Set) AddDouble(v float64) (added, ok bool) {
	if !s.ensureKind(KindDouble) {
		return false, false
	}
	if _, exists := s.doubles[v]; exists {
		return false, true
	}
	s.doubles[v] = struct{}{}
	s.dblOrd = append(s.dblOrd, v)
	return true, true
}

func (s *Set) RemoveDouble(v float64) bool {
	if s.Kind != KindDouble {
		return false
	}
	if _, exists := s.doubles[v]; !exists {
		return false
	}
	delete(s.doubles, v)
	for i, e := range s.dblOrd {
		if e == v {
			s.dblOrd = append(s.dblOrd[:i], s.dblOrd[i+1:]...)
			break
		}
	}
	return true
}

func (s *Set) Doubles() []float64 { return s.dblOrd }

func (s *Set) HasDouble(v float64) bool {
	if s.Kind != KindDouble {
		return false
	}
	_, ok := s.doubles[v]
	return ok
}

func (s *Set) AddLong(v int64) (added, ok bool) {
	if !s.ensureKind(KindLong) {
		return false, false
	}
	if _, exists := s.longs[v]; exists {
		return false, true
	}
	s.longs[v] = struct{}{}
	s.llOrd = append(s.llOrd, v)
	return true, true
}

func (s *Set) RemoveLong(v int64) bool {
	if s.Kind != KindLong {
		return false
	}
	if _, exists := s.longs[v]; !exists {
		return false
	}
	delete(s.longs, v)
	for i, e := range s.llOrd {
		if e == v {
			s.llOrd = append(s.llOrd[:i], s.llOrd[i+1:]...)
			break
		}
	}
	return true
}

func (s *Set) Longs() []int64 { return s.llOrd }

func (s *Set) HasLong(v int64) bool {
	if s.Kind != KindLong {
		return false
	}
	_, ok := s.longs[v]
	return ok
}

func (s *Set) AddNodeId(v NodeId) (added, ok bool) {
	if !s.ensureKind(KindNodeId) {
		return false, false
	}
	if _, exists := s.nodes[v]; exists {
		return false, true
	}
	s.nodes[v] = struct{}{}
	s.nodeOrd = append(s.nodeOrd, v)
	return true, true
}

func (s *Set) RemoveNodeId(v NodeId) bool {
	if s.Kind != KindNodeId {
		return false
	}
	if _, exists := s.nodes[v]; !exists {
		return false
	}
	delete(s.nodes, v)
	for i, e := range s.nodeOrd {
		if e == v {
			s.nodeOrd = append(s.nodeOrd[:i], s.nodeOrd[i+1:]...)
			break
		}
	}
	return true
}

func (s *Set) NodeIds() []NodeId { return s.nodeOrd }

func (s *Set) HasNodeId(v NodeId) bool {
	if s.Kind != KindNodeId {
		return false
	}
	_, ok := s.nodes[v]
	return ok
}

// Len returns the number of elements regardless of kind.
func (s *Set) Len() int {
	switch s.Kind {
	case KindString:
		return len(s.strOrd)
	case KindDouble:
		return len(s.dblOrd)
	case KindLong:
		return len(s.llOrd)
	case KindNodeId:
		return len(s.nodeOrd)
	default:
		return 0
	}
}

// Union merges s and other into a new Set and never returns nil. The
// result takes the kind of the first non-empty input; elements of other
// whose kind differs from that are dropped.
func (s *Set) Union(other *Set) *Set {
	out := NewSet()
	if s != nil {
		switch s.Kind {
		case KindString:
			for _, v := range s.strOrd {
				out.AddString(v)
			}
		case KindDouble:
			for _, v := range s.dblOrd {
				out.AddDouble(v)
			}
		case KindLong:
			for _, v := range s.llOrd {
				out.AddLong(v)
			}
		case KindNodeId:
			for _, v := range s.nodeOrd {
				out.AddNodeId(v)
			}
		}
	}
	if other != nil {
		switch other.Kind {
		case KindString:
			for _, v := range other.strOrd {
				out.AddString(v)
			}
		case KindDouble:
			for _, v := range other.dblOrd {
				out.AddDouble(v)
			}
		case KindLong:
			for _, v := range other.llOrd {
				out.AddLong(v)
			}
		case KindNodeId:
			for _, v := range other.nodeOrd {
				out.AddNodeId(v)
			}
		}
	}
	return out
}

// Clone deep-copies the set.
func (s *Set) Clone() *Set {
	out := NewSet()
	out.Kind = s.Kind
	switch s.Kind {
	case KindString:
		out.strs = make(map[string]struct{}, len(s.strs))
		for k := range s.strs {
			out.strs[k] = struct{}{}
		}
		out.strOrd = append([]string(nil), s.strOrd...)
	case KindDouble:
		out.doubles = make(map[float64]struct{}, len(s.doubles))
		for k := range s.doubles {
			out.doubles[k] = struct{}{}
		}
		out.dblOrd = append([]float64(nil), s.dblOrd...)
	case KindLong:
		out.longs = make(map[int64]struct{}, len(s.longs))
		for k := range s.longs {
			out.longs[k] = struct{}{}
		}
		out.llOrd = append([]int64(nil), s.llOrd...)
	case KindNodeId:
		out.nodes = make(map[NodeId]struct{}, len(s.nodes))
		for k := range s.nodes {
			out.nodes[k] = struct{}{}
		}
		out.nodeOrd = append([]NodeId(nil), s.nodeOrd...)
	}
	return out
}
