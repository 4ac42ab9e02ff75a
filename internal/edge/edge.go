// Package edge implements named, directed, constrained edge fields
// (§4.4, C5): per-field-name constraints registered once, each edge
// optionally carrying a metadata TypedObject.
package edge

import (
	"errors"

	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
	"graphdb/internal/object"
)

var (
	ErrNotFound         = errors.New("edge: not found")
	ErrSingleFieldFull  = errors.New("edge: single-valued field already has a reference")
	ErrUnknownField     = errors.New("edge: field has no registered constraint")
	ErrReverseMismatch  = errors.New("edge: reverse field must pair symmetrically")
)

// OnDelete describes what happens to an edge when its destination node
// is destroyed.
type OnDelete uint8

const (
	// OnDeleteClear removes the edge silently (default).
	OnDeleteClear OnDelete = iota
	// OnDeleteCascade is recorded on the Constraint only: TeardownNode
	// removes the edges the same way as for OnDeleteClear and does not
	// destroy any source node.
	OnDeleteCascade
)

// Constraint is the per-field-name descriptor, registered once.
type Constraint struct {
	Name     string
	Multi    bool
	Reverse  string // paired reverse field name, or "" if unidirectional
	OnDelete OnDelete
}

// fieldData is one node's state for one edge field.
type fieldData struct {
	refs *ids.Vector
	meta map[ids.NodeId]*object.Object
}

func newFieldData() *fieldData {
	return &fieldData{refs: ids.NewVector(), meta: make(map[ids.NodeId]*object.Object)}
}

// Fields is the edge-fields container attached to hierarchy.Node.Edges.
type Fields struct {
	byField map[string]*fieldData
}

func newFields() *Fields {
	return &Fields{byField: make(map[string]*fieldData)}
}

func fieldsOf(n *hierarchy.Node) *Fields {
	f, ok := n.Edges.(*Fields)
	if !ok {
		f = newFields()
		n.Edges = f
	}
	return f
}

// Store is the process-wide registry of edge field constraints, and
// the operations that act on them given a Hierarchy.
type Store struct {
	h        *hierarchy.Hierarchy
	registry map[string]*Constraint
}

// NewStore binds an edge Store to a Hierarchy.
func NewStore(h *hierarchy.Hierarchy) *Store {
	return &Store{h: h, registry: make(map[string]*Constraint)}
}

// Register installs (or replaces) a field's constraint. A bidirectional
// constraint also registers its reverse field pointing back.
func (s *Store) Register(c Constraint) {
	s.registry[c.Name] = &c
	if c.Reverse != "" {
		if _, ok := s.registry[c.Reverse]; !ok {
			s.registry[c.Reverse] = &Constraint{
				Name: c.Reverse, Multi: c.Multi, Reverse: c.Name, OnDelete: c.OnDelete,
			}
		}
	}
}

func (s *Store) constraint(field string) (*Constraint, error) {
	c, ok := s.registry[field]
	if !ok {
		return nil, ErrUnknownField
	}
	return c, nil
}

// AddEdge adds src --field--> dst. For bidirectional fields, the
// reverse edge on dst is installed symmetrically (§4.4 invariant).
func (s *Store) AddEdge(src ids.NodeId, field string, dst ids.NodeId) error {
	c, err := s.constraint(field)
	if err != nil {
		return err
	}
	srcNode, ok := s.h.Find(src)
	if !ok {
		return ErrNotFound
	}
	if _, ok := s.h.Find(dst); !ok {
		return ErrNotFound
	}
	fd := fieldsOf(srcNode).field(field)
	if !c.Multi && fd.refs.Len() >= 1 && !fd.refs.Has(dst) {
		return ErrSingleFieldFull
	}
	fd.refs.Add(dst)

	if c.Reverse != "" {
		dstNode, _ := s.h.Find(dst)
		rc, err := s.constraint(c.Reverse)
		if err != nil {
			return ErrReverseMismatch
		}
		rfd := fieldsOf(dstNode).field(c.Reverse)
		if !rc.Multi && rfd.refs.Len() >= 1 && !rfd.refs.Has(src) {
			return ErrSingleFieldFull
		}
		rfd.refs.Add(src)
	}
	return nil
}

func (f *Fields) field(name string) *fieldData {
	fd, ok := f.byField[name]
	if !ok {
		fd = newFieldData()
		f.byField[name] = fd
	}
	return fd
}

// DelEdge removes src --field--> dst, tearing down the reverse edge
// first as required by the invariant.
func (s *Store) DelEdge(src ids.NodeId, field string, dst ids.NodeId) error {
	c, err := s.constraint(field)
	if err != nil {
		return err
	}
	srcNode, ok := s.h.Find(src)
	if !ok {
		return ErrNotFound
	}
	if c.Reverse != "" {
		if dstNode, ok := s.h.Find(dst); ok {
			rfd := fieldsOf(dstNode).field(c.Reverse)
			rfd.refs.Remove(src)
			delete(rfd.meta, src)
		}
	}
	fd := fieldsOf(srcNode).field(field)
	fd.refs.Remove(dst)
	delete(fd.meta, dst)
	return nil
}

// GetField returns the destinations of src's field, in insertion order
// until a destination is removed: removal moves the last destination
// into the freed slot.
func (s *Store) GetField(src ids.NodeId, field string) []ids.NodeId {
	n, ok := s.h.Find(src)
	if !ok {
		return nil
	}
	fd, ok := fieldsOf(n).byField[field]
	if !ok {
		return nil
	}
	return fd.refs.Items()
}

// Has reports whether src's field contains dst.
func (s *Store) Has(src ids.NodeId, field string, dst ids.NodeId) bool {
	n, ok := s.h.Find(src)
	if !ok {
		return false
	}
	fd, ok := fieldsOf(n).byField[field]
	if !ok {
		return false
	}
	return fd.refs.Has(dst)
}

// DerefSingle returns the sole destination of a single-valued field.
func (s *Store) DerefSingle(src ids.NodeId, field string) (ids.NodeId, bool) {
	items := s.GetField(src, field)
	if len(items) == 0 {
		return ids.NodeId{}, false
	}
	return items[0], true
}

// DeleteFieldMetadata drops every per-edge metadata object for a field.
func (s *Store) DeleteFieldMetadata(src ids.NodeId, field string) {
	n, ok := s.h.Find(src)
	if !ok {
		return
	}
	fd, ok := fieldsOf(n).byField[field]
	if !ok {
		return
	}
	for k := range fd.meta {
		delete(fd.meta, k)
	}
}

// GetEdgeMetadata returns the metadata TypedObject for one edge,
// optionally creating it.
func (s *Store) GetEdgeMetadata(src ids.NodeId, field string, dst ids.NodeId, createIfMissing bool) (*object.Object, error) {
	n, ok := s.h.Find(src)
	if !ok {
		return nil, ErrNotFound
	}
	fd := fieldsOf(n).field(field)
	if !fd.refs.Has(dst) {
		return nil, ErrNotFound
	}
	m, ok := fd.meta[dst]
	if !ok {
		if !createIfMissing {
			return nil, ErrNotFound
		}
		m = object.New()
		fd.meta[dst] = m
	}
	return m, nil
}

// TeardownNode removes every edge referencing id, in either direction,
// across every node in the hierarchy — called when id is destroyed
// (§3 "edge fields are torn down, which triggers edge-constraint
// cleanup on the remote side").
func (s *Store) TeardownNode(id ids.NodeId) {
	for _, other := range s.h.AllIDs() {
		if other == id {
			continue
		}
		n, ok := s.h.Find(other)
		if !ok {
			continue
		}
		f, ok := n.Edges.(*Fields)
		if !ok {
			continue
		}
		for _, fd := range f.byField {
			fd.refs.Remove(id)
			delete(fd.meta, id)
		}
	}
}
