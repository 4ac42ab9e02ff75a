package server

import (
	"graphdb/internal/edge"
	"graphdb/internal/hierarchy"
	"graphdb/internal/index"
	"graphdb/internal/modify"
	"graphdb/internal/query"
	"graphdb/internal/subscribe"
)

// Session binds one connection's command handlers to the shared
// engine state (§5 "Shared-resource policy": the hierarchy is shared
// by all handlers but never concurrently mutated). Registry.Dispatch
// is called from the single-threaded command loop only.
type Session struct {
	Hierarchy *hierarchy.Hierarchy
	Edges     *edge.Store
	Subs      *subscribe.Store
	Index     *index.Store
	Modify    *modify.Executor
	Query     *query.Engine

	Streams *StreamPool
}

// NewSession wires one connection's handler context from the shared
// engine singletons.
func NewSession(h *hierarchy.Hierarchy, edges *edge.Store, subs *subscribe.Store, idx *index.Store, mod *modify.Executor, q *query.Engine) *Session {
	return &Session{
		Hierarchy: h,
		Edges:     edges,
		Subs:      subs,
		Index:     idx,
		Modify:    mod,
		Query:     q,
		Streams:   NewStreamPool(),
	}
}
