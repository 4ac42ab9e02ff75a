package di

import (
	"go.uber.org/zap"

	"graphdb/internal/config"
	"graphdb/internal/edge"
	"graphdb/internal/hierarchy"
	"graphdb/internal/index"
	"graphdb/internal/modify"
	"graphdb/internal/observability"
	"graphdb/internal/query"
	"graphdb/internal/server"
	"graphdb/internal/snapshot"
	"graphdb/internal/subscribe"
)

// Server bundles every singleton a connection handler or the admin
// HTTP surface needs, the product of InitializeServer's wire graph
// (wire.go's ProvideRouter return-everything-needed shape, generalized
// from one *chi.Mux to the full set cmd/server wires into both the
// wire-protocol listener and the admin router).
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Tracer *observability.Tracer

	Hierarchy *hierarchy.Hierarchy
	Edges     *edge.Store
	Subs      *subscribe.Store
	Index     *index.Store
	Metrics   *index.Metrics
	Modify    *modify.Executor
	Query     *query.Engine

	Registry *server.Registry
	Snapshot *snapshot.DynamoSnapshotStore
}

func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	tracer *observability.Tracer,
	h *hierarchy.Hierarchy,
	edges *edge.Store,
	subs *subscribe.Store,
	idx *index.Store,
	metrics *index.Metrics,
	mod *modify.Executor,
	q *query.Engine,
	reg *server.Registry,
	snap *snapshot.DynamoSnapshotStore,
) *Server {
	return &Server{
		Config:    cfg,
		Logger:    log,
		Tracer:    tracer,
		Hierarchy: h,
		Edges:     edges,
		Subs:      subs,
		Index:     idx,
		Metrics:   metrics,
		Modify:    mod,
		Query:     q,
		Registry:  reg,
		Snapshot:  snap,
	}
}

// NewSession binds one connection's handler context to the shared
// engine singletons (server.NewSession's per-connection-state rule).
func (s *Server) NewSession() *server.Session {
	return server.NewSession(s.Hierarchy, s.Edges, s.Subs, s.Index, s.Modify, s.Query)
}
