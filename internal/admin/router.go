package admin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"graphdb/internal/config"
	"graphdb/internal/hierarchy"
	"graphdb/internal/index"
	"graphdb/internal/snapshot"
)

// StatsProvider is the read-only surface the admin router needs from
// the running server, kept narrow so cmd/server can wire it without
// exposing the full Session/Registry machinery over HTTP.
type StatsProvider struct {
	Hierarchy *hierarchy.Hierarchy
	Index     *index.Metrics
	Config    *config.Config
}

// Router builds the operational HTTP surface: health/ready probes, a
// JWT-gated admin group, and the swagger document, following
// interfaces/http/rest/router.go's Router{...}.Setup() shape.
type Router struct {
	stats     *StatsProvider
	validator *TokenValidator
	logger    *zap.Logger
}

func NewRouter(stats *StatsProvider, validator *TokenValidator, logger *zap.Logger) *Router {
	return &Router{stats: stats, validator: validator, logger: logger}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.health)
	r.Get("/ready", rt.ready)
	r.Get("/api/swagger", rt.swaggerDoc)

	r.Route("/admin", func(r chi.Router) {
		r.Use(Authenticate(rt.validator))
		r.Get("/stats", rt.adminStats)
		r.Get("/config", rt.adminConfig)
		r.Post("/snapshot", rt.adminSnapshot)
	})

	return r
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"healthy"}`))
}

func (rt *Router) ready(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if rt.stats.Hierarchy == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"not-ready"}`))
		return
	}
	w.Write([]byte(`{"status":"ready"}`))
}

func (rt *Router) swaggerDoc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(docTemplate))
}

func (rt *Router) adminStats(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	nodeCount := len(rt.stats.Hierarchy.AllIDs())
	json.NewEncoder(w).Encode(map[string]interface{}{
		"nodes":        nodeCount,
		"requested_by": claims.UserID,
	})
}

func (rt *Router) adminConfig(w http.ResponseWriter, r *http.Request) {
	cfg := rt.stats.Config
	json.NewEncoder(w).Encode(map[string]interface{}{
		"environment":       cfg.Environment,
		"listen_addr":       cfg.ListenAddr,
		"snapshot_path":     cfg.SnapshotPath,
		"snapshot_interval_seconds": cfg.SnapshotInterval,
		"index_max_entries": cfg.IndexMaxEntries,
		"loaded_from":       cfg.LoadedFrom,
	})
}

func (rt *Router) adminSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := snapshot.SaveFile(rt.stats.Config.SnapshotPath, rt.stats.Hierarchy); err != nil {
		rt.logger.Error("admin: snapshot trigger failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
