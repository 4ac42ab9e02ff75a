package admin_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"graphdb/internal/admin"
	"graphdb/internal/config"
	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
	"graphdb/internal/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	h := hierarchy.New()
	h.Add(ids.New("a"), []ids.NodeId{ids.Root}, nil, true)

	stats := &admin.StatsProvider{
		Hierarchy: h,
		Index:     index.NewMetrics("graphdb_router_test", nil),
		Config: &config.Config{
			Environment:      "development",
			ListenAddr:       ":7070",
			SnapshotPath:     "./data/snapshot.bin",
			SnapshotInterval: 300,
			IndexMaxEntries:  128,
		},
	}
	validator := admin.NewTokenValidator("shared-secret", "graphdb")
	return admin.NewRouter(stats, validator, zap.NewNop()).Setup()
}

func TestRouterHealthAndReady(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterSwaggerDocIsPublic(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/swagger", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "graphdb admin API")
}

func TestRouterAdminRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/stats", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterAdminStatsWithValidToken(t *testing.T) {
	r := newTestRouter(t)
	token := signToken(t, "shared-secret", "graphdb", "operator-1", false)

	req := httptest.NewRequest("GET", "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"nodes"`)
}

func TestRouterAdminConfigReportsSnapshotIntervalAsSeconds(t *testing.T) {
	r := newTestRouter(t)
	token := signToken(t, "shared-secret", "graphdb", "operator-1", false)

	req := httptest.NewRequest("GET", "/admin/config", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"snapshot_interval_seconds":300`)
}
