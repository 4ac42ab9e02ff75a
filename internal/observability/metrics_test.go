package observability_test

import (
	"net/http/httptest"
	"testing"

	"graphdb/internal/index"
	"graphdb/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServerServesRegistry(t *testing.T) {
	metrics := index.NewMetrics("graphdb_test", nil)
	metrics.Admissions.Inc()

	srv := observability.NewMetricsServer(":0", metrics)
	require.NotNil(t, srv)

	handler := srv.Handler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	handler.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "graphdb_test_index_admissions_total")
}
