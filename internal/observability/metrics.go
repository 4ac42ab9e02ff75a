package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"graphdb/internal/index"
)

// MetricsServer exposes an index.Metrics registry over HTTP for
// Prometheus scraping (DESIGN.md C8's admission/eviction/hit-rate
// gauges), following the teacher's per-instance-registry pattern
// rather than the global default registerer.
type MetricsServer struct {
	srv *http.Server
}

// NewMetricsServer builds (but does not start) a server exposing
// metrics.Registry() at /metrics on addr.
func NewMetricsServer(addr string, metrics *index.Metrics) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	return &MetricsServer{srv: &http.Server{Addr: addr, Handler: mux}}
}

// Handler exposes the server's mux directly so tests can exercise
// /metrics without binding a socket.
func (m *MetricsServer) Handler() http.Handler { return m.srv.Handler }

// Start runs the metrics server until Shutdown is called.
func (m *MetricsServer) Start() error {
	err := m.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
