package index

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/prometheus/client_golang/prometheus"
)

// cloudwatchPusher is the minimal surface index needs from
// cloudwatch.Client, so tests can substitute a fake (§ observability
// DOMAIN STACK: CloudWatch push-metrics complement).
type cloudwatchPusher interface {
	PutMetricData(ctx context.Context, namespace string, data []cwtypes.MetricDatum) error
}

// Metrics exposes the admission/eviction/hit-rate gauges and counters
// named in DESIGN.md's C8 entry, following the teacher's
// registry-per-collector pattern (internal/infrastructure/observability.Collector).
type Metrics struct {
	mu sync.Mutex

	registry *prometheus.Registry

	LiveIndices   prometheus.Gauge
	Admissions    prometheus.Counter
	Evictions     prometheus.Counter
	HitsTotal     prometheus.Counter
	MissesTotal   prometheus.Counter
	Cardinality   *prometheus.GaugeVec

	pusher    cloudwatchPusher
	namespace string
}

// NewMetrics builds a fresh, unregistered-to-default-registerer
// collector (mirrors the teacher's per-instance prometheus.Registry so
// tests don't collide on global registration).
func NewMetrics(namespace string, pusher cloudwatchPusher) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		LiveIndices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "index_live_total", Help: "Number of live auto-index control blocks.",
		}),
		Admissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "index_admissions_total", Help: "Total clauses promoted cold->building.",
		}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "index_evictions_total", Help: "Total control blocks evicted.",
		}),
		HitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "index_hits_total", Help: "Total index lookups served from a ready control block.",
		}),
		MissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "index_misses_total", Help: "Total index lookups that fell back to live traversal.",
		}),
		Cardinality: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "index_cardinality", Help: "Materialized set size per clause key.",
		}, []string{"clause"}),
		pusher:    pusher,
		namespace: namespace,
	}
	registry.MustRegister(m.LiveIndices, m.Admissions, m.Evictions, m.HitsTotal, m.MissesTotal, m.Cardinality)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// PushToCloudWatch forwards the current gauge values to CloudWatch as a
// complement to Prometheus scraping, for deployments without a scraper
// (e.g. the Lambda entrypoints in cmd/lambda).
func (m *Metrics) PushToCloudWatch(ctx context.Context, liveIndices float64) error {
	if m.pusher == nil {
		return nil
	}
	now := time.Now()
	return m.pusher.PutMetricData(ctx, m.namespace, []cwtypes.MetricDatum{
		{
			MetricName: aws.String("IndexLiveTotal"),
			Value:      aws.Float64(liveIndices),
			Timestamp:  aws.Time(now),
			Unit:       cwtypes.StandardUnitCount,
		},
	})
}
