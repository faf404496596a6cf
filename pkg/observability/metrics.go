package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// CacheRequests tracks response cache lookups by outcome
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echotube_cache_requests_total",
			Help: "Total number of response cache lookups",
		},
		[]string{"category", "result"}, // result: hit, miss, error
	)

	// SourceCalls tracks metrics source calls by outcome
	SourceCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echotube_source_calls_total",
			Help: "Total number of metrics source calls",
		},
		[]string{"operation", "status"}, // status: success, quota, error
	)

	// SourceCallDuration measures metrics source call latency
	SourceCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "echotube_source_call_duration_seconds",
			Help:    "Metrics source call latency",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		},
		[]string{"operation"},
	)

	// FallbacksServed tracks degraded responses by kind
	FallbacksServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echotube_fallbacks_served_total",
			Help: "Total number of degraded responses served",
		},
		[]string{"category", "kind"}, // kind: stale, demo
	)

	// RefreshTasks tracks background cache refresh tasks by outcome
	RefreshTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echotube_refresh_tasks_total",
			Help: "Total number of background cache refresh tasks processed",
		},
		[]string{"category", "status"}, // status: success, requeued, failed
	)
)

// RecordCacheLookup records a response cache lookup outcome
func RecordCacheLookup(category, result string) {
	CacheRequests.WithLabelValues(category, result).Inc()
}

// RecordSourceCall records a metrics source call outcome and latency
func RecordSourceCall(operation, status string, duration time.Duration) {
	SourceCalls.WithLabelValues(operation, status).Inc()
	SourceCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFallback records a degraded response
func RecordFallback(category, kind string) {
	FallbacksServed.WithLabelValues(category, kind).Inc()
}

// RecordRefreshTask records a background refresh task outcome
func RecordRefreshTask(category, status string) {
	RefreshTasks.WithLabelValues(category, status).Inc()
}
