package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Custom histogram buckets optimized for dashboard response times ranging
	// from milliseconds to multi-second platform API round trips
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Platform API client metrics
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "platform_client_operation_duration_seconds",
			Help:    "Platform API operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	UpstreamRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_client_operation_total",
			Help: "Total number of platform API operations",
		},
		[]string{"operation", "status"},
	)

	// Session store metrics
	SessionMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_session_mutations_total",
			Help: "Session store mutations by kind and outcome",
		},
		[]string{"mutation", "status"},
	)

	SessionValidationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_session_validation_rejections_total",
			Help: "Session requests rejected before any network call",
		},
		[]string{"reason"},
	)

	StoredSessions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dashboard_stored_sessions",
			Help: "Number of sessions held per store",
		},
		[]string{"mentor"},
	)

	// Snapshot cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	SnapshotRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_snapshot_refreshes_total",
			Help: "Profile snapshot refreshes by store and outcome",
		},
		[]string{"store", "status"},
	)

	// Infrastructure Metrics
	GoRoutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
