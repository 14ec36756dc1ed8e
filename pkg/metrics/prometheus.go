// Package metrics provides Prometheus metrics for the Podium analytics service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the Podium service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Dataset lifecycle
	datasetsLoaded    prometheus.Counter
	datasetsDuplicate prometheus.Counter
	datasetsEvicted   prometheus.Counter
	datasetCount      prometheus.Gauge
	normalizeDuration prometheus.Histogram
	rowsDropped       prometheus.Counter
	rowsNormalized    prometheus.Counter
	schemaErrors      prometheus.Counter

	// Aggregation performance
	aggregationDuration *prometheus.HistogramVec

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "podium",
		subsystem:        "analytics",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.datasetsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "datasets_loaded_total",
		Help:      "Total number of datasets normalized and registered",
	})
	m.datasetsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "datasets_duplicate_total",
		Help:      "Uploads answered from the content-hash cache",
	})
	m.datasetsEvicted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "datasets_evicted_total",
		Help:      "Datasets evicted from the registry at capacity",
	})
	m.datasetCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_count",
		Help:      "Datasets currently held in the registry",
	})
	m.normalizeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "normalize_duration_milliseconds",
		Help:      "Time spent decoding and normalizing an upload",
		Buckets:   m.histogramBuckets,
	})
	m.rowsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_dropped_total",
		Help:      "Rows dropped during normalization for missing Year, Country or Athlete",
	})
	m.rowsNormalized = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_normalized_total",
		Help:      "Rows retained after normalization",
	})
	m.schemaErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "schema_errors_total",
		Help:      "Uploads rejected for missing required columns",
	})

	m.aggregationDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_duration_milliseconds",
		Help:      "Aggregation compute time by kind",
		Buckets:   m.histogramBuckets,
	}, []string{"kind"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration by endpoint, method and status",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP error responses by endpoint and error type",
	}, []string{"endpoint", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordDatasetLoaded increments the datasets loaded counter.
func RecordDatasetLoaded() {
	globalManager.datasetsLoaded.Inc()
}

// RecordDatasetDuplicate increments the duplicate upload counter.
func RecordDatasetDuplicate() {
	globalManager.datasetsDuplicate.Inc()
}

// RecordDatasetEvicted increments the eviction counter.
func RecordDatasetEvicted() {
	globalManager.datasetsEvicted.Inc()
}

// UpdateDatasetCount updates the registry size gauge.
func UpdateDatasetCount(count int) {
	globalManager.datasetCount.Set(float64(count))
}

// RecordNormalizeDuration records an upload's normalization time in milliseconds.
func RecordNormalizeDuration(ms float64) {
	globalManager.normalizeDuration.Observe(ms)
}

// RecordRowsDropped adds to the dropped-rows counter.
func RecordRowsDropped(n int) {
	globalManager.rowsDropped.Add(float64(n))
}

// RecordRowsNormalized adds to the retained-rows counter.
func RecordRowsNormalized(n int) {
	globalManager.rowsNormalized.Add(float64(n))
}

// RecordSchemaError increments the rejected-upload counter.
func RecordSchemaError() {
	globalManager.schemaErrors.Inc()
}

// RecordAggregation records an aggregation's compute time in milliseconds.
func RecordAggregation(kind string, ms float64) {
	globalManager.aggregationDuration.WithLabelValues(kind).Observe(ms)
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// RecordHTTPError increments the HTTP error counter.
func RecordHTTPError(endpoint, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, errorType).Inc()
}

// UpdateSystemMemoryUsage updates the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
