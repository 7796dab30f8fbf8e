// Package metrics provides Prometheus metrics for the verasim service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the verasim service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Generation metrics
	groupsGenerated    prometheus.Counter
	studentsGenerated  prometheus.Counter
	responsesGenerated prometheus.Counter
	generationDuration prometheus.Histogram

	// Aggregation metrics
	aggregationDuration prometheus.Histogram
	integrityFaults     prometheus.Counter

	// Catalog and config gauges, set once at startup
	bookletsLoaded    prometheus.Gauge
	groupsConfigured  prometheus.Gauge
	schoolsConfigured prometheus.Gauge
	statesConfigured  prometheus.Gauge
	tablesConfigured  prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "verasim",
		subsystem:        "generator",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.groupsGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "groups_generated_total",
		Help:      "Total number of group populations synthesized",
	})

	m.studentsGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "students_generated_total",
		Help:      "Total number of synthetic students generated",
	})

	m.responsesGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "responses_generated_total",
		Help:      "Total number of item responses generated (students x items)",
	})

	m.generationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "generation_duration_milliseconds",
		Help:      "Duration of one group generation in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.aggregationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_duration_milliseconds",
		Help:      "Duration of one statistics aggregation in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.integrityFaults = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "integrity_faults_total",
		Help:      "Total number of data integrity faults (e.g. unmatched raw scores)",
	})

	m.bookletsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "booklets_loaded",
		Help:      "Number of booklets loaded into the catalog",
	})

	m.groupsConfigured = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "groups_configured",
		Help:      "Number of configured groups",
	})

	m.schoolsConfigured = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "schools_configured",
		Help:      "Number of configured schools",
	})

	m.statesConfigured = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "states_configured",
		Help:      "Number of configured states",
	})

	m.tablesConfigured = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "equivalence_tables_configured",
		Help:      "Number of configured equivalence tables",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordGroupGenerated records a completed group generation.
func RecordGroupGenerated(students, items int) {
	globalManager.groupsGenerated.Inc()
	globalManager.studentsGenerated.Add(float64(students))
	globalManager.responsesGenerated.Add(float64(students * items))
}

// RecordGenerationDuration records one generation run's duration in milliseconds.
func RecordGenerationDuration(durationMs float64) {
	globalManager.generationDuration.Observe(durationMs)
}

// RecordAggregationDuration records one aggregation run's duration in milliseconds.
func RecordAggregationDuration(durationMs float64) {
	globalManager.aggregationDuration.Observe(durationMs)
}

// RecordIntegrityFault increments the integrity fault counter.
func RecordIntegrityFault() {
	globalManager.integrityFaults.Inc()
}

// UpdateBookletsLoaded sets the number of loaded booklets.
func UpdateBookletsLoaded(count int) {
	globalManager.bookletsLoaded.Set(float64(count))
}

// UpdateRosterCounts sets the configured entity gauges.
func UpdateRosterCounts(groups, schools, states, tables int) {
	globalManager.groupsConfigured.Set(float64(groups))
	globalManager.schoolsConfigured.Set(float64(schools))
	globalManager.statesConfigured.Set(float64(states))
	globalManager.tablesConfigured.Set(float64(tables))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
