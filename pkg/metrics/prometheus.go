// Package metrics provides Prometheus metrics for the ensayos client and its SPA host.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the ensayos client and host.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Outbound API metrics
	clientRequests        *prometheus.CounterVec
	clientRequestDuration *prometheus.HistogramVec
	clientFallbacks       *prometheus.CounterVec
	clientFailures        *prometheus.CounterVec

	// Route table metrics
	routeResolutions *prometheus.CounterVec

	// Host HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default global registry.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	customRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ensayos",
		subsystem:        "",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.clientRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "client_requests_total",
		Help:        "Outbound API requests by operation, method and status class",
		ConstLabels: m.customLabels,
	}, []string{"operation", "method", "status"})

	m.clientRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "client_request_duration_milliseconds",
		Help:        "Outbound API request latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, []string{"operation", "method"})

	m.clientFallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "client_fallbacks_total",
		Help:        "Operations that retried on the legacy path after the primary path failed",
		ConstLabels: m.customLabels,
	}, []string{"operation"})

	m.clientFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "client_failures_total",
		Help:        "Operations that failed after every attempt",
		ConstLabels: m.customLabels,
	}, []string{"operation"})

	m.routeResolutions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "route_resolutions_total",
		Help:        "Route table lookups by resolved page (none when unmatched)",
		ConstLabels: m.customLabels,
	}, []string{"page"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests served by endpoint and method",
		ConstLabels: m.customLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_errors_total",
		Help:        "HTTP error responses by endpoint, method and error type",
		ConstLabels: m.customLabels,
	}, []string{"endpoint", "method", "error_type"})
}

// RecordClientRequest records one outbound request attempt.
func (m *Manager) RecordClientRequest(operation, method, status string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.clientRequests.WithLabelValues(operation, method, status).Inc()
	m.clientRequestDuration.WithLabelValues(operation, method).Observe(durationMs)
}

// RecordClientFallback records a switch from the primary to the legacy path.
func (m *Manager) RecordClientFallback(operation string) {
	if !m.enabled {
		return
	}
	m.clientFallbacks.WithLabelValues(operation).Inc()
}

// RecordClientFailure records an operation that failed for good.
func (m *Manager) RecordClientFailure(operation string) {
	if !m.enabled {
		return
	}
	m.clientFailures.WithLabelValues(operation).Inc()
}

// RecordRouteResolution records a route table lookup.
func (m *Manager) RecordRouteResolution(page string) {
	if !m.enabled {
		return
	}
	m.routeResolutions.WithLabelValues(page).Inc()
}

// RecordHTTPRequest records a served HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error response for an endpoint.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordClientRequest records one outbound request attempt on the global manager.
func RecordClientRequest(operation, method, status string, durationMs float64) {
	globalManager.RecordClientRequest(operation, method, status, durationMs)
}

// RecordClientFallback increments the fallback counter for operation.
func RecordClientFallback(operation string) {
	globalManager.RecordClientFallback(operation)
}

// RecordClientFailure increments the failure counter for operation.
func RecordClientFailure(operation string) {
	globalManager.RecordClientFailure(operation)
}

// RecordRouteResolution increments the resolution counter for page.
func RecordRouteResolution(page string) {
	globalManager.RecordRouteResolution(page)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByEndpoint records an HTTP error for endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
