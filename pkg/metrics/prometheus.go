package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the fairshare service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Calculation metrics
	calculationsTotal          prometheus.Counter
	validationFailures         *prometheus.CounterVec
	calculationLatency         prometheus.Histogram
	participantsPerCalculation prometheus.Histogram
	transfersPerCalculation    prometheus.Histogram
	prizePool                  prometheus.Histogram
	conservationViolations     prometheus.Counter
	renamesTotal               prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "fairshare",
		subsystem:      "calculator",
		latencyBuckets: prometheus.DefBuckets,
		constLabels:    prometheus.Labels{},
		registry:       prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.calculationsTotal = auto.NewCounter(m.counterOpts(
		"calculations_total", "Total number of successful prize calculations"))

	m.validationFailures = auto.NewCounterVec(m.counterOpts(
		"validation_failures_total", "Rejected calculation requests by offending field"),
		[]string{"field"})

	m.calculationLatency = auto.NewHistogram(m.histogramOpts(
		"calculation_latency_milliseconds", "Time spent validating, distributing and settling one request",
		m.latencyBuckets))

	m.participantsPerCalculation = auto.NewHistogram(m.histogramOpts(
		"participants_per_calculation", "Number of participants in each calculation",
		prometheus.LinearBuckets(1, 1, 12)))

	m.transfersPerCalculation = auto.NewHistogram(m.histogramOpts(
		"transfers_per_calculation", "Number of transfers emitted by each calculation",
		prometheus.LinearBuckets(0, 1, 12)))

	m.prizePool = auto.NewHistogram(m.histogramOpts(
		"prize_pool_amount", "Total prize pool of each calculation",
		prometheus.ExponentialBuckets(1, 4, 10)))

	m.conservationViolations = auto.NewCounter(m.counterOpts(
		"conservation_violations_total", "Calculations whose deserved amounts do not add up to the pool"))

	m.renamesTotal = auto.NewCounter(m.counterOpts(
		"renames_total", "Participant renames applied to existing calculations"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		m.latencyBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"})

	m.errorLatency = auto.NewHistogramVec(m.histogramOpts(
		"error_latency_milliseconds", "Latency of operations that resulted in errors",
		m.latencyBuckets),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "System memory usage in bytes"))

	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))

	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// ObserveCalculation records one successful calculation.
func (m *Manager) ObserveCalculation(participants, transfers int, pool, latencyMs float64) {
	m.calculationsTotal.Inc()
	m.participantsPerCalculation.Observe(float64(participants))
	m.transfersPerCalculation.Observe(float64(transfers))
	m.prizePool.Observe(pool)
	m.calculationLatency.Observe(latencyMs)
}

// RecordValidationFailure counts a rejected request. Participant indexes are
// dropped from the label so "participants[3].name" becomes "participants.name".
func (m *Manager) RecordValidationFailure(field string) {
	m.validationFailures.WithLabelValues(FieldLabel(field)).Inc()
}

// RecordConservationViolation counts a calculation that did not conserve the pool.
func (m *Manager) RecordConservationViolation() {
	m.conservationViolations.Inc()
}

// RecordRename counts an applied rename.
func (m *Manager) RecordRename() {
	m.renamesTotal.Inc()
}

// FieldLabel strips bracketed indexes from a field path.
func FieldLabel(field string) string {
	var b strings.Builder
	depth := 0
	for _, r := range field {
		switch {
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ObserveCalculation records a calculation on the global manager.
func ObserveCalculation(participants, transfers int, pool, latencyMs float64) {
	globalManager.ObserveCalculation(participants, transfers, pool, latencyMs)
}

// RecordValidationFailure counts a rejected request on the global manager.
func RecordValidationFailure(field string) {
	globalManager.RecordValidationFailure(field)
}

// RecordConservationViolation counts a conservation violation on the global manager.
func RecordConservationViolation() {
	globalManager.RecordConservationViolation()
}

// RecordRename counts a rename on the global manager.
func RecordRename() {
	globalManager.RecordRename()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Configure rebuilds the global manager on a fresh registry with opts and
// returns that registry. It must run before any handler or recorder is used,
// since GetRegistry callers keep the registry they were given.
func Configure(opts ...Option) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry = registry
	return registry
}
