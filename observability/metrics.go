package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Analysis metrics
	AnalysisRequestsTotal *prometheus.CounterVec
	AnalysisDuration      *prometheus.HistogramVec
	AnalysisErrorsTotal   *prometheus.CounterVec

	// Tool metrics
	ToolInvocationsTotal *prometheus.CounterVec
	ToolDuration         *prometheus.HistogramVec

	// External API metrics
	ExternalAPIRequestsTotal *prometheus.CounterVec
	ExternalAPIErrorsTotal   *prometheus.CounterVec
	ExternalAPIDuration      *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// globalMetrics is the global metrics instance
var globalMetrics *Metrics

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	m := &Metrics{
		AnalysisRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "analysis",
				Name:      "requests_total",
				Help:      "Total number of stock analysis requests",
			},
			[]string{"symbol"},
		),
		AnalysisDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stock_analysis",
				Subsystem: "analysis",
				Name:      "duration_seconds",
				Help:      "Duration of stock analysis in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"symbol", "status"},
		),
		AnalysisErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "analysis",
				Name:      "errors_total",
				Help:      "Total number of analysis errors",
			},
			[]string{"symbol", "error_type"},
		),

		ToolInvocationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "tool",
				Name:      "invocations_total",
				Help:      "Total number of agent tool invocations",
			},
			[]string{"tool"},
		),
		ToolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stock_analysis",
				Subsystem: "tool",
				Name:      "duration_seconds",
				Help:      "Duration of agent tool invocations in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"tool"},
		),

		ExternalAPIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "external_api",
				Name:      "requests_total",
				Help:      "Total number of external API requests",
			},
			[]string{"service", "operation"},
		),
		ExternalAPIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "external_api",
				Name:      "errors_total",
				Help:      "Total number of external API errors",
			},
			[]string{"service", "operation", "error_type"},
		),
		ExternalAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stock_analysis",
				Subsystem: "external_api",
				Name:      "duration_seconds",
				Help:      "Duration of external API calls in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"service", "operation"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stock_analysis",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stock_analysis",
				Subsystem: "http",
				Name:      "response_size_bytes",
				Help:      "Size of HTTP responses in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "path"},
		),

		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "stock_analysis",
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"service"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Total number of circuit breaker trips",
			},
			[]string{"service"},
		),
	}

	return m
}

// InitMetrics initializes the global metrics instance
func InitMetrics() *Metrics {
	globalMetrics = NewMetrics(nil)
	return globalMetrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		return InitMetrics()
	}
	return globalMetrics
}

// SetMetrics overrides the global metrics instance (useful for tests
// that need an isolated registry)
func SetMetrics(m *Metrics) {
	globalMetrics = m
}

// RecordAnalysisRequest records a stock analysis request
func (m *Metrics) RecordAnalysisRequest(symbol string) {
	m.AnalysisRequestsTotal.WithLabelValues(symbol).Inc()
}

// RecordAnalysisError records an analysis error
func (m *Metrics) RecordAnalysisError(symbol, errorType string) {
	m.AnalysisErrorsTotal.WithLabelValues(symbol, errorType).Inc()
}

// RecordToolInvocation records an agent tool invocation
func (m *Metrics) RecordToolInvocation(tool string) {
	m.ToolInvocationsTotal.WithLabelValues(tool).Inc()
}

// RecordExternalAPIRequest records an external API request
func (m *Metrics) RecordExternalAPIRequest(service, operation string) {
	m.ExternalAPIRequestsTotal.WithLabelValues(service, operation).Inc()
}

// RecordExternalAPIError records an external API error
func (m *Metrics) RecordExternalAPIError(service, operation, errorType string) {
	m.ExternalAPIErrorsTotal.WithLabelValues(service, operation, errorType).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration, responseSize int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// SetCircuitBreakerState sets the current state of a circuit breaker
func (m *Metrics) SetCircuitBreakerState(service string, state int) {
	m.CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(service string) {
	m.CircuitBreakerTrips.WithLabelValues(service).Inc()
}

// Timer is a helper for timing operations
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer creates a new timer
func (m *Metrics) NewTimer() *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
	}
}

// ObserveAnalysis records the analysis duration and status
func (t *Timer) ObserveAnalysis(symbol, status string) {
	t.metrics.AnalysisDuration.WithLabelValues(symbol, status).Observe(time.Since(t.start).Seconds())
}

// ObserveTool records the duration of a tool invocation
func (t *Timer) ObserveTool(tool string) {
	t.metrics.ToolDuration.WithLabelValues(tool).Observe(time.Since(t.start).Seconds())
}

// ObserveExternalAPI records the duration of an external API call
func (t *Timer) ObserveExternalAPI(service, operation string) {
	t.metrics.ExternalAPIDuration.WithLabelValues(service, operation).Observe(time.Since(t.start).Seconds())
}
