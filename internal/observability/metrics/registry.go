// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 15, 30, 60, 120},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Summarization metrics track requests through the recursive controller
var (
	// SummarizationsTotal counts finished summarization requests by result kind
	SummarizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summarizations_total",
			Help: "Total number of summarization requests by result kind",
		},
		[]string{"kind"},
	)

	// SummarizationDuration measures wall-clock time of a whole request
	SummarizationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summarization_duration_seconds",
			Help:    "Wall-clock time of one summarization request",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"kind"},
	)

	// SummarizationPasses records how many recursion levels a request used
	SummarizationPasses = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_passes",
			Help:    "Number of recursive passes per summarization request",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)

	// SummarizationGenerations records model calls per request
	SummarizationGenerations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_generation_calls",
			Help:    "Number of generation calls per summarization request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 9),
		},
	)

	// SummariesPersistFailures counts summaries that could not be stored
	SummariesPersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "summaries_persist_failures_total",
			Help: "Total number of successful summaries that failed to persist",
		},
	)

	// EvaluationsTotal counts submitted expert ratings
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluations_total",
			Help: "Total number of submitted evaluation ratings",
		},
		[]string{"goal"},
	)
)

// Model metrics track the loaded generation capability
var (
	// ModelLoaded is 1 while a model is loaded and ready
	ModelLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_loaded",
			Help: "Whether a generation model is loaded (1) or not (0)",
		},
		[]string{"backend"},
	)

	// ModelLoadsTotal counts load and reload attempts by result
	ModelLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_loads_total",
			Help: "Total number of model load attempts",
		},
		[]string{"backend", "result"},
	)

	// CircuitBreakerState exposes breaker state (0 closed, 1 half-open, 2 open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state: 0 closed, 1 half-open, 2 open",
		},
		[]string{"name"},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// PasswordResetsPurged counts expired reset tokens removed by the worker
	PasswordResetsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "password_resets_purged_total",
			Help: "Total number of expired password reset tokens removed",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordDBQuery records the duration of a database query operation.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
