package inference

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives one observation per generation call. It lets tests
// inject a fake instead of Prometheus.
type Recorder interface {
	ObserveGeneration(backend string, duration time.Duration, inputTokens, outputTokens int, err error)
}

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	duration     *prometheus.HistogramVec
	inputTokens  *prometheus.HistogramVec
	outputTokens *prometheus.HistogramVec
	failures     *prometheus.CounterVec
}

var (
	prometheusRecorder     *PrometheusRecorder
	prometheusRecorderOnce sync.Once
)

// getOrCreate registers c or returns the collector already registered under
// the same descriptor, so repeated construction in tests does not panic.
func getOrCreate[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// NewPrometheusRecorder returns the process-wide recorder.
func NewPrometheusRecorder() *PrometheusRecorder {
	prometheusRecorderOnce.Do(func() {
		tokenBuckets := prometheus.ExponentialBuckets(8, 2, 8)
		prometheusRecorder = &PrometheusRecorder{
			duration: getOrCreate(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "inference_generation_duration_seconds",
				Help:    "Duration of single generation calls",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 40},
			}, []string{"backend", "result"})),
			inputTokens: getOrCreate(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "inference_input_tokens",
				Help:    "Input length of generation calls in tokens, before the prefix is added",
				Buckets: tokenBuckets,
			}, []string{"backend"})),
			outputTokens: getOrCreate(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "inference_output_tokens",
				Help:    "Output length of successful generation calls in tokens",
				Buckets: tokenBuckets,
			}, []string{"backend"})),
			failures: getOrCreate(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "inference_generation_failures_total",
				Help: "Total number of failed generation calls",
			}, []string{"backend"})),
		}
	})
	return prometheusRecorder
}

func (p *PrometheusRecorder) ObserveGeneration(backend string, d time.Duration, in, out int, err error) {
	result := "success"
	if err != nil {
		result = "failure"
		p.failures.WithLabelValues(backend).Inc()
	}
	p.duration.WithLabelValues(backend, result).Observe(d.Seconds())
	p.inputTokens.WithLabelValues(backend).Observe(float64(in))
	if err == nil {
		p.outputTokens.WithLabelValues(backend).Observe(float64(out))
	}
}
