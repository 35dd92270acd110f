package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks scheduled job execution.
//
// Exposed series:
//   - worker_job_runs_total{job,status}: runs by outcome (success, failure)
//   - worker_job_duration_seconds{job}: run duration
//   - worker_job_items_total{job}: items a job reported as processed
//   - worker_job_last_success_timestamp{job}: Unix time of the last success
type Metrics struct {
	JobRunsTotal            *prometheus.CounterVec
	JobDurationSeconds      *prometheus.HistogramVec
	JobItemsTotal           *prometheus.CounterVec
	JobLastSuccessTimestamp *prometheus.GaugeVec
}

// NewMetrics creates the worker metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		JobRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_job_runs_total",
			Help: "Total number of scheduled job runs by status (success/failure)",
		}, []string{"job", "status"}),

		JobDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of scheduled job execution in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 30, 60, 300},
		}, []string{"job"}),

		JobItemsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_job_items_total",
			Help: "Total number of items processed by scheduled jobs",
		}, []string{"job"}),

		JobLastSuccessTimestamp: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful job run",
		}, []string{"job"}),
	}
}

// RecordJobRun increments the run counter for job with status success or failure.
func (m *Metrics) RecordJobRun(job, status string) {
	m.JobRunsTotal.WithLabelValues(job, status).Inc()
}

// RecordJobDuration observes one run duration in seconds.
func (m *Metrics) RecordJobDuration(job string, seconds float64) {
	m.JobDurationSeconds.WithLabelValues(job).Observe(seconds)
}

// RecordItems adds the number of items a run processed.
func (m *Metrics) RecordItems(job string, n int64) {
	if n > 0 {
		m.JobItemsTotal.WithLabelValues(job).Add(float64(n))
	}
}

// RecordLastSuccess stamps the current time as job's last success.
func (m *Metrics) RecordLastSuccess(job string) {
	m.JobLastSuccessTimestamp.WithLabelValues(job).SetToCurrentTime()
}
