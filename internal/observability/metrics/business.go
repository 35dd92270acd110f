package metrics

import (
	"time"

	"github.com/sony/gobreaker"
)

// RecordSummarization records the outcome of one summarization request.
// Passes and generation calls are only observed for requests that reached
// the controller.
func RecordSummarization(kind string, duration time.Duration, passes, generations int) {
	SummarizationsTotal.WithLabelValues(kind).Inc()
	SummarizationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if passes > 0 {
		SummarizationPasses.Observe(float64(passes))
	}
	if generations > 0 {
		SummarizationGenerations.Observe(float64(generations))
	}
}

// RecordPersistFailure counts a summary that was generated but not stored.
func RecordPersistFailure() {
	SummariesPersistFailures.Inc()
}

// RecordEvaluation counts a stored rating for the given target goal.
func RecordEvaluation(goal string) {
	EvaluationsTotal.WithLabelValues(goal).Inc()
}

// RecordModelLoad records a load or reload attempt.
func RecordModelLoad(backend string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	ModelLoadsTotal.WithLabelValues(backend, result).Inc()
	if err == nil {
		ModelLoaded.WithLabelValues(backend).Set(1)
	}
}

// RecordModelUnloaded marks the backend as not loaded.
func RecordModelUnloaded(backend string) {
	ModelLoaded.WithLabelValues(backend).Set(0)
}

// ObserveBreakerState is a circuitbreaker.StateObserver that mirrors
// transitions into CircuitBreakerState.
func ObserveBreakerState(name string, _ gobreaker.State, to gobreaker.State) {
	var v float64
	switch to {
	case gobreaker.StateHalfOpen:
		v = 1
	case gobreaker.StateOpen:
		v = 2
	}
	CircuitBreakerState.WithLabelValues(name).Set(v)
}

// RecordPasswordResetsPurged adds n purged reset tokens.
func RecordPasswordResetsPurged(n int64) {
	if n > 0 {
		PasswordResetsPurged.Add(float64(n))
	}
}

