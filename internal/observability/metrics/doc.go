// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Summarization outcomes, passes and generation calls
//   - Model load state and circuit breaker state
//   - Database query metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	start := time.Now()
//	res := controller.Run(ctx, gen, req)
//	metrics.RecordSummarization(res.Kind.String(), time.Since(start), res.Passes, res.Generations)
package metrics
