// Package observability groups the logging, metrics and tracing
// infrastructure shared by the API server, the CLI and the worker.
//
// Subpackages:
//   - logging: slog handlers that stamp request and trace IDs on records
//   - metrics: Prometheus collectors for HTTP, summarization and the model
//   - tracing: OpenTelemetry provider setup and HTTP middleware
package observability
