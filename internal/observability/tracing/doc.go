// Package tracing provides OpenTelemetry tracing integration.
//
// Setup installs the SDK tracer provider at start-up. Middleware opens a
// server span per HTTP request, and the inference layer opens a child span
// per generation call, so one summarization request shows every chunk call
// of every pass under a single trace.
//
// Example usage:
//
//	shutdown, err := tracing.Setup(cfg.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer func() { _ = shutdown(context.Background()) }()
package tracing
