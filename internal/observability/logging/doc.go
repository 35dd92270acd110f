// Package logging builds the application's slog loggers.
//
// Example usage:
//
//	logger := logging.NewLogger(logging.Options{Level: cfg.LogLevel})
//	slog.SetDefault(logger)
//
//	// request_id and trace_id are attached automatically
//	slog.InfoContext(ctx, "Starting summarization", slog.Int("tokens", n))
package logging
