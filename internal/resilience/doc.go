// Package resilience groups the fault-tolerance helpers used around model
// backends and the database.
//
//   - circuitbreaker wraps every remote generation backend so a failing model
//     server is short-circuited instead of stalling each chunk of a request.
//     Prompts the backend rejects with a 4xx do not count as failures.
//   - retry probes model backends during load and reload, and the database
//     on open, with exponential backoff. Generation calls are never retried.
//
//	cfg := circuitbreaker.InferenceConfig("ollama")
//	cb := circuitbreaker.New(cfg, metrics.ObserveBreakerState)
//	text, err := circuitbreaker.Run(cb, func() (string, error) {
//	    return backend.Complete(ctx, prompt, params)
//	})
//
//	err = retry.WithBackoff(ctx, retry.ModelLoadConfig(), func() error {
//	    return backend.Ping(ctx)
//	})
package resilience
