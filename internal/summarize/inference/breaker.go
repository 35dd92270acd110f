package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/metrics"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/resilience/circuitbreaker"
)

// breakerBackend runs every completion of a remote backend through a
// circuit breaker. Calls are never retried here.
type breakerBackend struct {
	Backend
	cb *circuitbreaker.CircuitBreaker
}

// WithBreaker wraps b in a circuit breaker configured for inference.
func WithBreaker(b Backend) Backend {
	cfg := circuitbreaker.InferenceConfig(b.Name())
	cfg.Excluded = rejectedByBackend
	return &breakerBackend{
		Backend: b,
		cb:      circuitbreaker.New(cfg, metrics.ObserveBreakerState),
	}
}

func (b *breakerBackend) Complete(ctx context.Context, prompt string, params GenerateParams) (string, error) {
	out, err := circuitbreaker.Run(b.cb, func() (string, error) {
		return b.Backend.Complete(ctx, prompt, params)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		slog.WarnContext(ctx, "generation rejected, circuit breaker open",
			slog.String("backend", b.Name()),
			slog.String("state", b.cb.State().String()))
		return "", fmt.Errorf("%s: %w", b.Name(), ErrBackendUnavailable)
	}
	return out, err
}

func (b *breakerBackend) Ping(ctx context.Context) error {
	if p, ok := b.Backend.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (b *breakerBackend) Close() error {
	if c, ok := b.Backend.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
