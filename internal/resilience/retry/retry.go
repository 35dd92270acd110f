// Package retry re-runs start-up probes with exponential backoff and jitter.
// Generation calls are never retried; model loading and the first database
// ping are.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Config is a backoff schedule.
type Config struct {
	// Operation names the probe in log lines.
	Operation string

	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// Jitter is the fraction of each delay added at random, within [0, 1].
	Jitter float64

	// Retryable replaces IsRetryable when set. Permanent errors are never
	// retried either way.
	Retryable func(error) bool
}

// ModelLoadConfig is the schedule for bringing up a generation backend.
// Local model servers are often still pulling weights when the api starts.
func ModelLoadConfig() Config {
	return Config{
		Operation:    "model_load",
		MaxAttempts:  6,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2,
		Jitter:       0.1,
	}
}

// DBConfig is the schedule for the first database ping.
func DBConfig() Config {
	return Config{
		Operation:    "db_ping",
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2,
		Jitter:       0.1,
	}
}

// WithBackoff calls fn until it succeeds, returns a non-retryable error or
// runs out of attempts. The error of the last attempt is wrapped in the
// result.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	delay := cfg.InitialDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				slog.InfoContext(ctx, "operation succeeded after retry",
					slog.String("operation", cfg.Operation),
					slog.Int("attempt", attempt))
			}
			return nil
		}
		if !cfg.retryable(err) {
			return unwrapPermanent(err)
		}
		if attempt >= cfg.MaxAttempts {
			break
		}

		slog.WarnContext(ctx, "operation failed, retrying",
			slog.String("operation", cfg.Operation),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", err))

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}
		delay = cfg.next(delay)
	}
	return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
}

// next grows d by the multiplier, caps it and adds jitter.
func (c Config) next(d time.Duration) time.Duration {
	d = time.Duration(float64(d) * c.Multiplier)
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	return addJitter(d, c.Jitter)
}

func (c Config) retryable(err error) bool {
	var p *permanentError
	if errors.As(err, &p) {
		return false
	}
	if c.Retryable != nil {
		return c.Retryable(err)
	}
	return IsRetryable(err)
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err so WithBackoff returns it after the current attempt.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// unwrapPermanent strips the marker when it is the outermost error.
func unwrapPermanent(err error) error {
	if p, ok := err.(*permanentError); ok {
		return p.err
	}
	return err
}

// StatusCoder is implemented by errors carrying the HTTP status a remote
// backend answered with.
type StatusCoder interface {
	HTTPStatus() int
}

// IsRetryable reports whether err looks transient: network timeouts,
// refused or reset connections, 5xx answers, 408 and 429.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		return TransientStatus(sc.HTTPStatus())
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH)
}

// TransientStatus reports whether an HTTP status is worth another attempt.
func TransientStatus(code int) bool {
	switch {
	case code >= 500 && code < 600:
		return true
	case code == http.StatusTooManyRequests, code == http.StatusRequestTimeout:
		return true
	}
	return false
}

func addJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	fraction = min(fraction, 1)
	// #nosec G404 -- backoff jitter does not need cryptographic randomness.
	return d + time.Duration(rand.Float64()*float64(d)*fraction)
}
