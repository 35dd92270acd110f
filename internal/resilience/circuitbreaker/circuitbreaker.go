// Package circuitbreaker guards calls to generation backends with
// github.com/sony/gobreaker so a failing model server is not hammered by
// every chunk of every request.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrOpen is returned instead of calling the protected function while the
// breaker is open or the half-open probe quota is used up.
var ErrOpen = errors.New("circuit breaker open")

// Config describes one breaker.
type Config struct {
	Name string

	// MaxRequests is the probe quota in the half-open state.
	MaxRequests uint32
	// Interval clears the closed-state counts.
	Interval time.Duration
	// Timeout is the open period before probing again.
	Timeout time.Duration

	// The breaker trips once MinRequests calls were seen in the current
	// interval and the failure ratio reaches FailureThreshold.
	FailureThreshold float64
	MinRequests      uint32

	// Excluded reports errors that say nothing about the backend's health,
	// such as a prompt the backend rejected. They are passed through and
	// counted as successes. Cancelled calls are always excluded.
	Excluded func(error) bool
}

// InferenceConfig returns the breaker settings for a remote generation
// backend. One summarization issues many sequential calls, so the breaker
// wants a larger sample than a single-shot client before tripping.
func InferenceConfig(backend string) Config {
	return Config{
		Name:             backend + "-inference",
		MaxRequests:      2,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.5,
		MinRequests:      8,
	}
}

// StateObserver is notified of every state transition.
type StateObserver func(name string, from, to gobreaker.State)

// CircuitBreaker is a named gobreaker instance.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a breaker. Observers run after the transition is logged.
func New(cfg Config, observers ...StateObserver) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			return cfg.Excluded != nil && cfg.Excluded(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			for _, o := range observers {
				o(name, from, to)
			}
		},
	}
	return &CircuitBreaker{breaker: gobreaker.NewCircuitBreaker(settings), name: cfg.Name}
}

// Run calls fn through cb. While the breaker is open fn is not called and
// ErrOpen is returned.
func Run[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	res, err := cb.breaker.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, ErrOpen
	}
	if err != nil {
		return zero, err
	}
	return res.(T), nil
}

func (cb *CircuitBreaker) State() gobreaker.State { return cb.breaker.State() }

func (cb *CircuitBreaker) Name() string { return cb.name }
