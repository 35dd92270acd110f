package inference

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/metrics"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/resilience/retry"
)

// Status describes the holder for readiness checks.
type Status struct {
	Backend   string    `json:"backend"`
	Loaded    bool      `json:"loaded"`
	LoadedAt  time.Time `json:"loaded_at,omitzero"`
	LastError string    `json:"last_error,omitempty"`
}

// Holder owns the process-wide Model. It is created once at start-up and
// injected into the services that need it.
type Holder struct {
	backend string
	load    Loader
	retry   retry.Config
	now     func() time.Time

	mu       sync.RWMutex
	model    Model
	loadedAt time.Time
	lastErr  error
}

// HolderOption customises a Holder.
type HolderOption func(*Holder)

// WithRetry overrides the load retry schedule.
func WithRetry(cfg retry.Config) HolderOption {
	return func(h *Holder) { h.retry = cfg }
}

// NewHolder returns an empty holder for the named backend.
func NewHolder(backend string, load Loader, opts ...HolderOption) *Holder {
	h := &Holder{
		backend: backend,
		load:    load,
		retry:   retry.ModelLoadConfig(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(h)
	}
	if h.retry.Retryable == nil {
		h.retry.Retryable = loadRetryable
	}
	return h
}

// Load initialises the model if it is not loaded yet.
func (h *Holder) Load(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.model != nil {
		return nil
	}
	m, err := h.loadLocked(ctx)
	if err != nil {
		return err
	}
	h.model = m
	return nil
}

// Reload builds a fresh model and swaps it in. The previous model stays in
// service when the new one fails to load.
func (h *Holder) Reload(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, err := h.loadLocked(ctx)
	if err != nil {
		return err
	}
	old := h.model
	h.model = m
	closeModel(old, h.backend)
	return nil
}

func (h *Holder) loadLocked(ctx context.Context) (Model, error) {
	start := h.now()
	var m Model
	err := retry.WithBackoff(ctx, h.retry, func() error {
		var err error
		m, err = h.load(ctx)
		return err
	})
	metrics.RecordModelLoad(h.backend, err)
	if err != nil {
		h.lastErr = err
		slog.ErrorContext(ctx, "model load failed",
			slog.String("backend", h.backend),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrModelNotLoaded, err)
	}
	h.lastErr = nil
	h.loadedAt = h.now()
	slog.InfoContext(ctx, "model loaded",
		slog.String("backend", h.backend),
		slog.Duration("duration", h.loadedAt.Sub(start)))
	return m, nil
}

// Get returns the loaded model or ErrModelNotLoaded.
func (h *Holder) Get() (Model, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.model == nil {
		return nil, ErrModelNotLoaded
	}
	return h.model, nil
}

// Backend returns the configured backend name.
func (h *Holder) Backend() string {
	return h.backend
}

// Status reports whether a model is loaded.
func (h *Holder) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s := Status{Backend: h.backend, Loaded: h.model != nil}
	if s.Loaded {
		s.LoadedAt = h.loadedAt
	}
	if h.lastErr != nil {
		s.LastError = h.lastErr.Error()
	}
	return s
}

// Close unloads the model. Get fails afterwards until the next Load.
func (h *Holder) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.model == nil {
		return nil
	}
	err := closeModel(h.model, h.backend)
	h.model = nil
	metrics.RecordModelUnloaded(h.backend)
	return err
}

func closeModel(m Model, backend string) error {
	c, ok := m.(io.Closer)
	if !ok {
		return nil
	}
	if err := c.Close(); err != nil {
		slog.Warn("model close failed", slog.String("backend", backend), slog.Any("error", err))
		return err
	}
	return nil
}
