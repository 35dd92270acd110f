package inference

import (
	"context"
	"errors"
)

var (
	// ErrModelNotLoaded is returned by Holder.Get before a successful load.
	ErrModelNotLoaded = errors.New("model failed to load")
	// ErrBackendUnavailable is returned while a backend's circuit breaker is open.
	ErrBackendUnavailable = errors.New("generation backend unavailable")
	// ErrEmptyOutput is returned when a backend produced no text.
	ErrEmptyOutput = errors.New("generation returned no text")
)

// GenerateParams are the decoding settings of one generation call.
type GenerateParams struct {
	MaxOutputTokens int
	BeamWidth       int
	LengthPenalty   float64
	EarlyStopping   bool
}

// Model is a loaded sequence-to-sequence capability. Implementations must be
// safe for concurrent use; a Model is shared read-only between requests.
type Model interface {
	Tokenize(text string) []int
	EncodeLength(text string) int
	Generate(ctx context.Context, input []int, params GenerateParams) ([]int, error)
	Decode(tokens []int) string
}

// Releaser is implemented by models that hold transient per-call resources.
type Releaser interface {
	Release()
}

// Generator is what the summarization controller consumes: the input window
// and token counting for the fits check, and one generation per chunk.
type Generator interface {
	MaxInputTokens() int
	CountTokens(text string) int
	Generate(ctx context.Context, text, prefix string, targetLength int) (string, error)
}
