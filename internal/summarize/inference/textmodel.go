package inference

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
)

// Backend produces a completion for a fully formed prompt. Implementations
// honour params.MaxOutputTokens and pass through the beam settings they
// support.
type Backend interface {
	Name() string
	Complete(ctx context.Context, prompt string, params GenerateParams) (string, error)
}

// Pinger is implemented by backends that can check reachability cheaply.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TextModel adapts a text Backend to the token-level Model interface using
// a local tokenizer. Output is clipped to MaxOutputTokens tokens without
// cutting a character in half.
type TextModel struct {
	tok          Tokenizer
	backend      Backend
	freeOSMemory bool
}

// NewTextModel returns a Model over backend. When freeOSMemory is set every
// Release returns freed heap to the operating system.
func NewTextModel(tok Tokenizer, backend Backend, freeOSMemory bool) *TextModel {
	return &TextModel{tok: tok, backend: backend, freeOSMemory: freeOSMemory}
}

// Backend returns the name of the underlying backend.
func (m *TextModel) Backend() string {
	return m.backend.Name()
}

func (m *TextModel) Tokenize(text string) []int {
	return m.tok.Encode(text)
}

func (m *TextModel) EncodeLength(text string) int {
	return len(m.tok.Encode(text))
}

func (m *TextModel) Decode(tokens []int) string {
	return m.tok.Decode(tokens)
}

// Generate decodes input back to a prompt, completes it on the backend and
// re-encodes the answer.
func (m *TextModel) Generate(ctx context.Context, input []int, params GenerateParams) ([]int, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("%s: empty input", m.backend.Name())
	}
	text, err := m.backend.Complete(ctx, m.tok.Decode(input), params)
	if err != nil {
		return nil, err
	}
	out := m.tok.Encode(text)
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", m.backend.Name(), ErrEmptyOutput)
	}
	if params.MaxOutputTokens > 0 {
		out = truncate(out, params.MaxOutputTokens, m.tok.Decode)
	}
	return out, nil
}

// Release returns freed heap to the OS when enabled.
func (m *TextModel) Release() {
	if m.freeOSMemory {
		debug.FreeOSMemory()
	}
}

// Ping checks the backend when it supports it.
func (m *TextModel) Ping(ctx context.Context) error {
	if p, ok := m.backend.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases the backend's connections.
func (m *TextModel) Close() error {
	if c, ok := m.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
