package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// AdapterConfig holds the input budget and decoding settings applied to
// every call.
type AdapterConfig struct {
	MaxInputTokens int     `env:"MAX_INPUT_TOKENS" envDefault:"512"`
	BeamWidth      int     `env:"BEAM_WIDTH"       envDefault:"5"`
	LengthPenalty  float64 `env:"LENGTH_PENALTY"   envDefault:"1.0"`
	EarlyStopping  bool    `env:"EARLY_STOPPING"   envDefault:"true"`
}

// DefaultAdapterConfig returns the settings the service runs with.
func DefaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		MaxInputTokens: 512,
		BeamWidth:      5,
		LengthPenalty:  1.0,
		EarlyStopping:  true,
	}
}

// Validate checks the adapter settings.
func (c AdapterConfig) Validate() error {
	var errs []error
	if c.MaxInputTokens <= 0 {
		errs = append(errs, fmt.Errorf("MAX_INPUT_TOKENS must be positive, got %d", c.MaxInputTokens))
	}
	if c.BeamWidth < 1 {
		errs = append(errs, fmt.Errorf("BEAM_WIDTH must be at least 1, got %d", c.BeamWidth))
	}
	if c.LengthPenalty <= 0 {
		errs = append(errs, fmt.Errorf("LENGTH_PENALTY must be positive, got %v", c.LengthPenalty))
	}
	return errors.Join(errs...)
}

// Adapter performs one prefixed, truncated generation per call on a Model.
type Adapter struct {
	model Model
	cfg   AdapterConfig
}

// NewAdapter returns an Adapter over m.
func NewAdapter(m Model, cfg AdapterConfig) *Adapter {
	return &Adapter{model: m, cfg: cfg}
}

// MaxInputTokens is the input window the adapter truncates to.
func (a *Adapter) MaxInputTokens() int {
	return a.cfg.MaxInputTokens
}

// CountTokens returns the token length of text under the model's tokenizer.
func (a *Adapter) CountTokens(text string) int {
	return a.model.EncodeLength(text)
}

// Generate summarizes text steered by prefix, producing at most targetLength
// output tokens. Input beyond MaxInputTokens is cut off. Errors from the
// model are returned wrapped, never swallowed.
func (a *Adapter) Generate(ctx context.Context, text, prefix string, targetLength int) (string, error) {
	if r, ok := a.model.(Releaser); ok {
		defer r.Release()
	}
	if targetLength <= 0 {
		return "", fmt.Errorf("generate: target length must be positive, got %d", targetLength)
	}

	input := text
	if prefix != "" {
		input = prefix + " " + text
	}
	tokens := truncate(a.model.Tokenize(input), a.cfg.MaxInputTokens, a.model.Decode)

	out, err := a.model.Generate(ctx, tokens, GenerateParams{
		MaxOutputTokens: targetLength,
		BeamWidth:       a.cfg.BeamWidth,
		LengthPenalty:   a.cfg.LengthPenalty,
		EarlyStopping:   a.cfg.EarlyStopping,
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return strings.TrimSpace(a.model.Decode(out)), nil
}
