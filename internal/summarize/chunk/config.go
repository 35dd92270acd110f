package chunk

import (
	"errors"
	"fmt"
)

// Token budgets are converted to word budgets with fixed ratios.
const (
	WordsPerToken        = 0.8
	OverlapWordsPerToken = 0.2
)

// ErrInvalidBudget is returned by Config.Validate for unusable budgets.
var ErrInvalidBudget = errors.New("invalid chunk budget")

// Config holds the chunk budgets in model tokens.
type Config struct {
	MaxTokens     int `env:"CHUNK_MAX_TOKENS"     envDefault:"450"`
	OverlapTokens int `env:"CHUNK_OVERLAP_TOKENS" envDefault:"30"`
}

// DefaultConfig returns the production budgets.
func DefaultConfig() Config {
	return Config{MaxTokens: 450, OverlapTokens: 30}
}

// MaxWords is the word budget of one chunk.
func (c Config) MaxWords() int {
	return int(float64(c.MaxTokens) * WordsPerToken)
}

// OverlapWords is the overlap threshold in words.
func (c Config) OverlapWords() int {
	return int(float64(c.OverlapTokens) * OverlapWordsPerToken)
}

// Validate rejects budgets that cannot make progress.
func (c Config) Validate() error {
	if c.MaxTokens <= 0 || c.MaxWords() <= 0 {
		return fmt.Errorf("%w: max tokens %d yields no words per chunk", ErrInvalidBudget, c.MaxTokens)
	}
	if c.OverlapTokens < 0 {
		return fmt.Errorf("%w: overlap tokens %d must not be negative", ErrInvalidBudget, c.OverlapTokens)
	}
	if c.OverlapTokens >= c.MaxTokens || c.OverlapWords() >= c.MaxWords() {
		return fmt.Errorf("%w: overlap (%d tokens) must be smaller than chunk size (%d tokens)",
			ErrInvalidBudget, c.OverlapTokens, c.MaxTokens)
	}
	return nil
}

// Build splits sentences using the word budgets of c.
func (c Config) Build(sentences []string) []Chunk {
	return Build(sentences, c.MaxWords(), c.OverlapWords())
}
