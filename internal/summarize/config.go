package summarize

import (
	"errors"
	"fmt"
	"time"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize/chunk"
)

// Config holds the process-wide recursion limits and chunking budgets.
type Config struct {
	MaxDepth          int           `env:"MAX_RECURSION_DEPTH" envDefault:"4"`
	MaxProcessingTime time.Duration `env:"MAX_PROCESSING_TIME" envDefault:"120s"`
	ChunkTargetLength int           `env:"CHUNK_TARGET_LENGTH" envDefault:"70"`

	Chunk chunk.Config
}

// DefaultConfig returns the production limits.
func DefaultConfig() Config {
	return Config{
		MaxDepth:          4,
		MaxProcessingTime: 120 * time.Second,
		ChunkTargetLength: 70,
		Chunk:             chunk.DefaultConfig(),
	}
}

// Validate checks the limits.
func (c Config) Validate() error {
	var errs []error
	if c.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("MAX_RECURSION_DEPTH must be at least 1, got %d", c.MaxDepth))
	}
	if c.MaxProcessingTime <= 0 {
		errs = append(errs, fmt.Errorf("MAX_PROCESSING_TIME must be positive, got %s", c.MaxProcessingTime))
	}
	if c.ChunkTargetLength <= 0 {
		errs = append(errs, fmt.Errorf("CHUNK_TARGET_LENGTH must be positive, got %d", c.ChunkTargetLength))
	}
	if err := c.Chunk.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
