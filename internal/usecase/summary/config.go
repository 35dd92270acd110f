package summary

import (
	"errors"
	"fmt"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
)

// Config bounds what callers may request.
type Config struct {
	DefaultTargetLength int `env:"DEFAULT_TARGET_LENGTH" envDefault:"200"`
	MinTargetLength     int `env:"MIN_TARGET_LENGTH"     envDefault:"100"`
	MaxTargetLength     int `env:"MAX_TARGET_LENGTH"     envDefault:"200"`
	MinInputWords       int `env:"MIN_INPUT_WORDS"       envDefault:"20"`
}

// DefaultConfig returns the production bounds.
func DefaultConfig() Config {
	return Config{
		DefaultTargetLength: 200,
		MinTargetLength:     100,
		MaxTargetLength:     200,
		MinInputWords:       20,
	}
}

// Validate checks that the default lies inside the accepted range.
func (c Config) Validate() error {
	var errs []error
	if c.MinTargetLength <= 0 || c.MinTargetLength > c.MaxTargetLength {
		errs = append(errs, fmt.Errorf("target length range %d..%d is empty", c.MinTargetLength, c.MaxTargetLength))
	}
	if c.DefaultTargetLength < c.MinTargetLength || c.DefaultTargetLength > c.MaxTargetLength {
		errs = append(errs, fmt.Errorf("DEFAULT_TARGET_LENGTH %d outside %d..%d",
			c.DefaultTargetLength, c.MinTargetLength, c.MaxTargetLength))
	}
	if c.MinInputWords < 1 {
		errs = append(errs, fmt.Errorf("MIN_INPUT_WORDS must be at least 1, got %d", c.MinInputWords))
	}
	return errors.Join(errs...)
}

// TargetLength resolves a requested length; zero selects the default.
func (c Config) TargetLength(requested int) (int, error) {
	if requested == 0 {
		return c.DefaultTargetLength, nil
	}
	if requested < c.MinTargetLength || requested > c.MaxTargetLength {
		return 0, &entity.ValidationError{
			Field:   "target_length",
			Message: fmt.Sprintf("must be between %d and %d", c.MinTargetLength, c.MaxTargetLength),
		}
	}
	return requested, nil
}
