package inference

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/resilience/retry"
)

// Providers lists the accepted MODEL_PROVIDER values.
var Providers = []string{"ollama", "openai", "claude", "echo"}

// Config selects and configures the generation backend.
type Config struct {
	Provider     string `env:"MODEL_PROVIDER"       envDefault:"ollama"`
	Encoding     string `env:"TOKENIZER_ENCODING"   envDefault:"cl100k_base"`
	FreeOSMemory bool   `env:"MODEL_FREE_OS_MEMORY" envDefault:"true"`

	Adapter AdapterConfig
	Ollama  OllamaConfig
	OpenAI  OpenAIConfig
	Claude  ClaudeConfig
}

// Validate checks the settings that can be checked without a network call.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(Providers, c.Provider) {
		errs = append(errs, fmt.Errorf("MODEL_PROVIDER must be one of %v, got %q", Providers, c.Provider))
	}
	switch c.Provider {
	case "openai":
		if c.OpenAI.APIKey == "" && c.OpenAI.BaseURL == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY or OPENAI_BASE_URL is required for the openai provider"))
		}
	case "claude":
		if c.Claude.APIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for the claude provider"))
		}
	}
	if err := c.Adapter.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Loader constructs a ready Model.
type Loader func(ctx context.Context) (Model, error)

// NewBackend builds the configured backend. Remote backends are wrapped in a
// circuit breaker.
func NewBackend(cfg Config) (Backend, error) {
	switch cfg.Provider {
	case "echo":
		return Echo{}, nil
	case "ollama":
		b, err := NewOllama(cfg.Ollama)
		if err != nil {
			return nil, err
		}
		return WithBreaker(b), nil
	case "openai":
		b, err := NewOpenAI(cfg.OpenAI)
		if err != nil {
			return nil, err
		}
		return WithBreaker(b), nil
	case "claude":
		b, err := NewClaude(cfg.Claude)
		if err != nil {
			return nil, err
		}
		return WithBreaker(b), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

// NewLoader returns a Loader that builds the tokenizer and backend from cfg
// and pings the backend before handing the model out. Construction errors
// are configuration errors and are not retried.
func NewLoader(cfg Config) Loader {
	return func(ctx context.Context) (Model, error) {
		tok, err := NewBPETokenizer(cfg.Encoding)
		if err != nil {
			return nil, retry.Permanent(err)
		}
		backend, err := NewBackend(cfg)
		if err != nil {
			return nil, retry.Permanent(err)
		}
		m := NewTextModel(tok, backend, cfg.FreeOSMemory)
		if err := m.Ping(ctx); err != nil {
			_ = m.Close()
			return nil, err
		}
		return m, nil
	}
}
