package inference

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// OllamaConfig configures the local Ollama backend.
type OllamaConfig struct {
	Host      string        `env:"OLLAMA_HOST"       envDefault:"http://localhost:11434"`
	Model     string        `env:"OLLAMA_MODEL"      envDefault:"legal-t5"`
	Timeout   time.Duration `env:"OLLAMA_TIMEOUT"    envDefault:"60s"`
	KeepAlive time.Duration `env:"OLLAMA_KEEP_ALIVE" envDefault:"5m"`
}

// Ollama generates with a model served by a local Ollama daemon. Prompts are
// sent in raw mode so the control prefix reaches the model unchanged.
type Ollama struct {
	client *api.Client
	cfg    OllamaConfig
}

// NewOllama creates a client for cfg.Host.
func NewOllama(cfg OllamaConfig) (*Ollama, error) {
	u, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", cfg.Host, err)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("OLLAMA_MODEL is required")
	}
	return &Ollama{
		client: api.NewClient(u, &http.Client{Timeout: cfg.Timeout}),
		cfg:    cfg,
	}, nil
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) Complete(ctx context.Context, prompt string, params GenerateParams) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:     o.cfg.Model,
		Prompt:    prompt,
		Raw:       true,
		Stream:    &stream,
		KeepAlive: &api.Duration{Duration: o.cfg.KeepAlive},
		Options: map[string]any{
			"num_predict": params.MaxOutputTokens,
			"temperature": 0,
		},
	}

	var out strings.Builder
	err := o.client.Generate(ctx, req, func(r api.GenerateResponse) error {
		out.WriteString(r.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", classify(err))
	}
	return strings.TrimSpace(out.String()), nil
}

// Ping checks that the daemon answers.
func (o *Ollama) Ping(ctx context.Context) error {
	if err := o.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("ollama heartbeat: %w", classify(err))
	}
	return nil
}
