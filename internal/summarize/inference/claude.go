package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeConfig configures the Anthropic Messages backend.
type ClaudeConfig struct {
	APIKey  string        `env:"ANTHROPIC_API_KEY"`
	BaseURL string        `env:"ANTHROPIC_BASE_URL"`
	Model   string        `env:"ANTHROPIC_MODEL"   envDefault:"claude-sonnet-4-5-20250929"`
	Timeout time.Duration `env:"ANTHROPIC_TIMEOUT" envDefault:"60s"`
}

// Claude generates through Anthropic's Messages API.
type Claude struct {
	client anthropic.Client
	model  string
}

// NewClaude creates a client from cfg.
func NewClaude(cfg ClaudeConfig) (*Claude, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Claude{client: anthropic.NewClient(opts...), model: cfg.Model}, nil
}

func (c *Claude) Name() string { return "claude" }

func (c *Claude) Complete(ctx context.Context, prompt string, params GenerateParams) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(params.MaxOutputTokens),
		Temperature: anthropic.Float(0),
		System:      []anthropic.TextBlockParam{{Text: instruction}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude api error: %w", classify(err))
	}

	var out strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(tb.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("claude: %w", ErrEmptyOutput)
	}
	return strings.TrimSpace(out.String()), nil
}
