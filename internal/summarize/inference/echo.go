package inference

import (
	"context"
	"strings"
)

// Echo is an offline Backend that returns the leading words of the prompt
// text, with control tags removed. It is deterministic and never fails, which
// makes it the backend for tests, dry runs and local development.
type Echo struct{}

func (Echo) Name() string { return "echo" }

func (Echo) Complete(ctx context.Context, prompt string, params GenerateParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, text := splitControlPrefix(prompt)
	words := strings.Fields(text)
	if params.MaxOutputTokens > 0 && len(words) > params.MaxOutputTokens {
		words = words[:params.MaxOutputTokens]
	}
	return strings.Join(words, " "), nil
}
