package inference

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/tracing"
)

type instrumented struct {
	next    Generator
	backend string
	rec     Recorder
}

// Instrument wraps g so every generation call is traced, measured and logged
// at debug level. A nil rec disables metrics.
func Instrument(g Generator, backend string, rec Recorder) Generator {
	return &instrumented{next: g, backend: backend, rec: rec}
}

func (i *instrumented) MaxInputTokens() int {
	return i.next.MaxInputTokens()
}

func (i *instrumented) CountTokens(text string) int {
	return i.next.CountTokens(text)
}

func (i *instrumented) Generate(ctx context.Context, text, prefix string, targetLength int) (string, error) {
	inTokens := i.next.CountTokens(text)
	ctx, span := tracing.GetTracer().Start(ctx, "inference.generate",
		trace.WithAttributes(
			attribute.String("inference.backend", i.backend),
			attribute.Int("inference.input_tokens", inTokens),
			attribute.Int("inference.target_length", targetLength),
		))
	defer span.End()

	start := time.Now()
	out, err := i.next.Generate(ctx, text, prefix, targetLength)
	elapsed := time.Since(start)

	outTokens := 0
	if err == nil {
		outTokens = i.next.CountTokens(out)
		span.SetAttributes(attribute.Int("inference.output_tokens", outTokens))
	} else {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if i.rec != nil {
		i.rec.ObserveGeneration(i.backend, elapsed, inTokens, outTokens, err)
	}

	slog.DebugContext(ctx, "generation finished",
		slog.String("backend", i.backend),
		slog.Int("input_tokens", inTokens),
		slog.Int("output_tokens", outTokens),
		slog.Int("target_length", targetLength),
		slog.Duration("duration", elapsed),
		slog.Bool("ok", err == nil))
	return out, err
}
