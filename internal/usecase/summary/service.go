package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/logging"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/metrics"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/repository"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/rouge"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize/inference"
)

// ModelSource hands out the loaded model. *inference.Holder satisfies it.
type ModelSource interface {
	Get() (inference.Model, error)
	Backend() string
}

// SummarizeInput is one summarization request from a user.
type SummarizeInput struct {
	UserID       int64
	Username     string
	Filename     string
	Text         string
	TargetLength int
	Context      entity.Context
	// Reference is an optional human summary; when set the outcome carries ROUGE scores.
	Reference string
}

// Outcome is what the caller gets back for every request that passed validation.
type Outcome struct {
	Kind    summarize.Kind
	Summary string
	Message string
	// Err is the underlying fault for every kind except success.
	Err error
	// Saved is the persisted record; nil when the result was not stored.
	Saved *entity.Summary
	// PersistErr is set when the summary was produced but could not be stored.
	PersistErr  error
	Scores      *rouge.Scores
	Passes      int
	Generations int
	Elapsed     time.Duration
}

// OK reports whether a summary was produced.
func (o Outcome) OK() bool {
	return o.Kind == summarize.KindSuccess
}

// Service is the summarization entry point.
type Service struct {
	// Repo stores successful summaries; nil disables persistence.
	Repo       repository.SummaryRepository
	Models     ModelSource
	Controller *summarize.Controller
	Adapter    inference.AdapterConfig
	// Recorder receives per-generation observations; nil disables them.
	Recorder inference.Recorder
	Config   Config
}

// Summarize validates in, runs the recursive controller and stores a
// successful summary. Invalid input is returned as an error; every other
// result, including failures, is described by the Outcome.
func (s *Service) Summarize(ctx context.Context, in SummarizeInput) (Outcome, error) {
	target, err := s.Config.TargetLength(in.TargetLength)
	if err != nil {
		return Outcome{}, err
	}
	if err := in.Context.Validate(); err != nil {
		return Outcome{}, err
	}

	logger := logging.FromContext(ctx).With(
		slog.Int64("user_id", in.UserID),
		slog.String("filename", in.Filename),
	)

	words := len(strings.Fields(in.Text))
	if words < s.Config.MinInputWords {
		logger.InfoContext(ctx, "Input too short for summarization",
			slog.Int("words", words),
			slog.Int("min_words", s.Config.MinInputWords))
		metrics.RecordSummarization(string(summarize.KindTooShort), 0, 0, 0)
		return Outcome{Kind: summarize.KindTooShort, Message: MsgTooShort}, nil
	}

	model, err := s.Models.Get()
	if err != nil {
		logger.ErrorContext(ctx, "Model unavailable", slog.Any("error", err))
		metrics.RecordSummarization(string(summarize.KindFailure), 0, 0, 0)
		return Outcome{
			Kind:    summarize.KindFailure,
			Message: msgError + inference.ErrModelNotLoaded.Error(),
			Err:     err,
		}, nil
	}

	var gen inference.Generator = inference.NewAdapter(model, s.Adapter)
	if s.Recorder != nil {
		gen = inference.Instrument(gen, s.Models.Backend(), s.Recorder)
	}

	logger.InfoContext(ctx, "Starting summarization",
		slog.Int("words", words),
		slog.Int("tokens", gen.CountTokens(in.Text)),
		slog.Int("target_length", target),
		slog.String("context", in.Context.Prefix()))

	res := s.Controller.Run(ctx, gen, summarize.Request{
		Text:         in.Text,
		Context:      in.Context,
		TargetLength: target,
	})
	metrics.RecordSummarization(string(res.Kind), res.Elapsed, res.Passes, res.Generations)

	out := Outcome{
		Kind:        res.Kind,
		Err:         res.Err,
		Passes:      res.Passes,
		Generations: res.Generations,
		Elapsed:     res.Elapsed,
	}

	switch res.Kind {
	case summarize.KindSuccess:
	case summarize.KindTimeout, summarize.KindDepthExceeded:
		logger.WarnContext(ctx, "Summarization stopped",
			slog.String("kind", string(res.Kind)),
			slog.Int("passes", res.Passes),
			slog.Duration("elapsed", res.Elapsed))
		out.Message = msgOperation + res.Err.Error()
		return out, nil
	default:
		logger.ErrorContext(ctx, "Summarization failed",
			slog.Int("passes", res.Passes),
			slog.Any("error", res.Err))
		out.Message = msgError + res.Err.Error()
		return out, nil
	}

	out.Summary = res.Text
	out.Message = MsgSuccess
	if strings.TrimSpace(in.Reference) != "" {
		scores := rouge.Score(in.Reference, res.Text)
		out.Scores = &scores
	}

	rec := &entity.Summary{
		UserID:   in.UserID,
		Username: in.Username,
		Filename: in.Filename,
		Method:   entity.MethodRecursive,
		Text:     res.Text,
		Length:   len(strings.Fields(res.Text)),
		FullText: entity.Excerpt(in.Text),
		Context:  in.Context,
	}
	if s.Repo == nil {
		logger.InfoContext(ctx, "Summarization completed",
			slog.Int("passes", res.Passes),
			slog.Duration("elapsed", res.Elapsed),
			slog.Int("summary_words", rec.Length))
		return out, nil
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		logger.ErrorContext(ctx, "Failed to save summary", slog.Any("error", err))
		metrics.RecordPersistFailure()
		out.PersistErr = fmt.Errorf("save summary: %w", err)
	} else {
		out.Saved = rec
	}

	logger.InfoContext(ctx, "Summarization completed",
		slog.Int("passes", res.Passes),
		slog.Int("generations", res.Generations),
		slog.Duration("elapsed", res.Elapsed),
		slog.Int("summary_words", rec.Length))
	return out, nil
}

// List returns every stored summary.
func (s *Service) List(ctx context.Context) ([]*entity.Summary, error) {
	summaries, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	return summaries, nil
}

// ListByUser returns the summaries created by one user.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*entity.Summary, error) {
	summaries, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list summaries by user: %w", err)
	}
	return summaries, nil
}

// Get returns ErrSummaryNotFound for an unknown id.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Summary, error) {
	if id <= 0 {
		return nil, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}
	sum, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	if sum == nil {
		return nil, ErrSummaryNotFound
	}
	return sum, nil
}

// Delete removes a summary owned by userID.
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	sum, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if sum.UserID != userID {
		return ErrForbidden
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrSummaryNotFound
		}
		return fmt.Errorf("delete summary: %w", err)
	}
	return nil
}
