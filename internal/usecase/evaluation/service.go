// Package evaluation records expert ratings of generated summaries.
package evaluation

import (
	"context"
	"fmt"
	"slices"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/metrics"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/repository"
)

// RatingInput is one expert's assessment. An empty TargetGoal takes the
// goal the summary was generated for.
type RatingInput struct {
	SummaryID  int64
	Evaluator  string
	TargetGoal entity.Goal
	Accuracy   int
	Relevance  int
	Coherence  int
	Utility    int
	Comments   string
}

// Service handles rating submission and reporting.
type Service struct {
	Repo      repository.EvaluationRepository
	Summaries repository.SummaryRepository
}

// Submit validates and stores a rating.
func (s *Service) Submit(ctx context.Context, in RatingInput) (*entity.EvaluationRating, error) {
	if in.SummaryID <= 0 {
		return nil, &entity.ValidationError{Field: "summary_id", Message: "must be positive"}
	}
	sum, err := s.Summaries.Get(ctx, in.SummaryID)
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	if sum == nil {
		return nil, ErrSummaryNotFound
	}

	goal := in.TargetGoal
	if goal == "" {
		goal = sum.Context.Goal
	}
	if !slices.Contains(entity.Goals, goal) {
		return nil, &entity.ValidationError{Field: "target_goal", Message: "unknown goal " + string(goal)}
	}

	r := &entity.EvaluationRating{
		SummaryID:     in.SummaryID,
		EvaluatorUser: in.Evaluator,
		TargetGoal:    goal,
		Accuracy:      in.Accuracy,
		Relevance:     in.Relevance,
		Coherence:     in.Coherence,
		Utility:       in.Utility,
		Comments:      in.Comments,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create evaluation: %w", err)
	}
	metrics.RecordEvaluation(string(goal))
	return r, nil
}

// ListBySummary returns every rating of one summary.
func (s *Service) ListBySummary(ctx context.Context, summaryID int64) ([]*entity.EvaluationRating, error) {
	ratings, err := s.Repo.ListBySummary(ctx, summaryID)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	return ratings, nil
}

// Averages returns the mean score per criterion. A summary without ratings
// yields zero averages and Count 0.
func (s *Service) Averages(ctx context.Context, summaryID int64) (entity.RatingAverages, error) {
	ratings, err := s.ListBySummary(ctx, summaryID)
	if err != nil {
		return entity.RatingAverages{}, err
	}
	var avg entity.RatingAverages
	if len(ratings) == 0 {
		return avg, nil
	}
	for _, r := range ratings {
		avg.Accuracy += float64(r.Accuracy)
		avg.Relevance += float64(r.Relevance)
		avg.Coherence += float64(r.Coherence)
		avg.Utility += float64(r.Utility)
	}
	n := float64(len(ratings))
	avg.Count = len(ratings)
	avg.Accuracy /= n
	avg.Relevance /= n
	avg.Coherence /= n
	avg.Utility /= n
	return avg, nil
}
