package entity

import (
	"fmt"
	"time"
)

// Rating bounds for every evaluation criterion.
const (
	MinRating = 1
	MaxRating = 5
)

// EvaluationRating is an expert's assessment of one summary.
type EvaluationRating struct {
	ID            int64
	SummaryID     int64
	EvaluatorUser string
	TargetGoal    Goal
	Accuracy      int
	Relevance     int
	Coherence     int
	Utility       int
	Comments      string
	RatedAt       time.Time
}

// Validate checks every rating is within MinRating..MaxRating.
func (r *EvaluationRating) Validate() error {
	scores := []struct {
		field string
		value int
	}{
		{"rating_accuracy", r.Accuracy},
		{"rating_relevance", r.Relevance},
		{"rating_coherence", r.Coherence},
		{"rating_utility", r.Utility},
	}
	for _, s := range scores {
		if s.value < MinRating || s.value > MaxRating {
			return &ValidationError{
				Field:   s.field,
				Message: fmt.Sprintf("must be between %d and %d", MinRating, MaxRating),
			}
		}
	}
	if r.EvaluatorUser == "" {
		return &ValidationError{Field: "evaluator_user", Message: "evaluator is required"}
	}
	if len(r.Comments) > maxCommentLength {
		return &ValidationError{
			Field:   "comments",
			Message: fmt.Sprintf("comments too long (max %d characters)", maxCommentLength),
		}
	}
	return nil
}

// RatingAverages holds the mean score per criterion over a set of ratings.
type RatingAverages struct {
	Count     int
	Accuracy  float64
	Relevance float64
	Coherence float64
	Utility   float64
}
