package repository

import (
	"context"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
)

// EvaluationRepository persists expert ratings.
type EvaluationRepository interface {
	// Create stores r and sets its ID and RatedAt.
	Create(ctx context.Context, r *entity.EvaluationRating) error
	// ListBySummary returns ratings of one summary, oldest first.
	ListBySummary(ctx context.Context, summaryID int64) ([]*entity.EvaluationRating, error)
}
