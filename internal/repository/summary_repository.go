package repository

import (
	"context"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
)

// SummaryRepository persists summarization results.
type SummaryRepository interface {
	// Create stores s and sets its ID and CreatedAt.
	Create(ctx context.Context, s *entity.Summary) error
	// Get returns (nil, nil) when no summary has the given ID.
	// Username is filled from the owning user.
	Get(ctx context.Context, id int64) (*entity.Summary, error)
	// List returns all summaries, newest first.
	List(ctx context.Context) ([]*entity.Summary, error)
	// ListByUser returns the summaries of one user, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*entity.Summary, error)
	// Delete returns entity.ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id int64) error
}
