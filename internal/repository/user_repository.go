package repository

import (
	"context"
	"time"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
)

// UserRepository persists accounts. Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	// Create returns entity.ErrConflict when the username or email is taken.
	Create(ctx context.Context, u *entity.User) error
	Get(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// PasswordResetRepository persists single-use reset tokens.
type PasswordResetRepository interface {
	Create(ctx context.Context, r *entity.PasswordReset) error
	// GetByToken returns (nil, nil) for unknown tokens.
	GetByToken(ctx context.Context, token string) (*entity.PasswordReset, error)
	Delete(ctx context.Context, id int64) error
	// DeleteCreatedBefore removes tokens issued before t and returns how many.
	DeleteCreatedBefore(ctx context.Context, t time.Time) (int64, error)
}
