package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/repository"
)

type PasswordResetRepo struct{ db *sql.DB }

func NewPasswordResetRepo(db *sql.DB) repository.PasswordResetRepository {
	return &PasswordResetRepo{db: db}
}

func (repo *PasswordResetRepo) Create(ctx context.Context, r *entity.PasswordReset) error {
	defer observe("insert_password_reset", time.Now())
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	err := repo.db.QueryRowContext(ctx,
		`INSERT INTO password_resets (email, token, created_at) VALUES ($1, $2, $3) RETURNING id`,
		r.Email, r.Token, r.CreatedAt,
	).Scan(&r.ID)
	if err != nil {
		return mapError("Create", err)
	}
	return nil
}

func (repo *PasswordResetRepo) GetByToken(ctx context.Context, token string) (*entity.PasswordReset, error) {
	defer observe("get_password_reset", time.Now())
	var r entity.PasswordReset
	err := repo.db.QueryRowContext(ctx,
		`SELECT id, email, token, created_at FROM password_resets WHERE token = $1 LIMIT 1`, token,
	).Scan(&r.ID, &r.Email, &r.Token, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByToken: %w", err)
	}
	return &r, nil
}

func (repo *PasswordResetRepo) Delete(ctx context.Context, id int64) error {
	defer observe("delete_password_reset", time.Now())
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM password_resets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

func (repo *PasswordResetRepo) DeleteCreatedBefore(ctx context.Context, t time.Time) (int64, error) {
	defer observe("purge_password_resets", time.Now())
	res, err := repo.db.ExecContext(ctx, `DELETE FROM password_resets WHERE created_at < $1`, t)
	if err != nil {
		return 0, fmt.Errorf("DeleteCreatedBefore: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteCreatedBefore: RowsAffected: %w", err)
	}
	return n, nil
}
