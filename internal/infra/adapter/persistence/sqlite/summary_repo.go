package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/repository"
)

type SummaryRepo struct{ db *sql.DB }

func NewSummaryRepo(db *sql.DB) repository.SummaryRepository {
	return &SummaryRepo{db: db}
}

const summaryColumns = `
    s.id, s.user_id, u.username, s.filename, s.method, s.summary_text,
    s.summary_length, s.full_text, s.doc_type, s.jurisdiction, s.goal, s.created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (*entity.Summary, error) {
	var s entity.Summary
	err := row.Scan(
		&s.ID, &s.UserID, &s.Username, &s.Filename, &s.Method, &s.Text,
		&s.Length, &s.FullText, &s.Context.DocType, &s.Context.Jurisdiction, &s.Context.Goal, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (repo *SummaryRepo) Create(ctx context.Context, s *entity.Summary) error {
	defer observe("insert_summary", time.Now())
	const query = `
INSERT INTO summaries
    (user_id, filename, method, summary_text, summary_length, full_text,
     doc_type, jurisdiction, goal, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	res, err := repo.db.ExecContext(ctx, query,
		s.UserID, s.Filename, s.Method, s.Text, s.Length, s.FullText,
		string(s.Context.DocType), string(s.Context.Jurisdiction), string(s.Context.Goal), s.CreatedAt,
	)
	if err != nil {
		return mapError("Create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	s.ID = id
	return nil
}

func (repo *SummaryRepo) Get(ctx context.Context, id int64) (*entity.Summary, error) {
	defer observe("get_summary", time.Now())
	query := `
SELECT` + summaryColumns + `
FROM summaries s
JOIN users u ON u.id = s.user_id
WHERE s.id = ?
LIMIT 1`
	s, err := scanSummary(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return s, nil
}

func (repo *SummaryRepo) List(ctx context.Context) ([]*entity.Summary, error) {
	defer observe("list_summaries", time.Now())
	query := `
SELECT` + summaryColumns + `
FROM summaries s
JOIN users u ON u.id = s.user_id
ORDER BY s.created_at DESC, s.id DESC`
	return repo.list(ctx, "List", query)
}

func (repo *SummaryRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.Summary, error) {
	defer observe("list_summaries_by_user", time.Now())
	query := `
SELECT` + summaryColumns + `
FROM summaries s
JOIN users u ON u.id = s.user_id
WHERE s.user_id = ?
ORDER BY s.created_at DESC, s.id DESC`
	return repo.list(ctx, "ListByUser", query, userID)
}

func (repo *SummaryRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Summary, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: QueryContext: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	summaries := make([]*entity.Summary, 0, 20)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return summaries, nil
}

func (repo *SummaryRepo) Delete(ctx context.Context, id int64) error {
	defer observe("delete_summary", time.Now())
	res, err := repo.db.ExecContext(ctx, `DELETE FROM summaries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: RowsAffected: %w", err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
