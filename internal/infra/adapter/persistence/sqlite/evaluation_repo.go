package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/repository"
)

type EvaluationRepo struct{ db *sql.DB }

func NewEvaluationRepo(db *sql.DB) repository.EvaluationRepository {
	return &EvaluationRepo{db: db}
}

func (repo *EvaluationRepo) Create(ctx context.Context, r *entity.EvaluationRating) error {
	defer observe("insert_evaluation", time.Now())
	const query = `
INSERT INTO evaluation_ratings
    (summary_id, evaluator_user, target_goal, rating_accuracy, rating_relevance,
     rating_coherence, rating_utility, comments, rated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if r.RatedAt.IsZero() {
		r.RatedAt = time.Now().UTC()
	}
	res, err := repo.db.ExecContext(ctx, query,
		r.SummaryID, r.EvaluatorUser, string(r.TargetGoal), r.Accuracy, r.Relevance,
		r.Coherence, r.Utility, r.Comments, r.RatedAt,
	)
	if err != nil {
		return mapError("Create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	r.ID = id
	return nil
}

func (repo *EvaluationRepo) ListBySummary(ctx context.Context, summaryID int64) ([]*entity.EvaluationRating, error) {
	defer observe("list_evaluations", time.Now())
	const query = `
SELECT id, summary_id, evaluator_user, target_goal, rating_accuracy, rating_relevance,
       rating_coherence, rating_utility, comments, rated_at
FROM evaluation_ratings
WHERE summary_id = ?
ORDER BY rated_at ASC, id ASC`
	rows, err := repo.db.QueryContext(ctx, query, summaryID)
	if err != nil {
		return nil, fmt.Errorf("ListBySummary: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ratings []*entity.EvaluationRating
	for rows.Next() {
		var r entity.EvaluationRating
		if err := rows.Scan(
			&r.ID, &r.SummaryID, &r.EvaluatorUser, &r.TargetGoal, &r.Accuracy, &r.Relevance,
			&r.Coherence, &r.Utility, &r.Comments, &r.RatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListBySummary: Scan: %w", err)
		}
		ratings = append(ratings, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListBySummary: rows.Err: %w", err)
	}
	return ratings, nil
}
