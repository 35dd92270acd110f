// Package postgres implements the repositories on PostgreSQL through pgx.
package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/metrics"
)

const uniqueViolation = "23505"

// mapError turns unique constraint violations into entity.ErrConflict.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w: %s", op, entity.ErrConflict, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func observe(op string, start time.Time) {
	metrics.RecordDBQuery(op, time.Since(start))
}
