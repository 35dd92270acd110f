// Package persistence selects the repository implementations for a database
// dialect.
package persistence

import (
	"database/sql"
	"fmt"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/infra/adapter/persistence/postgres"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/infra/adapter/persistence/sqlite"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/infra/db"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/repository"
)

// Repositories groups every repository the binaries use.
type Repositories struct {
	Summaries   repository.SummaryRepository
	Evaluations repository.EvaluationRepository
	Users       repository.UserRepository
	Resets      repository.PasswordResetRepository
}

// New returns the repositories for dialect backed by conn.
func New(conn *sql.DB, dialect db.Dialect) (Repositories, error) {
	switch dialect {
	case db.DialectSQLite:
		return Repositories{
			Summaries:   sqlite.NewSummaryRepo(conn),
			Evaluations: sqlite.NewEvaluationRepo(conn),
			Users:       sqlite.NewUserRepo(conn),
			Resets:      sqlite.NewPasswordResetRepo(conn),
		}, nil
	case db.DialectPostgres:
		return Repositories{
			Summaries:   postgres.NewSummaryRepo(conn),
			Evaluations: postgres.NewEvaluationRepo(conn),
			Users:       postgres.NewUserRepo(conn),
			Resets:      postgres.NewPasswordResetRepo(conn),
		}, nil
	default:
		return Repositories{}, fmt.Errorf("no repositories for dialect %q", dialect)
	}
}
