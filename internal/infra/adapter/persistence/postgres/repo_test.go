package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/infra/adapter/persistence/postgres"
)

/* ──────────────────────────── summaries ──────────────────────────── */

var summaryCols = []string{
	"id", "user_id", "username", "filename", "method", "summary_text",
	"summary_length", "full_text", "doc_type", "jurisdiction", "goal", "created_at",
}

func sampleSummary(id int64) *entity.Summary {
	return &entity.Summary{
		ID: id, UserID: 3, Username: "alice", Filename: "opinion.html",
		Method: entity.MethodRecursive, Text: "The appeal is dismissed.", Length: 4,
		FullText: "full text",
		Context: entity.Context{
			DocType:      entity.DocTypeJudicialOpinion,
			Jurisdiction: entity.JurisdictionUS,
			Goal:         entity.GoalSummarizeForDefendant,
		},
		CreatedAt: time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC),
	}
}

func TestSummaryRepo_Create(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	s := sampleSummary(0)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO summaries")).
		WithArgs(s.UserID, s.Filename, s.Method, s.Text, s.Length, s.FullText,
			"judicial_opinion", "us", "summarize_for_defendant", s.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))

	if err := postgres.NewSummaryRepo(db).Create(context.Background(), s); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if s.ID != 21 {
		t.Fatalf("ID = %d, want 21", s.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSummaryRepo_Get(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	want := sampleSummary(7)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(summaryCols).AddRow(
			want.ID, want.UserID, want.Username, want.Filename, want.Method, want.Text,
			want.Length, want.FullText, "judicial_opinion", "us", "summarize_for_defendant", want.CreatedAt,
		))

	got, err := postgres.NewSummaryRepo(db).Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Get mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryRepo_List(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY s.created_at DESC")).
		WillReturnRows(sqlmock.NewRows(summaryCols))

	got, err := postgres.NewSummaryRepo(db).List(context.Background())
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(got) != 0 {
		t.Fatalf("List len = %d, want 0", len(got))
	}
}

func TestSummaryRepo_Delete_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM summaries WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := postgres.NewSummaryRepo(db).Delete(context.Background(), 1)
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("Delete err=%v, want ErrNotFound", err)
	}
}

/* ──────────────────────────── users ──────────────────────────── */

func TestUserRepo_Create_Conflict(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := postgres.NewUserRepo(db).Create(context.Background(), &entity.User{Username: "alice"})
	if !errors.Is(err, entity.ErrConflict) {
		t.Fatalf("Create err=%v, want ErrConflict", err)
	}
}

func TestUserRepo_Get(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
			AddRow(2, "bob", "bob@example.com", "hash", now))

	got, err := postgres.NewUserRepo(db).Get(context.Background(), 2)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	want := &entity.User{ID: 2, Username: "bob", Email: "bob@example.com", PasswordHash: "hash", CreatedAt: now}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Get mismatch (-want +got):\n%s", diff)
	}
}

/* ──────────────────────────── resets / evaluations ──────────────────────────── */

func TestPasswordResetRepo_GetByToken_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE token = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "token", "created_at"}))

	got, err := postgres.NewPasswordResetRepo(db).GetByToken(context.Background(), "missing")
	if err != nil || got != nil {
		t.Fatalf("GetByToken = %v, %v; want nil, nil", got, err)
	}
}

func TestPasswordResetRepo_DeleteCreatedBefore(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	cutoff := time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM password_resets WHERE created_at < $1")).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := postgres.NewPasswordResetRepo(db).DeleteCreatedBefore(context.Background(), cutoff)
	if err != nil || n != 2 {
		t.Fatalf("DeleteCreatedBefore = %d, %v; want 2, nil", n, err)
	}
}

func TestEvaluationRepo_Create(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO evaluation_ratings")).
		WithArgs(int64(4), "expert", "identify_risks", 1, 2, 3, 4, "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	r := &entity.EvaluationRating{
		SummaryID: 4, EvaluatorUser: "expert", TargetGoal: entity.GoalIdentifyRisks,
		Accuracy: 1, Relevance: 2, Coherence: 3, Utility: 4,
	}
	if err := postgres.NewEvaluationRepo(db).Create(context.Background(), r); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if r.ID != 3 || r.RatedAt.IsZero() {
		t.Fatalf("Create did not fill ID/RatedAt: %+v", r)
	}
}
