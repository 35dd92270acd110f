package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/auth"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/middleware"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/requestid"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize"
	evalUC "github.com/FerdinandUkwayi/cals-legal-summarization/internal/usecase/evaluation"
	sumUC "github.com/FerdinandUkwayi/cals-legal-summarization/internal/usecase/summary"
)

/* ───────── stubs ───────── */

type routerAccounts struct{}

func (routerAccounts) Register(context.Context, string, string, string) (*entity.User, error) {
	return &entity.User{ID: 1}, nil
}

func (routerAccounts) Authenticate(context.Context, string, string) (*entity.User, error) {
	return &entity.User{ID: 1, Username: "alice"}, nil
}

func (routerAccounts) RequestPasswordReset(context.Context, string) (string, error) { return "", nil }

func (routerAccounts) ResetPassword(context.Context, string, string) error { return nil }

type routerSummaries struct{}

func (routerSummaries) Summarize(context.Context, sumUC.SummarizeInput) (sumUC.Outcome, error) {
	return sumUC.Outcome{Kind: summarize.KindSuccess, Summary: "s", Message: sumUC.MsgSuccess}, nil
}

func (routerSummaries) List(context.Context) ([]*entity.Summary, error) { return nil, nil }

func (routerSummaries) ListByUser(context.Context, int64) ([]*entity.Summary, error) { return nil, nil }

func (routerSummaries) Get(context.Context, int64) (*entity.Summary, error) {
	return nil, sumUC.ErrSummaryNotFound
}

func (routerSummaries) Delete(context.Context, int64, int64) error { return nil }

type routerEvaluations struct{}

func (routerEvaluations) Submit(context.Context, evalUC.RatingInput) (*entity.EvaluationRating, error) {
	return &entity.EvaluationRating{}, nil
}

func (routerEvaluations) ListBySummary(context.Context, int64) ([]*entity.EvaluationRating, error) {
	return nil, nil
}

func (routerEvaluations) Averages(context.Context, int64) (entity.RatingAverages, error) {
	return entity.RatingAverages{}, nil
}

type routerModels struct{ stubModels }

func (routerModels) Reload(context.Context) error { return nil }

/* ───────── helpers ───────── */

type testRouter struct {
	handler http.Handler
	issuer  *auth.Issuer
}

func newTestRouter(t *testing.T, limiter *middleware.ClientLimiter) testRouter {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	mock.ExpectPing()

	issuer := auth.NewIssuer([]byte(strings.Repeat("k", 32)), time.Hour, []string{"root"})
	return testRouter{
		issuer: issuer,
		handler: NewRouter(Deps{
			Logger:           slog.New(slog.DiscardHandler),
			DB:               db,
			Models:           routerModels{loadedModel},
			Issuer:           issuer,
			Accounts:         routerAccounts{},
			Notifier:         auth.LogNotifier{Logger: slog.New(slog.DiscardHandler)},
			Summaries:        routerSummaries{},
			Evaluations:      routerEvaluations{},
			SummarizeLimiter: limiter,
			MaxUploadBytes:   1 << 20,
			RequestTimeout:   5 * time.Second,
			Version:          "test",
		}),
	}
}

func (tr testRouter) token(t *testing.T, id int64, username string) string {
	t.Helper()
	tok, _, err := tr.issuer.Issue(&entity.User{ID: id, Username: username})
	require.NoError(t, err)
	return tok
}

func (tr testRouter) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)
	return rec
}

/* ───────── tests ───────── */

func TestNewRouter_PublicEndpoints(t *testing.T) {
	tr := newTestRouter(t, nil)

	for _, path := range []string{"/health", "/live", "/metrics"} {
		rec := tr.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get(requestid.RequestIDHeader), path)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"), path)
	}

	rec := tr.do(http.MethodPost, "/auth/token", "", `{"username":"alice","password":"pw"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token_type":"Bearer"`)
}

func TestNewRouter_RequiresToken(t *testing.T) {
	tr := newTestRouter(t, nil)

	rec := tr.do(http.MethodGet, "/summaries", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = tr.do(http.MethodGet, "/summaries", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = tr.do(http.MethodGet, "/summaries", tr.token(t, 1, "alice"), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRouter_Routes(t *testing.T) {
	tr := newTestRouter(t, nil)
	user := tr.token(t, 1, "alice")
	root := tr.token(t, 9, "root")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       string
		wantStatus int
	}{
		{"summarize", http.MethodPost, "/summaries", user, `{"text":"some legal text"}`, http.StatusOK},
		{"my summaries", http.MethodGet, "/me/summaries", user, "", http.StatusOK},
		{"get unknown", http.MethodGet, "/summaries/5", user, "", http.StatusNotFound},
		{"delete", http.MethodDelete, "/summaries/5", user, "", http.StatusNoContent},
		{"rate", http.MethodPost, "/summaries/5/evaluations", user, `{}`, http.StatusCreated},
		{"list ratings", http.MethodGet, "/summaries/5/evaluations", user, "", http.StatusOK},
		{"averages", http.MethodGet, "/summaries/5/evaluations/averages", user, "", http.StatusOK},
		{"reload as user", http.MethodPost, "/admin/model/reload", user, "", http.StatusForbidden},
		{"reload as admin", http.MethodPost, "/admin/model/reload", root, "", http.StatusOK},
		{"unknown route", http.MethodGet, "/articles", root, "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tr.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestNewRouter_SummarizeRateLimit(t *testing.T) {
	limiter := middleware.NewClientLimiter("summarize", 0.001, 1,
		middleware.ByUserOrIP(middleware.NewIPExtractor(middleware.TrustedProxyConfig{})))
	tr := newTestRouter(t, limiter)
	alice := tr.token(t, 1, "alice")
	bob := tr.token(t, 2, "bob")

	assert.Equal(t, http.StatusOK, tr.do(http.MethodPost, "/summaries", alice, `{"text":"x"}`).Code)

	rec := tr.do(http.MethodPost, "/summaries", alice, `{"text":"x"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, tr.do(http.MethodPost, "/summaries", bob, `{"text":"x"}`).Code)
	assert.Equal(t, http.StatusOK, tr.do(http.MethodGet, "/summaries", alice, "").Code)
}

func TestNewRouter_ModelStatusInHealth(t *testing.T) {
	tr := newTestRouter(t, nil)
	rec := tr.do(http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"model"`)
}
