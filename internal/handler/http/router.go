package http

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/common/pagination"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/admin"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/auth"
	evalH "github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/evaluation"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/middleware"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/requestid"
	sumH "github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/summary"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/tracing"
)

// multipartOverhead is added to MaxUploadBytes for the request body limit so
// a file of exactly the maximum size still fits with its form framing.
const multipartOverhead = 64 << 10

// Models is the model holder as seen by the router.
type Models interface {
	ModelStatus
	admin.Models
}

// Deps are the collaborators NewRouter wires together.
type Deps struct {
	Logger      *slog.Logger
	DB          *sql.DB
	Models      Models
	Issuer      *auth.Issuer
	Accounts    auth.Accounts
	Notifier    auth.ResetNotifier
	Summaries   sumH.Service
	Evaluations evalH.Service

	// SummarizeLimiter throttles the model routes per user; AuthLimiter
	// throttles /auth/* per client IP. Either may be nil.
	SummarizeLimiter *middleware.ClientLimiter
	AuthLimiter      *middleware.ClientLimiter

	MaxUploadBytes int64
	RequestTimeout time.Duration
	Pagination     pagination.Config
	Version        string
}

// NewRouter builds the API handler with the full middleware chain:
// request id, tracing, access log, panic recovery, security headers, metrics,
// input limits, timeout and authorization, outermost first.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /health", &HealthHandler{DB: d.DB, Models: d.Models, Version: d.Version})
	mux.Handle("GET /ready", &ReadyHandler{DB: d.DB, Models: d.Models})
	mux.Handle("GET /live", &LiveHandler{})
	mux.Handle("GET /metrics", MetricsHandler())

	authMux := http.NewServeMux()
	auth.Register(authMux, d.Accounts, d.Issuer, d.Notifier)
	mux.Handle("/auth/", limitWith(d.AuthLimiter)(authMux))

	sumH.Register(mux, d.Summaries, d.MaxUploadBytes, d.Pagination, limitWith(d.SummarizeLimiter))
	evalH.Register(mux, d.Evaluations)
	admin.Register(mux, d.Models)

	var h http.Handler = mux
	h = auth.Authz(d.Issuer)(h)
	if d.RequestTimeout > 0 {
		h = Timeout(d.RequestTimeout)(h)
	}
	h = LimitRequestBody(d.MaxUploadBytes + multipartOverhead)(h)
	h = InputValidation()(h)
	h = MetricsMiddleware(h)
	h = middleware.SecurityHeaders(middleware.APIPolicy)(h)
	h = Recover(d.Logger)(h)
	h = Logging(d.Logger)(h)
	h = tracing.Middleware(h)
	h = requestid.Middleware(h)
	return h
}

func limitWith(l *middleware.ClientLimiter) func(http.Handler) http.Handler {
	if l == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	return l.Middleware
}
