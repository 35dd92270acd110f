package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/respond"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/logging"
)

type ctxKey string

const ctxUser ctxKey = "user"

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxUser, p)
}

// UserFromContext returns the principal set by Authz.
func UserFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxUser).(Principal)
	return p, ok
}

// Authz requires a valid bearer token on every path IsPublicEndpoint
// rejects, then checks the role's permissions. The principal and a logger
// carrying the username are added to the context.
func Authz(issuer *Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			p, err := bearer(r.Header.Get("Authorization"), issuer)
			if err != nil {
				RecordAuthzCheck(time.Since(start))
				w.Header().Set("WWW-Authenticate", `Bearer realm="cals"`)
				if !errors.Is(err, ErrMissingToken) {
					err = ErrInvalidToken
				}
				respond.Error(w, http.StatusUnauthorized, err)
				return
			}
			allowed := checkRolePermission(p.Role, r.Method, r.URL.Path)
			RecordAuthzCheck(time.Since(start))
			if !allowed {
				RecordForbiddenAttempt(p.Role, r.Method)
				logging.FromContext(r.Context()).WarnContext(r.Context(), "forbidden request",
					slog.String("username", p.Username),
					slog.String("role", p.Role),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))
				respond.SafeError(w, http.StatusForbidden, errors.New("forbidden"))
				return
			}

			ctx := WithPrincipal(r.Context(), p)
			ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With(slog.String("username", p.Username)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearer(header string, issuer *Issuer) (Principal, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return Principal{}, ErrMissingToken
	}
	return issuer.Parse(strings.TrimSpace(strings.TrimPrefix(header, prefix)))
}
