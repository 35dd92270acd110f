package http

import (
	"errors"
	"net/http"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/respond"
)

const (
	// MaxAuthorizationHeader bounds the Authorization header. Issued tokens
	// are well under 1KB.
	MaxAuthorizationHeader = 8192
	// MaxPathLength bounds the request path.
	MaxPathLength = 2048
)

var (
	errAuthHeaderTooLarge = errors.New("authorization header too long")
	errURITooLong         = errors.New("URI too long")
)

// InputValidation returns middleware that rejects oversized Authorization
// headers and paths before any other work is done.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.Header.Get("Authorization")) > MaxAuthorizationHeader {
				respond.Error(w, http.StatusBadRequest, errAuthHeaderTooLarge)
				return
			}
			if len(r.URL.Path) > MaxPathLength {
				respond.Error(w, http.StatusRequestURITooLong, errURITooLong)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
