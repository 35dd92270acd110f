package middleware

import (
	"net/http"
	"strings"
)

// Policy is an ordered list of Content-Security-Policy directives.
type Policy []Directive

// Directive is one CSP directive and its source list.
type Directive struct {
	Name    string
	Sources []string
}

// APIPolicy blocks every content type. The API serves only JSON, so no
// browser context should load anything from it.
var APIPolicy = Policy{
	{"default-src", []string{"'none'"}},
	{"frame-ancestors", []string{"'none'"}},
	{"base-uri", []string{"'none'"}},
	{"form-action", []string{"'none'"}},
}

// String renders the header value, e.g. "default-src 'none'; frame-ancestors 'none'".
func (p Policy) String() string {
	parts := make([]string, 0, len(p))
	for _, d := range p {
		if len(d.Sources) == 0 {
			continue
		}
		parts = append(parts, d.Name+" "+strings.Join(d.Sources, " "))
	}
	return strings.Join(parts, "; ")
}

// SecurityHeaders sets the CSP and the usual hardening headers on every
// response before next runs.
func SecurityHeaders(p Policy) func(http.Handler) http.Handler {
	csp := p.String()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if csp != "" {
				h.Set("Content-Security-Policy", csp)
			}
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		})
	}
}
