package auth

import "strings"

// publicPaths are served without a bearer token: orchestration probes,
// Prometheus scraping, and the account endpoints a caller needs before it
// has a token.
var publicPaths = map[string]struct{}{
	"/health":                      {},
	"/ready":                       {},
	"/live":                        {},
	"/metrics":                     {},
	"/auth/register":               {},
	"/auth/token":                  {},
	"/auth/password-reset":         {},
	"/auth/password-reset/confirm": {},
}

// IsPublicEndpoint reports whether path is public. Matching is exact after
// dropping a query string and one trailing slash, so /health does not expose
// /health/detail or /healthcheck.
func IsPublicEndpoint(path string) bool {
	path, _, _ = strings.Cut(path, "?")
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	_, ok := publicPaths[path]
	return ok
}
