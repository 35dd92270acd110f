package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern maps a dynamic route to its metric label.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns are evaluated in order, most specific first.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/summaries/\d+$`), Template: "/summaries/:id"},
	{Pattern: regexp.MustCompile(`^/summaries/\d+/evaluations$`), Template: "/summaries/:id/evaluations"},
	{Pattern: regexp.MustCompile(`^/summaries/\d+/evaluations/averages$`), Template: "/summaries/:id/evaluations/averages"},
}

// NormalizePath replaces numeric IDs with ":id" so metric label cardinality
// stays bounded. Query strings and a trailing slash are dropped; paths that
// match no pattern are returned unchanged.
//
//	NormalizePath("/summaries/42")             // "/summaries/:id"
//	NormalizePath("/summaries/42/evaluations") // "/summaries/:id/evaluations"
//	NormalizePath("/summaries/upload")         // "/summaries/upload"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
