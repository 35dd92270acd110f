package auth

import (
	"slices"
	"strings"
)

// Roles carried in the "role" claim.
const (
	// RoleAdmin may reload the model and read every user's summaries.
	RoleAdmin = "admin"
	// RoleUser works with summaries and evaluations.
	RoleUser = "user"
)

// Permission lists the methods and path patterns a role may use.
type Permission struct {
	AllowedMethods []string
	// AllowedPaths supports a trailing "/*": "/summaries/*" matches
	// "/summaries" and everything below it.
	AllowedPaths []string
}

// RolePermissions maps each role to its permissions. OPTIONS is allowed for
// both roles so preflight requests pass.
var RolePermissions = map[string]Permission{
	RoleAdmin: {
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedPaths:   []string{"/*"},
	},
	RoleUser: {
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedPaths: []string{
			"/summaries/*",
			"/me/*",
		},
	},
}

// RoleFor returns RoleAdmin when username is listed in admins.
func RoleFor(username string, admins []string) string {
	if slices.ContainsFunc(admins, func(a string) bool { return strings.EqualFold(a, username) }) {
		return RoleAdmin
	}
	return RoleUser
}

// checkRolePermission reports whether role may call method on path. Unknown
// and empty roles are denied.
func checkRolePermission(role, method, path string) bool {
	perm, exists := RolePermissions[role]
	if !exists {
		return false
	}
	if !slices.Contains(perm.AllowedMethods, method) {
		return false
	}
	return matchesPathPattern(path, perm.AllowedPaths)
}

// matchesPathPattern checks path against exact patterns and "/prefix/*"
// wildcards.
//
//	matchesPathPattern("/summaries", []string{"/summaries/*"})       // true
//	matchesPathPattern("/summaries/1", []string{"/summaries/*"})     // true
//	matchesPathPattern("/summariesx", []string{"/summaries/*"})      // false
//	matchesPathPattern("/admin/model/reload", []string{"/me/*"})     // false
func matchesPathPattern(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "/*" {
			return true
		}
		if strings.HasSuffix(pattern, "/*") {
			prefix := strings.TrimSuffix(pattern, "/*")
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}
		if path == pattern {
			return true
		}
	}
	return false
}
