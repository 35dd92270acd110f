package auth

import "testing"

func TestCheckRolePermission(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		method string
		path   string
		want   bool
	}{
		{"admin reloads model", RoleAdmin, "POST", "/admin/model/reload", true},
		{"admin lists all summaries", RoleAdmin, "GET", "/summaries", true},
		{"admin uses PUT", RoleAdmin, "PUT", "/summaries/1", true},
		{"user creates summary", RoleUser, "POST", "/summaries", true},
		{"user uploads", RoleUser, "POST", "/summaries/upload", true},
		{"user deletes summary", RoleUser, "DELETE", "/summaries/3", true},
		{"user rates summary", RoleUser, "POST", "/summaries/3/evaluations", true},
		{"user reads own summaries", RoleUser, "GET", "/me/summaries", true},
		{"user preflight", RoleUser, "OPTIONS", "/summaries", true},
		{"user cannot reload model", RoleUser, "POST", "/admin/model/reload", false},
		{"user cannot PUT", RoleUser, "PUT", "/summaries/1", false},
		{"user prefix lookalike", RoleUser, "GET", "/summariesx", false},
		{"empty role", "", "GET", "/summaries", false},
		{"unknown role", "viewer", "GET", "/summaries", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkRolePermission(tt.role, tt.method, tt.path); got != tt.want {
				t.Errorf("checkRolePermission(%q, %q, %q) = %v, want %v", tt.role, tt.method, tt.path, got, tt.want)
			}
		})
	}
}

func TestMatchesPathPattern(t *testing.T) {
	patterns := []string{"/summaries/*", "/health"}
	tests := []struct {
		path string
		want bool
	}{
		{"/summaries", true},
		{"/summaries/1", true},
		{"/summaries/1/evaluations", true},
		{"/health", true},
		{"/health/detail", false},
		{"/summariesx", false},
		{"/me/summaries", false},
	}
	for _, tt := range tests {
		if got := matchesPathPattern(tt.path, patterns); got != tt.want {
			t.Errorf("matchesPathPattern(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestRoleFor(t *testing.T) {
	admins := []string{"Clerk", "registrar"}
	if got := RoleFor("clerk", admins); got != RoleAdmin {
		t.Errorf("RoleFor(clerk) = %q, want admin", got)
	}
	if got := RoleFor("jdoe", admins); got != RoleUser {
		t.Errorf("RoleFor(jdoe) = %q, want user", got)
	}
	if got := RoleFor("jdoe", nil); got != RoleUser {
		t.Errorf("RoleFor with no admins = %q, want user", got)
	}
}
