package entity

import "time"

// User is a registered account. PasswordHash is a bcrypt hash.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PasswordReset is a single-use token issued for an email address.
type PasswordReset struct {
	ID        int64
	Email     string
	Token     string
	CreatedAt time.Time
}

// Expired reports whether the token is older than ttl at now.
func (p *PasswordReset) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(p.CreatedAt) > ttl
}
