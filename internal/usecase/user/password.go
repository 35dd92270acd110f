package user

import (
	"slices"
	"strings"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
)

// DefaultWeakPasswords are common passwords that are always rejected.
var DefaultWeakPasswords = []string{
	"password",
	"123456",
	"secret",
	"admin123",
	"password123",
	"123456789",
	"12345678",
	"qwerty",
	"abc123",
	"letmein",
	"welcome",
	"monkey",
	"1234567890",
	"password1",
	"test123",
	"default",
}

// checkPassword applies the length policy and rejects common passwords,
// compared case-insensitively.
func (s *Service) checkPassword(password string) error {
	if err := entity.ValidatePassword(password); err != nil {
		return err
	}
	p := strings.ToLower(password)
	if slices.Contains(DefaultWeakPasswords, p) || slices.ContainsFunc(s.WeakPasswords, func(w string) bool {
		return strings.EqualFold(w, p)
	}) {
		return &entity.ValidationError{Field: "password", Message: "password is too common"}
	}
	return nil
}
