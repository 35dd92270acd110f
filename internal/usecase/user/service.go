// Package user implements account registration, login and password reset.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/logging"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/metrics"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/repository"
)

// DefaultResetTTL is how long a password reset token stays valid.
const DefaultResetTTL = time.Hour

// Service manages accounts.
type Service struct {
	Users  repository.UserRepository
	Resets repository.PasswordResetRepository
	// ResetTTL defaults to DefaultResetTTL.
	ResetTTL time.Duration
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
	// WeakPasswords are rejected in addition to DefaultWeakPasswords.
	WeakPasswords []string
	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ttl() time.Duration {
	if s.ResetTTL > 0 {
		return s.ResetTTL
	}
	return DefaultResetTTL
}

func (s *Service) hash(password string) (string, error) {
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Register creates an account. Username and email are stored lowercase.
func (s *Service) Register(ctx context.Context, username, email, password string) (*entity.User, error) {
	username = entity.NormalizeUsername(username)
	email = entity.NormalizeEmail(email)
	if err := entity.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := entity.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := s.checkPassword(password); err != nil {
		return nil, err
	}

	if u, err := s.Users.GetByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	} else if u != nil {
		return nil, ErrUserExists
	}
	if u, err := s.Users.GetByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	} else if u != nil {
		return nil, ErrUserExists
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, entity.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	logging.FromContext(ctx).InfoContext(ctx, "User registered",
		slog.Int64("user_id", u.ID),
		slog.String("username", u.Username))
	return u, nil
}

// Authenticate checks a username and password pair.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, entity.NormalizeUsername(username))
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// RequestPasswordReset issues a reset token for email. The token is empty,
// and no error is returned, when no account uses that address.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = entity.NormalizeEmail(email)
	if err := entity.ValidateEmail(email); err != nil {
		return "", err
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("get user by email: %w", err)
	}
	if u == nil {
		logging.FromContext(ctx).InfoContext(ctx, "Password reset requested for unknown email")
		return "", nil
	}

	r := &entity.PasswordReset{Email: email, Token: uuid.NewString(), CreatedAt: s.now()}
	if err := s.Resets.Create(ctx, r); err != nil {
		return "", fmt.Errorf("create password reset: %w", err)
	}
	logging.FromContext(ctx).InfoContext(ctx, "Password reset token issued", slog.Int64("user_id", u.ID))
	return r.Token, nil
}

// ResetPassword sets a new password using a token from RequestPasswordReset.
// The token is consumed whether or not it has expired.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := s.checkPassword(newPassword); err != nil {
		return err
	}
	r, err := s.Resets.GetByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("get password reset: %w", err)
	}
	if r == nil {
		return ErrInvalidResetToken
	}
	if err := s.Resets.Delete(ctx, r.ID); err != nil {
		return fmt.Errorf("delete password reset: %w", err)
	}
	if r.Expired(s.now(), s.ttl()) {
		return ErrInvalidResetToken
	}

	u, err := s.Users.GetByEmail(ctx, r.Email)
	if err != nil {
		return fmt.Errorf("get user by email: %w", err)
	}
	if u == nil {
		return ErrInvalidResetToken
	}
	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	logging.FromContext(ctx).InfoContext(ctx, "Password reset completed", slog.Int64("user_id", u.ID))
	return nil
}

// PurgeExpiredResets deletes tokens older than the TTL.
func (s *Service) PurgeExpiredResets(ctx context.Context) (int64, error) {
	n, err := s.Resets.DeleteCreatedBefore(ctx, s.now().Add(-s.ttl()))
	if err != nil {
		return 0, fmt.Errorf("purge password resets: %w", err)
	}
	metrics.RecordPasswordResetsPurged(n)
	return n, nil
}
