// Package auth issues bearer tokens, guards private routes and serves the
// account endpoints.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/respond"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/logging"
	userUC "github.com/FerdinandUkwayi/cals-legal-summarization/internal/usecase/user"
)

// Accounts is the account use case consumed by the handlers.
// *userUC.Service satisfies it.
type Accounts interface {
	Register(ctx context.Context, username, email, password string) (*entity.User, error)
	Authenticate(ctx context.Context, username, password string) (*entity.User, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// ResetNotifier delivers a password reset token to the owner of email.
type ResetNotifier interface {
	DeliverResetToken(ctx context.Context, email, token string) error
}

// LogNotifier writes reset tokens to the service log. It is meant for
// deployments where operators hand tokens out manually.
type LogNotifier struct {
	Logger *slog.Logger
}

// DeliverResetToken logs token at info level.
func (n LogNotifier) DeliverResetToken(ctx context.Context, email, token string) error {
	n.Logger.InfoContext(ctx, "password reset token issued",
		slog.String("email", email),
		slog.String("token", token))
	return nil
}

// Register mounts the account routes.
func Register(mux *http.ServeMux, accounts Accounts, issuer *Issuer, notifier ResetNotifier) {
	mux.Handle("POST /auth/register", RegisterHandler{Svc: accounts})
	mux.Handle("POST /auth/token", TokenHandler{Svc: accounts, Issuer: issuer})
	mux.Handle("POST /auth/password-reset", ResetRequestHandler{Svc: accounts, Notifier: notifier})
	mux.Handle("POST /auth/password-reset/confirm", ResetConfirmHandler{Svc: accounts})
}

type registerRequest struct {
	Username string `json:"username" example:"jdoe"`
	Email    string `json:"email" example:"jdoe@example.com"`
	Password string `json:"password" example:"correct-horse-battery"`
}

// UserDTO is the public view of an account.
type UserDTO struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterHandler creates accounts.
type RegisterHandler struct{ Svc Accounts }

// ServeHTTP registers a user.
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body registerRequest true "account"
// @Success      201 {object} UserDTO
// @Failure      400 {string} string "validation error"
// @Failure      409 {string} string "username or email already exists"
// @Router       /auth/register [post]
func (h RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	u, err := h.Svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		RecordAccountEvent("register", false)
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, entity.ErrValidationFailed):
			code = http.StatusBadRequest
		case errors.Is(err, userUC.ErrUserExists):
			code = http.StatusConflict
		}
		respond.SafeError(w, code, err)
		return
	}

	RecordAccountEvent("register", true)
	logging.FromContext(r.Context()).InfoContext(r.Context(), "user registered",
		slog.Int64("user_id", u.ID),
		slog.String("username", u.Username))
	respond.JSON(w, http.StatusCreated, UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	})
}

type loginRequest struct {
	Username string `json:"username" example:"jdoe"`
	Password string `json:"password" example:"correct-horse-battery"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenHandler authenticates users and issues JWT tokens.
type TokenHandler struct {
	Svc    Accounts
	Issuer *Issuer
}

// ServeHTTP exchanges credentials for a bearer token.
// @Summary      Issue token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "credentials"
// @Success      200 {object} tokenResponse
// @Failure      400 {string} string "invalid request"
// @Failure      401 {string} string "invalid credentials"
// @Router       /auth/token [post]
func (h TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := logging.FromContext(r.Context())

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("authentication failed",
			slog.String("reason", "invalid_request"),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		RecordTokenRequest("unknown", false, time.Since(start))
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	u, err := h.Svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		code := http.StatusInternalServerError
		reason := "internal"
		if errors.Is(err, userUC.ErrInvalidCredentials) {
			code = http.StatusUnauthorized
			reason = "invalid_credentials"
		}
		logger.Warn("authentication failed",
			slog.String("reason", reason),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		RecordTokenRequest("unknown", false, time.Since(start))
		respond.SafeError(w, code, err)
		return
	}

	role := RoleFor(u.Username, h.Issuer.admins)
	signed, exp, err := h.Issuer.Issue(u)
	if err != nil {
		logger.Error("token generation failed",
			slog.Any("error", err),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		RecordTokenRequest(role, false, time.Since(start))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info("authentication successful",
		slog.String("username", u.Username),
		slog.String("role", role),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	RecordTokenRequest(role, true, time.Since(start))

	respond.JSON(w, http.StatusOK, tokenResponse{Token: signed, TokenType: "Bearer", ExpiresAt: exp})
}

type resetRequest struct {
	Email string `json:"email" example:"jdoe@example.com"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// resetAccepted is returned whether or not the email is registered.
const resetAccepted = "If the email is registered, a reset token has been issued."

// ResetRequestHandler starts a password reset.
type ResetRequestHandler struct {
	Svc      Accounts
	Notifier ResetNotifier
}

// ServeHTTP issues a reset token and hands it to the notifier.
// @Summary      Request password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body resetRequest true "email"
// @Success      202 {object} messageResponse
// @Router       /auth/password-reset [post]
func (h ResetRequestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	token, err := h.Svc.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		RecordAccountEvent("reset_request", false)
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	if token != "" {
		if err := h.Notifier.DeliverResetToken(r.Context(), req.Email, token); err != nil {
			RecordAccountEvent("reset_request", false)
			respond.SafeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	RecordAccountEvent("reset_request", true)
	respond.JSON(w, http.StatusAccepted, messageResponse{Message: resetAccepted})
}

type resetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetConfirmHandler completes a password reset.
type ResetConfirmHandler struct{ Svc Accounts }

// ServeHTTP sets a new password using a reset token.
// @Summary      Confirm password reset
// @Tags         auth
// @Accept       json
// @Param        request body resetConfirmRequest true "token and new password"
// @Success      204
// @Failure      400 {string} string "invalid or expired token, or weak password"
// @Router       /auth/password-reset/confirm [post]
func (h ResetConfirmHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	if err := h.Svc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		RecordAccountEvent("reset_confirm", false)
		code := http.StatusInternalServerError
		if errors.Is(err, entity.ErrValidationFailed) || errors.Is(err, userUC.ErrInvalidResetToken) {
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}

	RecordAccountEvent("reset_confirm", true)
	w.WriteHeader(http.StatusNoContent)
}
