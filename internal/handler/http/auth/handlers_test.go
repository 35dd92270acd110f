package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	userUC "github.com/FerdinandUkwayi/cals-legal-summarization/internal/usecase/user"
)

/* ───────── stubs ───────── */

type stubAccounts struct {
	user       *entity.User
	err        error
	resetToken string
	gotReset   [2]string
}

func (s *stubAccounts) Register(_ context.Context, username, email, _ string) (*entity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.User{ID: 11, Username: username, Email: email, CreatedAt: time.Unix(0, 0).UTC()}, nil
}

func (s *stubAccounts) Authenticate(_ context.Context, _, _ string) (*entity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubAccounts) RequestPasswordReset(_ context.Context, _ string) (string, error) {
	return s.resetToken, s.err
}

func (s *stubAccounts) ResetPassword(_ context.Context, token, pw string) error {
	s.gotReset = [2]string{token, pw}
	return s.err
}

type recordingNotifier struct {
	email, token string
	calls        int
}

func (n *recordingNotifier) DeliverResetToken(_ context.Context, email, token string) error {
	n.calls++
	n.email, n.token = email, token
	return nil
}

func newMux(acc Accounts, n ResetNotifier) *http.ServeMux {
	mux := http.NewServeMux()
	Register(mux, acc, newTestIssuer(time.Now(), "clerk"), n)
	return mux
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body)))
	return rec
}

/* ───────── tests ───────── */

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		body     string
		wantCode int
	}{
		{"created", nil, `{"username":"jdoe","email":"j@example.com","password":"long-enough-pw"}`, http.StatusCreated},
		{"bad json", nil, `{`, http.StatusBadRequest},
		{"validation", &entity.ValidationError{Field: "email", Message: "invalid email"}, `{}`, http.StatusBadRequest},
		{"duplicate", userUC.ErrUserExists, `{}`, http.StatusConflict},
		{"store failure", errors.New("disk full"), `{}`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, newMux(&stubAccounts{err: tt.err}, &recordingNotifier{}), "/auth/register", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}

	rec := post(t, newMux(&stubAccounts{}, &recordingNotifier{}), "/auth/register",
		`{"username":"jdoe","email":"j@example.com","password":"long-enough-pw"}`)
	var got UserDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, UserDTO{ID: 11, Username: "jdoe", Email: "j@example.com", CreatedAt: time.Unix(0, 0).UTC()}, got)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestTokenHandler_Success(t *testing.T) {
	acc := &stubAccounts{user: &entity.User{ID: 4, Username: "clerk"}}
	issuer := newTestIssuer(time.Now(), "clerk")
	rec := httptest.NewRecorder()
	TokenHandler{Svc: acc, Issuer: issuer}.ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString(`{"username":"clerk","password":"x"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp tokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Bearer", resp.TokenType)

	p, err := issuer.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: 4, Username: "clerk", Role: RoleAdmin}, p)
}

func TestTokenHandler_Failures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		body     string
		wantCode int
	}{
		{"bad json", nil, `not json`, http.StatusBadRequest},
		{"wrong password", userUC.ErrInvalidCredentials, `{"username":"a","password":"b"}`, http.StatusUnauthorized},
		{"store failure", errors.New("db down"), `{"username":"a","password":"b"}`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, newMux(&stubAccounts{err: tt.err}, &recordingNotifier{}), "/auth/token", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.NotContains(t, rec.Body.String(), "db down")
		})
	}
}

func TestResetRequestHandler(t *testing.T) {
	n := &recordingNotifier{}
	rec := post(t, newMux(&stubAccounts{resetToken: "tok-1"}, n), "/auth/password-reset", `{"email":"j@example.com"}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), resetAccepted)
	assert.NotContains(t, rec.Body.String(), "tok-1")
	assert.Equal(t, 1, n.calls)
	assert.Equal(t, "j@example.com", n.email)
	assert.Equal(t, "tok-1", n.token)
}

func TestResetRequestHandler_UnknownEmailLooksTheSame(t *testing.T) {
	n := &recordingNotifier{}
	rec := post(t, newMux(&stubAccounts{}, n), "/auth/password-reset", `{"email":"nobody@example.com"}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), resetAccepted)
	assert.Zero(t, n.calls)
}

func TestResetConfirmHandler(t *testing.T) {
	acc := &stubAccounts{}
	rec := post(t, newMux(acc, &recordingNotifier{}), "/auth/password-reset/confirm",
		`{"token":"tok-1","new_password":"a-new-long-password"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, [2]string{"tok-1", "a-new-long-password"}, acc.gotReset)

	rec = post(t, newMux(&stubAccounts{err: userUC.ErrInvalidResetToken}, &recordingNotifier{}),
		"/auth/password-reset/confirm", `{"token":"old","new_password":"a-new-long-password"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired reset token")
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := LogNotifier{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}
	require.NoError(t, n.DeliverResetToken(context.Background(), "j@example.com", "tok-9"))
	assert.Contains(t, buf.String(), `"token":"tok-9"`)
}
