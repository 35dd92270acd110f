package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize/inference"
)

type stubModels struct {
	reloadErr error
	reloads   int
	status    inference.Status
}

func (s *stubModels) Reload(context.Context) error {
	s.reloads++
	if s.reloadErr != nil {
		s.status = inference.Status{Backend: "ollama", LastError: s.reloadErr.Error()}
		return s.reloadErr
	}
	s.status = inference.Status{Backend: "ollama", Loaded: true}
	return nil
}

func (s *stubModels) Status() inference.Status { return s.status }

func serve(m Models, method, path string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	Register(mux, m)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestReloadHandler(t *testing.T) {
	m := &stubModels{}
	rec := serve(m, http.MethodPost, "/admin/model/reload")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, m.reloads)
	assert.JSONEq(t, `{"backend":"ollama","loaded":true}`, rec.Body.String())
}

func TestReloadHandler_Failure(t *testing.T) {
	m := &stubModels{reloadErr: errors.New("connection refused")}
	rec := serve(m, http.MethodPost, "/admin/model/reload")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"backend":"ollama","loaded":false,"last_error":"connection refused"}`, rec.Body.String())
}

func TestModelStatusHandler(t *testing.T) {
	m := &stubModels{status: inference.Status{Backend: "echo", Loaded: true}}
	rec := serve(m, http.MethodGet, "/admin/model")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"backend":"echo","loaded":true}`, rec.Body.String())
	assert.Zero(t, m.reloads)
}
