package inference

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/resilience/retry"
)

// statusError keeps the HTTP status of an SDK error reachable through
// retry.StatusCoder.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string   { return e.err.Error() }
func (e *statusError) Unwrap() error   { return e.err }
func (e *statusError) HTTPStatus() int { return e.status }

// classify attaches the backend's HTTP status to err, when it has one.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if code := sdkStatus(err); code != 0 {
		return &statusError{status: code, err: err}
	}
	return err
}

func sdkStatus(err error) int {
	var oaiAPI *openai.APIError
	if errors.As(err, &oaiAPI) {
		return oaiAPI.HTTPStatusCode
	}
	var oaiReq *openai.RequestError
	if errors.As(err, &oaiReq) {
		return oaiReq.HTTPStatusCode
	}
	var claudeErr *anthropic.Error
	if errors.As(err, &claudeErr) {
		return claudeErr.StatusCode
	}
	var ollamaErr api.StatusError
	if errors.As(err, &ollamaErr) {
		return ollamaErr.StatusCode
	}
	return 0
}

// statusOf returns the HTTP status carried by err, or 0.
func statusOf(err error) int {
	var sc retry.StatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus()
	}
	return 0
}

// rejectedByBackend reports a 4xx answer about the request itself. Such
// errors do not count against the backend's health.
func rejectedByBackend(err error) bool {
	code := statusOf(err)
	return code >= http.StatusBadRequest && code < http.StatusInternalServerError &&
		!retry.TransientStatus(code) &&
		code != http.StatusUnauthorized && code != http.StatusForbidden && code != http.StatusNotFound
}

// loadRetryable decides whether a failed load is tried again. A model server
// that is still starting answers with arbitrary errors, so everything but
// cancellation and a definitive 4xx (bad key, unknown model) is retried.
func loadRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if code := statusOf(err); code != 0 {
		return retry.TransientStatus(code)
	}
	return true
}
