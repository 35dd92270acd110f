package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputValidation(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{"normal request", "/summaries", "Bearer abc.def.ghi", http.StatusOK, "ok"},
		{"no authorization header", "/summaries", "", http.StatusOK, "ok"},
		{"authorization at limit", "/summaries", strings.Repeat("a", MaxAuthorizationHeader), http.StatusOK, "ok"},
		{"authorization too large", "/summaries", strings.Repeat("a", MaxAuthorizationHeader+1), http.StatusBadRequest,
			`{"error":"authorization header too long"}`},
		{"path at limit", "/" + strings.Repeat("a", MaxPathLength-1), "", http.StatusOK, "ok"},
		{"path too long", "/" + strings.Repeat("a", MaxPathLength), "", http.StatusRequestURITooLong,
			`{"error":"URI too long"}`},
		{"both too large reports header first", "/" + strings.Repeat("a", MaxPathLength),
			strings.Repeat("a", MaxAuthorizationHeader+1), http.StatusBadRequest,
			`{"error":"authorization header too long"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := InputValidation()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("ok"))
			}))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			} else {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
