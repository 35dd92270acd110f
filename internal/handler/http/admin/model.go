// Package admin provides operator endpoints. Authz restricts /admin/* to the
// admin role.
package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/respond"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/logging"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize/inference"
)

// Models reloads and reports the inference model. *inference.Holder satisfies it.
type Models interface {
	Reload(ctx context.Context) error
	Status() inference.Status
}

// Register mounts the admin routes.
func Register(mux *http.ServeMux, models Models) {
	mux.Handle("GET /admin/model", ModelStatusHandler{Models: models})
	mux.Handle("POST /admin/model/reload", ReloadHandler{Models: models})
}

// ModelStatusHandler reports the model state.
type ModelStatusHandler struct{ Models Models }

// ServeHTTP returns the model status.
// @Summary      Model status
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} inference.Status
// @Router       /admin/model [get]
func (h ModelStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.Models.Status())
}

// ReloadHandler closes the current model and loads it again.
type ReloadHandler struct{ Models Models }

// ServeHTTP reloads the model. Summarize requests fail with 503 while the
// reload is in progress.
// @Summary      Reload model
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} inference.Status
// @Failure      503 {object} inference.Status "reload failed"
// @Router       /admin/model/reload [post]
func (h ReloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	if err := h.Models.Reload(r.Context()); err != nil {
		logger.ErrorContext(r.Context(), "model reload failed", slog.String("error", respond.SanitizeError(err)))
		respond.JSON(w, http.StatusServiceUnavailable, h.Models.Status())
		return
	}
	status := h.Models.Status()
	logger.InfoContext(r.Context(), "model reloaded", slog.String("backend", status.Backend))
	respond.JSON(w, http.StatusOK, status)
}
