package summary

import (
	"log/slog"
	"net/http"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/auth"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/pathutil"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/respond"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/logging"
)

// DeleteHandler removes a summary owned by the caller.
type DeleteHandler struct{ Svc Service }

// ServeHTTP deletes a summary.
// @Summary      Delete summary
// @Tags         summaries
// @Security     BearerAuth
// @Param        id path int true "summary ID"
// @Success      204 "No Content"
// @Failure      400 {string} string "invalid id"
// @Failure      403 {string} string "summary belongs to another user"
// @Failure      404 {string} string "summary not found"
// @Router       /summaries/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errNoPrincipal)
		return
	}
	id, err := pathutil.ParseID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.Delete(r.Context(), id, p.UserID); err != nil {
		respond.SafeError(w, statusForLookup(err), err)
		return
	}
	logging.FromContext(r.Context()).InfoContext(r.Context(), "summary deleted", slog.Int64("summary_id", id))
	w.WriteHeader(http.StatusNoContent)
}
