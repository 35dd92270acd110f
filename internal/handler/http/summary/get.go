package summary

import (
	"errors"
	"net/http"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/auth"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/pathutil"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/respond"
	sumUC "github.com/FerdinandUkwayi/cals-legal-summarization/internal/usecase/summary"
)

// GetHandler returns one summary with its source excerpt. Users other than
// the owner see 404 unless they are admins.
type GetHandler struct{ Svc Service }

// ServeHTTP returns a summary.
// @Summary      Get summary
// @Tags         summaries
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "summary ID"
// @Success      200 {object} DetailDTO
// @Failure      400 {string} string "invalid id"
// @Failure      404 {string} string "summary not found"
// @Router       /summaries/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	s, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respond.SafeError(w, statusForLookup(err), err)
		return
	}
	if s.UserID != p.UserID && !p.IsAdmin() {
		respond.SafeError(w, http.StatusNotFound, sumUC.ErrSummaryNotFound)
		return
	}
	respond.JSON(w, http.StatusOK, DetailDTO{DTO: toDTO(s), FullText: s.FullText})
}

func statusForLookup(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, sumUC.ErrSummaryNotFound):
		return http.StatusNotFound
	case errors.Is(err, sumUC.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
