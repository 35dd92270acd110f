package summary

import (
	"net/http"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/common/pagination"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/auth"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/respond"
)

// ListHandler lists summaries. Admins see every summary, other users their own.
type ListHandler struct {
	Svc  Service
	Page pagination.Config
}

// ServeHTTP lists summaries.
// @Summary      List summaries
// @Tags         summaries
// @Security     BearerAuth
// @Produce      json
// @Param        page   query int false "Page number (1-based)"
// @Param        limit  query int false "Items per page"
// @Success      200 {object} pagination.Response[DTO]
// @Failure      400 {string} string "invalid query parameter"
// @Failure      401 {string} string "authentication required"
// @Router       /summaries [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errNoPrincipal)
		return
	}
	if !p.IsAdmin() {
		MineHandler(h).ServeHTTP(w, r)
		return
	}
	params, err := pagination.ParseQueryParams(r, h.Page)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}
	list, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	writePage(w, list, params)
}

// MineHandler lists the caller's own summaries, newest first.
type MineHandler struct {
	Svc  Service
	Page pagination.Config
}

// ServeHTTP lists the caller's summaries.
// @Summary      My summaries
// @Tags         summaries
// @Security     BearerAuth
// @Produce      json
// @Param        page   query int false "Page number (1-based)"
// @Param        limit  query int false "Items per page"
// @Success      200 {object} pagination.Response[DTO]
// @Router       /me/summaries [get]
func (h MineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errNoPrincipal)
		return
	}
	params, err := pagination.ParseQueryParams(r, h.Page)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}
	list, err := h.Svc.ListByUser(r.Context(), p.UserID)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	writePage(w, list, params)
}

func writePage(w http.ResponseWriter, list []*entity.Summary, params pagination.Params) {
	respond.JSON(w, http.StatusOK, pagination.Paginate(toDTOs(list), params))
}
