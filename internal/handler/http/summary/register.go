package summary

import (
	"context"
	"net/http"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/common/pagination"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	sumUC "github.com/FerdinandUkwayi/cals-legal-summarization/internal/usecase/summary"
)

// Service is the summary use case consumed by the handlers.
// *sumUC.Service satisfies it.
type Service interface {
	Summarize(ctx context.Context, in sumUC.SummarizeInput) (sumUC.Outcome, error)
	List(ctx context.Context) ([]*entity.Summary, error)
	ListByUser(ctx context.Context, userID int64) ([]*entity.Summary, error)
	Get(ctx context.Context, id int64) (*entity.Summary, error)
	Delete(ctx context.Context, id, userID int64) error
}

// Register mounts the summary routes. limit wraps the two routes that run the
// model; pass nil to leave them unthrottled.
func Register(mux *http.ServeMux, svc Service, maxUpload int64, page pagination.Config, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(h http.Handler) http.Handler { return h }
	}
	mux.Handle("POST /summaries", limit(CreateHandler{Svc: svc}))
	mux.Handle("POST /summaries/upload", limit(UploadHandler{Svc: svc, MaxBytes: maxUpload}))
	mux.Handle("GET /summaries", ListHandler{Svc: svc, Page: page})
	mux.Handle("GET /me/summaries", MineHandler{Svc: svc, Page: page})
	mux.Handle("GET /summaries/{id}", GetHandler{Svc: svc})
	mux.Handle("DELETE /summaries/{id}", DeleteHandler{Svc: svc})
}
