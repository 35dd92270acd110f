// Package evaluation provides HTTP handlers for expert ratings of summaries.
package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/auth"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/pathutil"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/respond"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/logging"
	evalUC "github.com/FerdinandUkwayi/cals-legal-summarization/internal/usecase/evaluation"
)

// Service is the evaluation use case consumed by the handlers.
// *evalUC.Service satisfies it.
type Service interface {
	Submit(ctx context.Context, in evalUC.RatingInput) (*entity.EvaluationRating, error)
	ListBySummary(ctx context.Context, summaryID int64) ([]*entity.EvaluationRating, error)
	Averages(ctx context.Context, summaryID int64) (entity.RatingAverages, error)
}

var (
	errInvalidBody = errors.New("invalid request body")
	errNoPrincipal = errors.New("unauthorized")
)

// Register mounts the evaluation routes.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("POST /summaries/{id}/evaluations", SubmitHandler{Svc: svc})
	mux.Handle("GET /summaries/{id}/evaluations", ListHandler{Svc: svc})
	mux.Handle("GET /summaries/{id}/evaluations/averages", AveragesHandler{Svc: svc})
}

type ratingRequest struct {
	TargetGoal string `json:"target_goal,omitempty" example:"identify_risks"`
	Accuracy   int    `json:"rating_accuracy" example:"4"`
	Relevance  int    `json:"rating_relevance" example:"5"`
	Coherence  int    `json:"rating_coherence" example:"4"`
	Utility    int    `json:"rating_utility" example:"3"`
	Comments   string `json:"comments,omitempty"`
}

// DTO represents a stored rating.
type DTO struct {
	ID         int64     `json:"id"`
	SummaryID  int64     `json:"summary_id"`
	Evaluator  string    `json:"evaluator_user"`
	TargetGoal string    `json:"target_goal"`
	Accuracy   int       `json:"rating_accuracy"`
	Relevance  int       `json:"rating_relevance"`
	Coherence  int       `json:"rating_coherence"`
	Utility    int       `json:"rating_utility"`
	Comments   string    `json:"comments,omitempty"`
	RatedAt    time.Time `json:"rated_at"`
}

// AveragesDTO holds the mean score per criterion.
type AveragesDTO struct {
	SummaryID int64   `json:"summary_id"`
	Count     int     `json:"count"`
	Accuracy  float64 `json:"rating_accuracy"`
	Relevance float64 `json:"rating_relevance"`
	Coherence float64 `json:"rating_coherence"`
	Utility   float64 `json:"rating_utility"`
}

func toDTO(r *entity.EvaluationRating) DTO {
	return DTO{
		ID:         r.ID,
		SummaryID:  r.SummaryID,
		Evaluator:  r.EvaluatorUser,
		TargetGoal: string(r.TargetGoal),
		Accuracy:   r.Accuracy,
		Relevance:  r.Relevance,
		Coherence:  r.Coherence,
		Utility:    r.Utility,
		Comments:   r.Comments,
		RatedAt:    r.RatedAt,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, evalUC.ErrSummaryNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// SubmitHandler records the caller's rating of a summary.
type SubmitHandler struct{ Svc Service }

// ServeHTTP stores a rating.
// @Summary      Rate a summary
// @Tags         evaluations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path int           true "summary ID"
// @Param        request body ratingRequest true "ratings from 1 to 5"
// @Success      201 {object} DTO
// @Failure      400 {string} string "validation error"
// @Failure      404 {string} string "summary not found"
// @Router       /summaries/{id}/evaluations [post]
func (h SubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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
	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}

	rating, err := h.Svc.Submit(r.Context(), evalUC.RatingInput{
		SummaryID:  id,
		Evaluator:  p.Username,
		TargetGoal: entity.Goal(req.TargetGoal),
		Accuracy:   req.Accuracy,
		Relevance:  req.Relevance,
		Coherence:  req.Coherence,
		Utility:    req.Utility,
		Comments:   req.Comments,
	})
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	logging.FromContext(r.Context()).InfoContext(r.Context(), "evaluation recorded",
		slog.Int64("summary_id", id),
		slog.String("goal", string(rating.TargetGoal)))
	respond.JSON(w, http.StatusCreated, toDTO(rating))
}

// ListHandler lists the ratings of a summary.
type ListHandler struct{ Svc Service }

// ServeHTTP lists ratings.
// @Summary      List ratings
// @Tags         evaluations
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "summary ID"
// @Success      200 {array} DTO
// @Router       /summaries/{id}/evaluations [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	ratings, err := h.Svc.ListBySummary(r.Context(), id)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	out := make([]DTO, 0, len(ratings))
	for _, rt := range ratings {
		out = append(out, toDTO(rt))
	}
	respond.JSON(w, http.StatusOK, out)
}

// AveragesHandler reports the mean rating per criterion.
type AveragesHandler struct{ Svc Service }

// ServeHTTP returns rating averages. A summary without ratings reports zeros.
// @Summary      Rating averages
// @Tags         evaluations
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "summary ID"
// @Success      200 {object} AveragesDTO
// @Router       /summaries/{id}/evaluations/averages [get]
func (h AveragesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	avg, err := h.Svc.Averages(r.Context(), id)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.JSON(w, http.StatusOK, AveragesDTO{
		SummaryID: id,
		Count:     avg.Count,
		Accuracy:  avg.Accuracy,
		Relevance: avg.Relevance,
		Coherence: avg.Coherence,
		Utility:   avg.Utility,
	})
}
