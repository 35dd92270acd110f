package summary

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/auth"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/respond"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/logging"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize/inference"
	sumUC "github.com/FerdinandUkwayi/cals-legal-summarization/internal/usecase/summary"
)

// msgFailure replaces the detailed failure message in responses; the detail
// is logged.
const msgFailure = "Error during summarization. Please try again later."

var (
	errInvalidBody  = errors.New("invalid request body")
	errTextRequired = errors.New("text is required")
	errNoPrincipal  = errors.New("unauthorized")
)

// CreateHandler summarizes text posted as JSON.
type CreateHandler struct{ Svc Service }

// ServeHTTP summarizes a document.
// @Summary      Summarize text
// @Description  Runs recursive summarization on the posted text and stores the result
// @Tags         summaries
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body SummarizeRequest true "document"
// @Success      200 {object} SummarizeResponse
// @Failure      400 {string} string "validation error"
// @Failure      401 {string} string "authentication required"
// @Failure      422 {object} SummarizeResponse "input too short or depth exceeded"
// @Failure      429 {string} string "too many requests"
// @Failure      503 {object} SummarizeResponse "model not loaded"
// @Failure      504 {object} SummarizeResponse "processing time limit exceeded"
// @Router       /summaries [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errNoPrincipal)
		return
	}

	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(w, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
			return
		}
		respond.SafeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	if req.Text == "" {
		respond.SafeError(w, http.StatusBadRequest, errTextRequired)
		return
	}

	in, err := buildInput(p, req)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	summarizeAndRespond(w, r, h.Svc, in)
}

func buildInput(p auth.Principal, req SummarizeRequest) (sumUC.SummarizeInput, error) {
	c, err := entity.ParseContext(req.DocType, req.Jurisdiction, req.Goal)
	if err != nil {
		return sumUC.SummarizeInput{}, err
	}
	filename := req.Filename
	if filename == "" {
		filename = "pasted-text"
	}
	return sumUC.SummarizeInput{
		UserID:       p.UserID,
		Username:     p.Username,
		Filename:     filename,
		Text:         req.Text,
		TargetLength: req.TargetLength,
		Context:      c,
		Reference:    req.Reference,
	}, nil
}

func summarizeAndRespond(w http.ResponseWriter, r *http.Request, svc Service, in sumUC.SummarizeInput) {
	out, err := svc.Summarize(r.Context(), in)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, entity.ErrValidationFailed) {
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}

	code := statusFor(out)
	resp := toResponse(out)
	if code == http.StatusInternalServerError {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "summarize request failed",
			slog.String("message", out.Message),
			slog.String("error", respond.SanitizeError(out.Err)))
		resp.Message = msgFailure
	}
	respond.JSON(w, code, resp)
}

// statusFor maps an outcome kind to the response status.
func statusFor(out sumUC.Outcome) int {
	switch out.Kind {
	case summarize.KindSuccess:
		return http.StatusOK
	case summarize.KindTooShort, summarize.KindDepthExceeded:
		return http.StatusUnprocessableEntity
	case summarize.KindTimeout:
		return http.StatusGatewayTimeout
	}
	if errors.Is(out.Err, inference.ErrModelNotLoaded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
