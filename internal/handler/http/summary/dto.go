// Package summary provides HTTP handlers for summarization and summary
// history endpoints.
package summary

import (
	"time"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/rouge"
	sumUC "github.com/FerdinandUkwayi/cals-legal-summarization/internal/usecase/summary"
)

// DTO represents a stored summary.
type DTO struct {
	ID        int64          `json:"id" example:"1"`
	UserID    int64          `json:"user_id" example:"7"`
	Username  string         `json:"username" example:"jdoe"`
	Filename  string         `json:"filename" example:"opinion.txt"`
	Method    string         `json:"method" example:"recursive"`
	Summary   string         `json:"summary" example:"The court held that..."`
	Length    int            `json:"length" example:"182"`
	Context   entity.Context `json:"context"`
	CreatedAt time.Time      `json:"created_at" example:"2026-03-01T10:00:00Z"`
}

// DetailDTO adds the stored excerpt of the source document.
type DetailDTO struct {
	DTO
	FullText string `json:"full_text"`
}

func toDTO(s *entity.Summary) DTO {
	return DTO{
		ID:        s.ID,
		UserID:    s.UserID,
		Username:  s.Username,
		Filename:  s.Filename,
		Method:    s.Method,
		Summary:   s.Text,
		Length:    s.Length,
		Context:   s.Context,
		CreatedAt: s.CreatedAt,
	}
}

func toDTOs(in []*entity.Summary) []DTO {
	out := make([]DTO, 0, len(in))
	for _, s := range in {
		out = append(out, toDTO(s))
	}
	return out
}

// SummarizeRequest is the JSON body of POST /summaries.
type SummarizeRequest struct {
	Text         string `json:"text"`
	Filename     string `json:"filename,omitempty" example:"opinion.txt"`
	TargetLength int    `json:"target_length,omitempty" example:"150"`
	DocType      string `json:"doc_type,omitempty" example:"judicial_opinion"`
	Jurisdiction string `json:"jurisdiction,omitempty" example:"us"`
	Goal         string `json:"goal,omitempty" example:"general_briefing"`
	Reference    string `json:"reference,omitempty"`
}

// SummarizeResponse describes every summarization outcome.
type SummarizeResponse struct {
	Kind        string        `json:"kind" example:"success"`
	Message     string        `json:"message"`
	Summary     string        `json:"summary,omitempty"`
	ID          int64         `json:"id,omitempty"`
	Warning     string        `json:"warning,omitempty"`
	Scores      *rouge.Scores `json:"rouge,omitempty"`
	Passes      int           `json:"passes"`
	Generations int           `json:"generations"`
	ElapsedMS   int64         `json:"elapsed_ms"`
}

func toResponse(out sumUC.Outcome) SummarizeResponse {
	resp := SummarizeResponse{
		Kind:        string(out.Kind),
		Message:     out.Message,
		Summary:     out.Summary,
		Scores:      out.Scores,
		Passes:      out.Passes,
		Generations: out.Generations,
		ElapsedMS:   out.Elapsed.Milliseconds(),
	}
	if out.Saved != nil {
		resp.ID = out.Saved.ID
	}
	if out.PersistErr != nil {
		resp.Warning = "summary could not be saved"
	}
	return resp
}
