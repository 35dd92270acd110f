package summary

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/extract"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/auth"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/respond"
)

// multipartMemory is the part of a multipart form kept in memory; larger
// forms spill to temporary files.
const multipartMemory = 1 << 20

var errFileRequired = errors.New("file is required")

// UploadHandler summarizes an uploaded document.
type UploadHandler struct {
	Svc      Service
	MaxBytes int64
}

// ServeHTTP extracts the text of the uploaded file and summarizes it.
// @Summary      Summarize a file
// @Description  Accepts .txt, .md and .html documents as multipart form field "file"
// @Tags         summaries
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file          formData file   true  "document"
// @Param        target_length formData int    false "target summary length in tokens"
// @Param        doc_type      formData string false "document type"
// @Param        jurisdiction  formData string false "jurisdiction"
// @Param        goal          formData string false "summarization goal"
// @Param        reference     formData string false "reference summary for ROUGE scoring"
// @Success      200 {object} SummarizeResponse
// @Failure      400 {string} string "validation error"
// @Failure      413 {string} string "file too large"
// @Failure      415 {string} string "unsupported file format"
// @Failure      422 {object} SummarizeResponse "input too short or depth exceeded"
// @Router       /summaries/upload [post]
func (h UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errNoPrincipal)
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(w, http.StatusRequestEntityTooLarge, h.tooLarge())
			return
		}
		respond.SafeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, errFileRequired)
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(io.LimitReader(file, h.MaxBytes+1))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	if int64(len(content)) > h.MaxBytes {
		respond.Error(w, http.StatusRequestEntityTooLarge, h.tooLarge())
		return
	}

	text, err := extract.Text(header.Filename, content)
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, extract.ErrUnsupportedFormat) {
			code = http.StatusUnsupportedMediaType
		}
		respond.Error(w, code, err)
		return
	}

	req := SummarizeRequest{
		Text:         text,
		Filename:     header.Filename,
		DocType:      r.FormValue("doc_type"),
		Jurisdiction: r.FormValue("jurisdiction"),
		Goal:         r.FormValue("goal"),
		Reference:    r.FormValue("reference"),
	}
	if v := r.FormValue("target_length"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest, errors.New("target_length must be an integer"))
			return
		}
		req.TargetLength = n
	}

	in, err := buildInput(p, req)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	summarizeAndRespond(w, r, h.Svc, in)
}

func (h UploadHandler) tooLarge() error {
	return fmt.Errorf("file too large (max %d bytes)", h.MaxBytes)
}
