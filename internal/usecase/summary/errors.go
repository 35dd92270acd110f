// Package summary is the entry point of summarization: it validates a
// request, runs the recursive controller with the loaded model, persists
// successful results and turns every outcome into a user-facing message.
// It also serves summary queries.
package summary

import "errors"

var (
	// ErrSummaryNotFound indicates that the requested summary does not exist.
	ErrSummaryNotFound = errors.New("summary not found")

	// ErrForbidden indicates that a user tried to modify another user's summary.
	ErrForbidden = errors.New("summary belongs to another user")
)

// User-facing outcome messages.
const (
	MsgSuccess  = "Summary generated successfully."
	MsgTooShort = "Input too short to generate a meaningful summary. Please provide more content."

	msgOperation = "Operation failed: "
	msgError     = "Error during summarization: "
)
