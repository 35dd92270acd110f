package summarize

import (
	"errors"
	"time"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
)

// Kind classifies the outcome of a summarization request.
type Kind string

const (
	KindSuccess       Kind = "success"
	KindTimeout       Kind = "timeout"
	KindDepthExceeded Kind = "depth_exceeded"
	KindFailure       Kind = "failure"
	// KindTooShort is produced by the entry point before the controller runs.
	KindTooShort Kind = "too_short"
)

var (
	// ErrTimeout is carried by KindTimeout results.
	ErrTimeout = errors.New("processing time limit exceeded")
	// ErrDepthExceeded is carried by KindDepthExceeded results.
	ErrDepthExceeded = errors.New("maximum recursion depth reached")
)

// Request is one summarization job. MaxDepth and MaxProcessingTime may only
// tighten the controller's configured limits; zero means the configured value.
type Request struct {
	Text              string
	Context           entity.Context
	TargetLength      int
	MaxDepth          int
	MaxProcessingTime time.Duration
}

// Result is the outcome of Controller.Run. Text is set only for
// KindSuccess; Err is set for every other kind.
type Result struct {
	Kind        Kind
	Text        string
	Err         error
	Passes      int
	Generations int
	Elapsed     time.Duration
}

// OK reports whether the result carries a summary.
func (r Result) OK() bool {
	return r.Kind == KindSuccess
}
