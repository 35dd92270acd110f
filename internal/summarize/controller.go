package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize/inference"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize/segment"
)

// Splitter segments text into sentences.
type Splitter func(text string) ([]string, error)

// Controller runs the recursive map-reduce loop. It holds no per-request
// state and is safe for concurrent use.
type Controller struct {
	cfg   Config
	split Splitter
	now   func() time.Time
}

// Option customises a Controller.
type Option func(*Controller)

// WithClock replaces time.Now for the elapsed-time guard.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithSplitter replaces the Punkt sentence segmenter.
func WithSplitter(s Splitter) Option {
	return func(c *Controller) { c.split = s }
}

// New returns a Controller. cfg must have passed Validate.
func New(cfg Config, opts ...Option) *Controller {
	c := &Controller{cfg: cfg, split: segment.Split, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Config returns the controller's limits.
func (c *Controller) Config() Config {
	return c.cfg
}

// run is the state of one request, threaded unchanged through every level.
type run struct {
	*Controller
	gen         inference.Generator
	prefix      string
	target      int
	start       time.Time
	maxDepth    int
	maxTime     time.Duration
	generations int
}

// Run summarizes req.Text with gen. Chunk calls are issued sequentially in
// document order. The generation context expires with the time budget, so a
// stuck backend call is abandoned rather than awaited.
func (c *Controller) Run(ctx context.Context, gen inference.Generator, req Request) Result {
	r := &run{
		Controller: c,
		gen:        gen,
		prefix:     req.Context.Prefix(),
		target:     req.TargetLength,
		start:      c.now(),
		maxDepth:   tighter(c.cfg.MaxDepth, req.MaxDepth),
		maxTime:    time.Duration(tighter(int64(c.cfg.MaxProcessingTime), int64(req.MaxProcessingTime))),
	}

	var res Result
	if r.target <= 0 {
		res = Result{Kind: KindFailure, Err: fmt.Errorf("target length must be positive, got %d", r.target)}
	} else {
		runCtx, cancel := context.WithTimeout(ctx, r.maxTime)
		res = r.pass(ctx, runCtx, req.Text, 0)
		cancel()
	}
	res.Generations = r.generations
	res.Elapsed = c.now().Sub(r.start)

	slog.InfoContext(ctx, "Summarization finished",
		slog.String("kind", string(res.Kind)),
		slog.Int("passes", res.Passes),
		slog.Int("generations", res.Generations),
		slog.Duration("elapsed", res.Elapsed))
	return res
}

// pass is one recursion level. parent is the caller's context; ctx is the
// same context bounded by the time budget.
func (r *run) pass(parent, ctx context.Context, text string, depth int) Result {
	if err := parent.Err(); err != nil {
		return Result{Kind: KindFailure, Passes: depth, Err: fmt.Errorf("summarization cancelled: %w", err)}
	}
	if elapsed := r.now().Sub(r.start); elapsed > r.maxTime || ctx.Err() != nil {
		return r.timeout(depth)
	}
	if depth >= r.maxDepth {
		return Result{Kind: KindDepthExceeded, Passes: depth,
			Err: fmt.Errorf("%w: no summary fit the input window after %d passes", ErrDepthExceeded, r.maxDepth)}
	}

	tokens := r.gen.CountTokens(text)
	slog.InfoContext(ctx, "Starting summarization pass",
		slog.Int("depth", depth),
		slog.Int("tokens", tokens),
		slog.Int("max_input_tokens", r.gen.MaxInputTokens()))

	if tokens <= r.gen.MaxInputTokens() {
		out, err := r.generate(ctx, text, r.target)
		if err != nil {
			return r.failed(parent, ctx, depth, fmt.Errorf("final pass at depth %d: %w", depth, err))
		}
		return Result{Kind: KindSuccess, Text: out, Passes: depth + 1}
	}

	sentences, err := r.split(text)
	if err != nil {
		return Result{Kind: KindFailure, Passes: depth, Err: fmt.Errorf("segment text: %w", err)}
	}
	chunks := r.cfg.Chunk.Build(sentences)
	if len(chunks) == 0 {
		return Result{Kind: KindFailure, Passes: depth, Err: errors.New("segment text: no sentences found")}
	}
	slog.InfoContext(ctx, "Text exceeds input window, summarizing chunks",
		slog.Int("depth", depth),
		slog.Int("sentences", len(sentences)),
		slog.Int("chunks", len(chunks)))

	parts := make([]string, 0, len(chunks))
	for i, ch := range chunks {
		out, err := r.generate(ctx, ch.Text, r.cfg.ChunkTargetLength)
		if err != nil {
			return r.failed(parent, ctx, depth,
				fmt.Errorf("chunk %d of %d at depth %d: %w", i+1, len(chunks), depth, err))
		}
		parts = append(parts, out)
	}

	return r.pass(parent, ctx, strings.Join(parts, " "), depth+1)
}

func (r *run) generate(ctx context.Context, text string, target int) (string, error) {
	r.generations++
	return r.gen.Generate(ctx, text, r.prefix, target)
}

func (r *run) timeout(depth int) Result {
	return Result{Kind: KindTimeout, Passes: depth,
		Err: fmt.Errorf("%w: exceeded %s at depth %d", ErrTimeout, r.maxTime, depth)}
}

// failed classifies a generation error. A call cut off by the time budget
// is a timeout, not a generation fault.
func (r *run) failed(parent, ctx context.Context, depth int, err error) Result {
	if parent.Err() == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return r.timeout(depth + 1)
	}
	return Result{Kind: KindFailure, Passes: depth + 1, Err: err}
}

// tighter returns limit unless override is positive and smaller.
func tighter[T int | int64](limit, override T) T {
	if override > 0 && override < limit {
		return override
	}
	return limit
}
