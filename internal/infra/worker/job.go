package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/respond"
)

// Job is a unit of scheduled maintenance. Run returns the number of items it
// processed.
type Job struct {
	Name    string
	Run     func(ctx context.Context) (int64, error)
	Timeout time.Duration
}

// Runner executes jobs with a deadline, logging and metrics.
type Runner struct {
	Logger  *slog.Logger
	Metrics *Metrics
}

// Execute runs job once. Errors are logged and counted, then returned.
func (r *Runner) Execute(ctx context.Context, job Job) error {
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	r.Logger.Info("job started", slog.String("job", job.Name))

	n, err := job.Run(ctx)
	elapsed := time.Since(start)
	r.Metrics.RecordJobDuration(job.Name, elapsed.Seconds())
	if err != nil {
		r.Metrics.RecordJobRun(job.Name, "failure")
		r.Logger.Error("job failed",
			slog.String("job", job.Name),
			slog.String("error", respond.SanitizeError(err)),
			slog.Duration("duration", elapsed))
		return fmt.Errorf("job %s: %w", job.Name, err)
	}

	r.Metrics.RecordJobRun(job.Name, "success")
	r.Metrics.RecordItems(job.Name, n)
	r.Metrics.RecordLastSuccess(job.Name)
	r.Logger.Info("job completed",
		slog.String("job", job.Name),
		slog.Int64("items", n),
		slog.Duration("duration", elapsed))
	return nil
}

// Schedule registers every job on a new cron scheduler in timezone. Each
// run derives its context from ctx. The scheduler is returned unstarted.
func (r *Runner) Schedule(ctx context.Context, schedule, timezone string, jobs ...Job) (*cron.Cron, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	c := cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	for _, job := range jobs {
		if _, err := c.AddFunc(schedule, func() { _ = r.Execute(ctx, job) }); err != nil {
			return nil, fmt.Errorf("add job %s: %w", job.Name, err)
		}
	}
	return c, nil
}
