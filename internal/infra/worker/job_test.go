package worker

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner() *Runner {
	return &Runner{Logger: slog.New(slog.DiscardHandler), Metrics: NewMetrics(prometheus.NewRegistry())}
}

func TestRunner_Execute_Success(t *testing.T) {
	r := newRunner()
	job := Job{Name: "purge", Run: func(context.Context) (int64, error) { return 3, nil }}

	require.NoError(t, r.Execute(context.Background(), job))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics.JobRunsTotal.WithLabelValues("purge", "success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.Metrics.JobItemsTotal.WithLabelValues("purge")))
	assert.Greater(t, testutil.ToFloat64(r.Metrics.JobLastSuccessTimestamp.WithLabelValues("purge")), 0.0)
}

func TestRunner_Execute_Failure(t *testing.T) {
	r := newRunner()
	boom := errors.New("db locked")
	job := Job{Name: "purge", Run: func(context.Context) (int64, error) { return 0, boom }}

	err := r.Execute(context.Background(), job)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics.JobRunsTotal.WithLabelValues("purge", "failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.Metrics.JobRunsTotal.WithLabelValues("purge", "success")))
}

func TestRunner_Execute_Timeout(t *testing.T) {
	r := newRunner()
	job := Job{
		Name:    "slow",
		Timeout: 10 * time.Millisecond,
		Run: func(ctx context.Context) (int64, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		},
	}

	err := r.Execute(context.Background(), job)

	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunner_Schedule(t *testing.T) {
	r := newRunner()
	job := Job{Name: "purge", Run: func(context.Context) (int64, error) { return 0, nil }}

	c, err := r.Schedule(context.Background(), "@hourly", "UTC", job)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = r.Schedule(context.Background(), "@hourly", "Mars/Olympus", job)
	assert.ErrorContains(t, err, "load timezone")

	_, err = r.Schedule(context.Background(), "not a schedule", "UTC", job)
	assert.ErrorContains(t, err, "add job purge")
}
