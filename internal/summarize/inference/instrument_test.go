package inference

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type observation struct {
	backend string
	in, out int
	err     error
}

type fakeRecorder struct{ obs []observation }

func (f *fakeRecorder) ObserveGeneration(backend string, _ time.Duration, in, out int, err error) {
	f.obs = append(f.obs, observation{backend, in, out, err})
}

func withSpanRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return exp
}

func TestInstrument_Success(t *testing.T) {
	spans := withSpanRecorder(t)
	rec := &fakeRecorder{}
	g := Instrument(NewAdapter(newFakeModel("short summary"), DefaultAdapterConfig()), "fake", rec)

	out, err := g.Generate(context.Background(), "one two three four five", testPrefix, 70)
	require.NoError(t, err)
	assert.Equal(t, "short summary", out)
	assert.Equal(t, 5, g.CountTokens("one two three four five"))

	require.Len(t, rec.obs, 1)
	assert.Equal(t, observation{"fake", 5, 2, nil}, rec.obs[0])

	got := spans.GetSpans()
	require.Len(t, got, 1)
	assert.Equal(t, "inference.generate", got[0].Name)
	assert.Equal(t, codes.Unset, got[0].Status.Code)
}

func TestInstrument_Failure(t *testing.T) {
	spans := withSpanRecorder(t)
	rec := &fakeRecorder{}
	boom := errors.New("oom")
	m := newFakeModel("")
	m.err = boom
	g := Instrument(NewAdapter(m, DefaultAdapterConfig()), "fake", rec)

	_, err := g.Generate(context.Background(), "text", testPrefix, 70)
	require.ErrorIs(t, err, boom)

	require.Len(t, rec.obs, 1)
	assert.ErrorIs(t, rec.obs[0].err, boom)
	assert.Zero(t, rec.obs[0].out)

	got := spans.GetSpans()
	require.Len(t, got, 1)
	assert.Equal(t, codes.Error, got[0].Status.Code)
}

func TestInstrument_NilRecorder(t *testing.T) {
	g := Instrument(NewAdapter(newFakeModel("ok"), DefaultAdapterConfig()), "fake", nil)
	_, err := g.Generate(context.Background(), "text", "", 10)
	assert.NoError(t, err)
}

func TestPrometheusRecorder(t *testing.T) {
	r := NewPrometheusRecorder()
	assert.Same(t, r, NewPrometheusRecorder())

	before := testutil.ToFloat64(r.failures.WithLabelValues("prom-test"))
	r.ObserveGeneration("prom-test", 10*time.Millisecond, 100, 20, nil)
	r.ObserveGeneration("prom-test", 10*time.Millisecond, 100, 0, errors.New("x"))

	assert.Equal(t, before+1, testutil.ToFloat64(r.failures.WithLabelValues("prom-test")))
}
