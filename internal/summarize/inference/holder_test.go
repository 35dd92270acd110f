package inference

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/resilience/retry"
)

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
}

func TestHolder_GetBeforeLoad(t *testing.T) {
	h := NewHolder("test", func(context.Context) (Model, error) { return newFakeModel("x"), nil })

	_, err := h.Get()
	assert.ErrorIs(t, err, ErrModelNotLoaded)
	assert.False(t, h.Status().Loaded)
}

func TestHolder_LoadOnce(t *testing.T) {
	calls := 0
	m := newFakeModel("x")
	h := NewHolder("test", func(context.Context) (Model, error) {
		calls++
		return m, nil
	})

	require.NoError(t, h.Load(context.Background()))
	require.NoError(t, h.Load(context.Background()))
	assert.Equal(t, 1, calls)

	got, err := h.Get()
	require.NoError(t, err)
	assert.Same(t, m, got)

	s := h.Status()
	assert.True(t, s.Loaded)
	assert.Equal(t, "test", s.Backend)
	assert.False(t, s.LoadedAt.IsZero())
}

func TestHolder_LoadRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	h := NewHolder("test", func(context.Context) (Model, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		return newFakeModel("x"), nil
	}, WithRetry(fastRetry()))

	require.NoError(t, h.Load(context.Background()))
	assert.Equal(t, 3, attempts)
}

func TestHolder_LoadFailure(t *testing.T) {
	boom := errors.New("weights missing")
	h := NewHolder("test", func(context.Context) (Model, error) { return nil, boom }, WithRetry(fastRetry()))

	err := h.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelNotLoaded)
	assert.ErrorIs(t, err, boom)

	_, err = h.Get()
	assert.ErrorIs(t, err, ErrModelNotLoaded)
	assert.Contains(t, h.Status().LastError, "weights missing")
}

func TestHolder_PermanentErrorNotRetried(t *testing.T) {
	attempts := 0
	h := NewHolder("test", func(context.Context) (Model, error) {
		attempts++
		return nil, retry.Permanent(errors.New("unknown provider"))
	}, WithRetry(fastRetry()))

	require.Error(t, h.Load(context.Background()))
	assert.Equal(t, 1, attempts)
}

func TestHolder_ReloadSwapsAndClosesOld(t *testing.T) {
	first, second := newFakeModel("1"), newFakeModel("2")
	models := []*fakeModel{first, second}
	h := NewHolder("test", func(context.Context) (Model, error) {
		m := models[0]
		models = models[1:]
		return m, nil
	})

	require.NoError(t, h.Load(context.Background()))
	require.NoError(t, h.Reload(context.Background()))

	got, err := h.Get()
	require.NoError(t, err)
	assert.Same(t, second, got)
	assert.True(t, first.closed)
}

func TestHolder_ReloadFailureKeepsCurrentModel(t *testing.T) {
	m := newFakeModel("1")
	fail := false
	h := NewHolder("test", func(context.Context) (Model, error) {
		if fail {
			return nil, errors.New("server down")
		}
		return m, nil
	}, WithRetry(fastRetry()))

	require.NoError(t, h.Load(context.Background()))
	fail = true
	require.ErrorIs(t, h.Reload(context.Background()), ErrModelNotLoaded)

	got, err := h.Get()
	require.NoError(t, err)
	assert.Same(t, m, got)
	assert.False(t, m.closed)
}

func TestHolder_Close(t *testing.T) {
	m := newFakeModel("1")
	h := NewHolder("test", func(context.Context) (Model, error) { return m, nil })
	require.NoError(t, h.Load(context.Background()))

	require.NoError(t, h.Close())
	assert.True(t, m.closed)
	_, err := h.Get()
	assert.ErrorIs(t, err, ErrModelNotLoaded)
	require.NoError(t, h.Close())
}

func TestHolder_ConcurrentGet(t *testing.T) {
	h := NewHolder("test", func(context.Context) (Model, error) { return newFakeModel("1"), nil })
	require.NoError(t, h.Load(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Get()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
