package embedding

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedService returns the scripted errors in order, then result.
type scriptedService struct {
	errs   []error
	result []float64
	calls  int
	texts  []string
}

func (s *scriptedService) Embed(_ context.Context, text string) ([]float64, error) {
	s.calls++
	s.texts = append(s.texts, text)
	if s.calls <= len(s.errs) {
		return nil, s.errs[s.calls-1]
	}
	return s.result, nil
}

// recordingTimer fires immediately and remembers every requested wait.
type recordingTimer struct {
	waits []time.Duration
	c     chan time.Time
}

func newRecordingTimer() *recordingTimer {
	return &recordingTimer{c: make(chan time.Time, 1)}
}

func (t *recordingTimer) Start(d time.Duration) {
	t.waits = append(t.waits, d)
	t.c <- time.Now()
}

func (t *recordingTimer) Stop() {}

func (t *recordingTimer) C() <-chan time.Time { return t.c }

func newTestEmbedder(service Service, maxAttempts int) (*Embedder, *recordingTimer) {
	timer := newRecordingTimer()
	e := NewEmbedder(service, maxAttempts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.timer = timer
	return e, timer
}

func unitVector(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 0.5
	}
	return v
}

func TestEmbedder_RateLimitThenSuccess(t *testing.T) {
	svc := &scriptedService{
		errs:   []error{ErrRateLimited, ErrRateLimited},
		result: unitVector(VectorDimension),
	}
	e, timer := newTestEmbedder(svc, 3)

	vec, err := e.Embed(context.Background(), "2 BHK")
	require.NoError(t, err)

	assert.Equal(t, 3, svc.calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, timer.waits)
	assert.Len(t, vec, VectorDimension)
}

func TestEmbedder_RateLimitExhausted(t *testing.T) {
	svc := &scriptedService{
		errs: []error{ErrRateLimited, ErrRateLimited, ErrRateLimited, ErrRateLimited},
	}
	e, timer := newTestEmbedder(svc, 3)

	_, err := e.Embed(context.Background(), "2 BHK")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)

	assert.Equal(t, 3, svc.calls, "should attempt exactly maxAttempts times")
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, timer.waits, "no sleep after the final attempt")
}

func TestEmbedder_OtherErrorsUseFlatDelay(t *testing.T) {
	boom := errors.New("connection reset")
	svc := &scriptedService{errs: []error{boom, boom, boom}}
	e, timer := newTestEmbedder(svc, 3)

	_, err := e.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, 3, svc.calls)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, timer.waits)
}

func TestEmbedder_MixedFailures(t *testing.T) {
	svc := &scriptedService{
		errs:   []error{errors.New("timeout"), ErrRateLimited},
		result: unitVector(4),
	}
	e, timer := newTestEmbedder(svc, 3)

	_, err := e.Embed(context.Background(), "text")
	require.NoError(t, err)

	// Rate-limit delay doubles with the attempt number, whatever came before.
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, timer.waits)
}

func TestEmbedder_DefaultMaxAttempts(t *testing.T) {
	svc := &scriptedService{errs: []error{ErrRateLimited, ErrRateLimited, ErrRateLimited, ErrRateLimited}}
	e, _ := newTestEmbedder(svc, 0)

	_, err := e.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, DefaultMaxAttempts, svc.calls)
}

func TestEmbedder_SingleAttempt(t *testing.T) {
	svc := &scriptedService{errs: []error{ErrRateLimited}}
	e, timer := newTestEmbedder(svc, 1)

	_, err := e.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, 1, svc.calls)
	assert.Empty(t, timer.waits)
}

func TestEmbedder_FitsDimension(t *testing.T) {
	t.Run("truncates", func(t *testing.T) {
		long := make([]float64, RequestedDimension)
		for i := range long {
			long[i] = float64(i)
		}
		e, _ := newTestEmbedder(&scriptedService{result: long}, 3)

		vec, err := e.Embed(context.Background(), "text")
		require.NoError(t, err)
		require.Len(t, vec, VectorDimension)
		assert.Equal(t, long[:VectorDimension], vec)
	})

	t.Run("pads with zeros", func(t *testing.T) {
		e, _ := newTestEmbedder(&scriptedService{result: []float64{1, 2, 3}}, 3)

		vec, err := e.Embed(context.Background(), "text")
		require.NoError(t, err)
		require.Len(t, vec, VectorDimension)
		assert.Equal(t, []float64{1, 2, 3, 0, 0}, vec[:5])
		assert.Equal(t, 0.0, vec[VectorDimension-1])
	})
}

func TestEmbedder_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := &cancelingService{cancel: cancel}
	e, _ := newTestEmbedder(svc, 5)

	_, err := e.Embed(ctx, "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, svc.calls, "should stop when context is canceled")
}

type cancelingService struct {
	cancel func()
	calls  int
}

func (s *cancelingService) Embed(context.Context, string) ([]float64, error) {
	s.calls++
	s.cancel()
	return nil, errors.New("interrupted")
}
