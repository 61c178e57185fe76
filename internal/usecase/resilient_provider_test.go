package usecase

import (
	"aurum-core/internal/domain/entity"
	"aurum-core/internal/pkg/logger"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResilientProvider(primary, fallback *fakeProvider) *ResilientProvider {
	r := NewResilientProvider(primary, nil, logger.Nop(), time.Second)
	if fallback != nil {
		r.fallback = fallback
	}
	r.baseDelay = time.Millisecond
	return r
}

func TestResilientProviderRetriesTransientErrors(t *testing.T) {
	primary := &fakeProvider{
		errs:    []error{errors.New("googleapi: Error 503: overloaded"), errors.New("429 too many requests"), nil},
		replies: []string{"6850"},
	}
	r := newTestResilientProvider(primary, nil)

	resp, err := r.Generate(context.Background(), entity.GenerationRequest{Prompt: "price"})
	require.NoError(t, err)
	assert.Equal(t, "6850", resp.Content)
	assert.Equal(t, 3, primary.Calls())
	assert.Equal(t, 2, resp.Metadata["retry_count"])
}

func TestResilientProviderSwitchesToFallback(t *testing.T) {
	primary := &fakeProvider{errs: []error{errors.New("invalid api key")}}
	fallback := &fakeProvider{replies: []string{"from fallback"}}
	r := newTestResilientProvider(primary, fallback)

	resp, err := r.Generate(context.Background(), entity.GenerationRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "from fallback", resp.Content)
	assert.Equal(t, 1, primary.Calls(), "non-retryable errors are not retried")
	assert.Equal(t, true, resp.Metadata["fallback_used"])
}

func TestResilientProviderWithoutFallback(t *testing.T) {
	boom := errors.New("invalid api key")
	r := newTestResilientProvider(&fakeProvider{errs: []error{boom}}, nil)

	_, err := r.Generate(context.Background(), entity.GenerationRequest{Prompt: "hi"})
	assert.ErrorIs(t, err, boom)
}

func TestResilientProviderBothFail(t *testing.T) {
	primary := &fakeProvider{errs: []error{errors.New("invalid api key")}}
	fallback := &fakeProvider{errs: []error{errors.New("quota exhausted")}}
	r := newTestResilientProvider(primary, fallback)

	_, err := r.Generate(context.Background(), entity.GenerationRequest{Prompt: "hi"})
	assert.ErrorContains(t, err, "both primary and fallback failed")
}

func TestResilientProviderWithoutPrimary(t *testing.T) {
	r := NewResilientProvider(nil, nil, logger.Nop(), time.Second)

	_, err := r.Generate(context.Background(), entity.GenerationRequest{Prompt: "hi"})
	assert.ErrorIs(t, err, entity.ErrModelNotConfigured)
}

func TestResilientProviderStopsRetryingOnCancel(t *testing.T) {
	primary := &fakeProvider{errs: []error{errors.New("503 overloaded")}}
	fallback := &fakeProvider{replies: []string{"unused"}}
	r := newTestResilientProvider(primary, fallback)
	r.baseDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Generate(ctx, entity.GenerationRequest{Prompt: "hi"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, primary.Calls())
	assert.Equal(t, 0, fallback.Calls())
}

// stampedProvider records the fake-clock time of every request it receives.
type stampedProvider struct {
	fakeProvider
	clock *fakeClock
	at    []time.Time
}

func (s *stampedProvider) Generate(ctx context.Context, req entity.GenerationRequest) (*entity.AIResponse, error) {
	s.mu.Lock()
	s.at = append(s.at, s.clock.Now())
	s.mu.Unlock()
	return s.fakeProvider.Generate(ctx, req)
}

func (s *stampedProvider) times() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Time(nil), s.at...)
}

func newPacedQueue(clock *fakeClock, interval time.Duration) *ThrottleQueue {
	q := NewThrottleQueue("test", interval, logger.Nop())
	q.now = clock.Now
	q.sleep = func(ctx context.Context, d time.Duration) error {
		clock.Advance(d)
		return nil
	}
	return q
}

func assertSpaced(t *testing.T, times []time.Time, interval time.Duration) {
	t.Helper()
	for i := 1; i < len(times); i++ {
		assert.GreaterOrEqual(t, times[i].Sub(times[i-1]), interval, "requests %d and %d too close", i-1, i)
	}
}

func TestResilientProviderRetriesRespectQueueSpacing(t *testing.T) {
	const interval = 3 * time.Second
	clock := newFakeClock()
	q := newPacedQueue(clock, interval)

	primary := &stampedProvider{
		fakeProvider: fakeProvider{
			errs:    []error{errors.New("429 too many requests"), errors.New("429 too many requests"), nil},
			replies: []string{"6850"},
		},
		clock: clock,
	}
	r := NewResilientProvider(primary, nil, logger.Nop(), time.Second)
	r.baseDelay = time.Millisecond

	resp, err := q.Do(context.Background(), func(ctx context.Context) (*entity.AIResponse, error) {
		return r.Generate(ctx, entity.GenerationRequest{Prompt: "price"})
	})
	require.NoError(t, err)
	assert.Equal(t, "6850", resp.Content)

	var next time.Time
	_, err = q.Do(context.Background(), func(ctx context.Context) (*entity.AIResponse, error) {
		next = clock.Now()
		return &entity.AIResponse{Content: "ok"}, nil
	})
	require.NoError(t, err)

	times := append(primary.times(), next)
	require.Len(t, times, 4)
	assertSpaced(t, times, interval)
}

func TestResilientProviderFallbackWaitsForQueueSlot(t *testing.T) {
	const interval = 3 * time.Second
	clock := newFakeClock()
	q := newPacedQueue(clock, interval)

	primary := &stampedProvider{fakeProvider: fakeProvider{errs: []error{errors.New("503 overloaded")}}, clock: clock}
	fallback := &stampedProvider{fakeProvider: fakeProvider{replies: []string{"from fallback"}}, clock: clock}
	r := NewResilientProvider(primary, fallback, logger.Nop(), time.Second)
	r.baseDelay = time.Millisecond

	resp, err := q.Do(context.Background(), func(ctx context.Context) (*entity.AIResponse, error) {
		return r.Generate(ctx, entity.GenerationRequest{Prompt: "hi"})
	})
	require.NoError(t, err)
	assert.Equal(t, "from fallback", resp.Content)

	times := append(primary.times(), fallback.times()...)
	require.Len(t, times, 4)
	assertSpaced(t, times, interval)
}
