package usecase

import (
	"aurum-core/internal/domain/entity"
	"context"
	"errors"
	"sync"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeProvider replays scripted replies; once they run out it repeats the last one.
type fakeProvider struct {
	mu       sync.Mutex
	replies  []string
	errs     []error
	requests []entity.GenerationRequest
}

func (f *fakeProvider) Generate(ctx context.Context, req entity.GenerationRequest) (*entity.AIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := len(f.requests)
	f.requests = append(f.requests, req)

	if len(f.errs) > 0 {
		err := f.errs[min(i, len(f.errs)-1)]
		if err != nil {
			return nil, err
		}
	}
	if len(f.replies) == 0 {
		return nil, errors.New("no scripted reply")
	}
	return &entity.AIResponse{Content: f.replies[min(i, len(f.replies)-1)], Model: "fake"}, nil
}

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeProvider) LastRequest() entity.GenerationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type stubPrices struct {
	price int
	err   error
}

func (s stubPrices) GetCurrentPrice(ctx context.Context) (*entity.PriceQuote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.PriceQuote{Price: s.price, Source: entity.PriceSourceAPI, Currency: entity.CurrencyINR}, nil
}
