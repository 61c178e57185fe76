package usecase

import (
	"aurum-core/internal/domain/entity"
	"aurum-core/internal/domain/repository"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// transientMarkers are substrings of model errors worth another attempt:
// rate limits, server-side failures and deadlines.
var transientMarkers = []string{"429", "500", "502", "503", "504", "overloaded", "unavailable", "resource_exhausted", "deadline"}

// ResilientProvider wraps a primary model with bounded retries and a single attempt on
// a fallback model. Fallback may be nil. Inside a ThrottleQueue job every retry and the
// fallback attempt also wait for their own queue slot.
type ResilientProvider struct {
	primary  repository.AIProvider
	fallback repository.AIProvider
	logger   repository.Logger

	attempts  int
	baseDelay time.Duration
	timeout   time.Duration
}

func NewResilientProvider(primary, fallback repository.AIProvider, logger repository.Logger, timeout time.Duration) *ResilientProvider {
	return &ResilientProvider{
		primary:   primary,
		fallback:  fallback,
		logger:    logger,
		attempts:  3,
		baseDelay: 500 * time.Millisecond,
		timeout:   timeout,
	}
}

func (r *ResilientProvider) Generate(ctx context.Context, req entity.GenerationRequest) (*entity.AIResponse, error) {
	if r.primary == nil {
		return nil, entity.ErrModelNotConfigured
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	resp, retries, err := r.withRetry(ctx, r.primary, req)
	if err == nil {
		if retries > 0 {
			annotate(resp, "retry_count", retries)
		}
		return resp, nil
	}
	if r.fallback == nil || ctx.Err() != nil {
		return nil, err
	}

	r.logger.Warn("RELIABILITY", "primary model exhausted, trying fallback model", map[string]interface{}{
		"error":   err,
		"retries": retries,
	})

	if slotErr := awaitSlot(ctx); slotErr != nil {
		return nil, slotErr
	}
	resp, fbErr := r.fallback.Generate(ctx, req)
	if fbErr != nil {
		return nil, fmt.Errorf("both primary and fallback failed: %w", errors.Join(err, fbErr))
	}
	annotate(resp, "fallback_used", true)
	return resp, nil
}

// withRetry returns the response, the number of retries spent and the last error.
func (r *ResilientProvider) withRetry(ctx context.Context, p repository.AIProvider, req entity.GenerationRequest) (*entity.AIResponse, int, error) {
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(r.backoff(attempt - 1)):
			case <-ctx.Done():
				return nil, attempt - 1, ctx.Err()
			}
			if err := awaitSlot(ctx); err != nil {
				return nil, attempt - 1, err
			}
		}

		resp, err := p.Generate(ctx, req)
		if err == nil {
			return resp, attempt, nil
		}
		lastErr = err
		if !isTransient(err) {
			return nil, attempt, err
		}
		r.logger.Debug("RELIABILITY", "transient model error", map[string]interface{}{
			"error":   err,
			"attempt": attempt + 1,
		})
	}
	return nil, r.attempts - 1, lastErr
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// backoff doubles baseDelay per retry and adds up to 20% jitter.
func (r *ResilientProvider) backoff(retry int) time.Duration {
	d := r.baseDelay << retry
	return d + time.Duration(rand.Int63n(int64(d)/5+1))
}

func annotate(resp *entity.AIResponse, key string, value any) {
	if resp.Metadata == nil {
		resp.Metadata = make(map[string]any)
	}
	resp.Metadata[key] = value
}
