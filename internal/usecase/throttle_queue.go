package usecase

import (
	"aurum-core/internal/domain/entity"
	"aurum-core/internal/domain/repository"
	"aurum-core/internal/pkg/metrics"
	"context"
	"fmt"
	"sync"
	"time"
)

// ModelJob is one outbound model call waiting for its throttle slot.
type ModelJob func(ctx context.Context) (*entity.AIResponse, error)

type jobResult struct {
	resp *entity.AIResponse
	err  error
}

type queuedJob struct {
	ctx      context.Context
	run      ModelJob
	enqueued time.Time
	done     chan jobResult
}

// ThrottleQueue serializes model calls for one owning service. Jobs are dispatched
// FIFO by a single drain goroutine, at least minInterval apart.
type ThrottleQueue struct {
	name        string
	minInterval time.Duration
	logger      repository.Logger

	mu          sync.Mutex
	pending     []*queuedJob
	processing  bool
	lastRequest time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

type queueKey struct{}

func NewThrottleQueue(name string, minInterval time.Duration, logger repository.Logger) *ThrottleQueue {
	return &ThrottleQueue{
		name:        name,
		minInterval: minInterval,
		logger:      logger,
		now:         time.Now,
		sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do enqueues job and waits for its result. Once enqueued a job is always attempted:
// it runs detached from ctx, and a cancelled caller only stops waiting for it.
func (q *ThrottleQueue) Do(ctx context.Context, job ModelJob) (*entity.AIResponse, error) {
	j := &queuedJob{
		ctx:      context.WithoutCancel(ctx),
		run:      job,
		enqueued: q.now(),
		done:     make(chan jobResult, 1),
	}

	q.mu.Lock()
	q.pending = append(q.pending, j)
	depth := len(q.pending)
	startDrain := !q.processing
	if startDrain {
		q.processing = true
	}
	q.mu.Unlock()

	metrics.QueueDepth.WithLabelValues(q.name).Set(float64(depth))
	if startDrain {
		go q.drain()
	}

	select {
	case res := <-j.done:
		return res.resp, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pending reports how many jobs are waiting to be dispatched.
func (q *ThrottleQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *ThrottleQueue) LastRequest() time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastRequest
}

func (q *ThrottleQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.processing = false
			q.mu.Unlock()
			metrics.QueueDepth.WithLabelValues(q.name).Set(0)
			return
		}
		j := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		depth := len(q.pending)

		wait := q.spacingLocked()
		q.mu.Unlock()

		metrics.QueueDepth.WithLabelValues(q.name).Set(float64(depth))
		if wait > 0 {
			q.logger.Debug("THROTTLE", "waiting for throttle slot", map[string]interface{}{
				"queue": q.name,
				"wait":  wait.String(),
			})
			_ = q.sleep(context.Background(), wait)
		}

		q.mu.Lock()
		q.lastRequest = q.now()
		q.mu.Unlock()

		metrics.ThrottleWait.WithLabelValues(q.name).Observe(q.now().Sub(j.enqueued).Seconds())
		j.done <- q.dispatch(j)
	}
}

func (q *ThrottleQueue) dispatch(j *queuedJob) (res jobResult) {
	defer func() {
		if r := recover(); r != nil {
			res = jobResult{err: fmt.Errorf("model job panicked: %v", r)}
		}
	}()
	resp, err := j.run(context.WithValue(j.ctx, queueKey{}, q))
	return jobResult{resp: resp, err: err}
}

// spacingLocked is how long the next request must wait. Caller holds q.mu.
func (q *ThrottleQueue) spacingLocked() time.Duration {
	if q.lastRequest.IsZero() {
		return 0
	}
	return q.minInterval - q.now().Sub(q.lastRequest)
}

// claimSlot waits out the spacing since the last request and records a new one.
// Only the running job calls it, so no dispatch can interleave.
func (q *ThrottleQueue) claimSlot(ctx context.Context) error {
	q.mu.Lock()
	wait := q.spacingLocked()
	q.mu.Unlock()

	if wait > 0 {
		if err := q.sleep(ctx, wait); err != nil {
			return err
		}
	}

	q.mu.Lock()
	q.lastRequest = q.now()
	q.mu.Unlock()
	return nil
}

// awaitSlot is called before every extra request a queued job makes, such as a
// retry. The dispatch itself already holds the first slot. Outside a queued job
// it only checks ctx.
func awaitSlot(ctx context.Context) error {
	q, ok := ctx.Value(queueKey{}).(*ThrottleQueue)
	if !ok {
		return ctx.Err()
	}
	return q.claimSlot(ctx)
}
