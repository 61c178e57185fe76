package usecase

import (
	"aurum-core/internal/domain/entity"
	"aurum-core/internal/domain/repository"
	"aurum-core/internal/pkg/metrics"
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

const (
	basePrice           = 6800
	synthesizedPriceMin = 6200
	synthesizedPriceMax = 7200
	historyPriceMin     = 6000
	historyPriceMax     = 7500
)

const pricePrompt = "Estimate today's 24K gold price in India in rupees per gram. " +
	"Reply with a single number between 6200 and 7200 and nothing else."

var historyPeriods = map[string]struct {
	points int
	step   time.Duration
}{
	"1d": {points: 24, step: time.Hour},
	"1w": {points: 7, step: 24 * time.Hour},
	"1m": {points: 30, step: 24 * time.Hour},
}

type PriceEstimatorConfig struct {
	CacheTTL   time.Duration // how long a fetched price is served from cache
	AIInterval time.Duration // minimum spacing between model estimates
}

// PriceEstimator produces the current gold price per gram, asking the model for an
// estimate when allowed and synthesizing a bounded price otherwise.
type PriceEstimator struct {
	provider repository.AIProvider // nil when no model is configured
	queue    *ThrottleQueue
	logger   repository.Logger
	cfg      PriceEstimatorConfig

	now    func() time.Time
	random func() float64

	mu          sync.Mutex
	cached      *entity.PriceQuote
	previous    int
	lastAIFetch time.Time
}

func NewPriceEstimator(provider repository.AIProvider, queue *ThrottleQueue, logger repository.Logger, cfg PriceEstimatorConfig) *PriceEstimator {
	return &PriceEstimator{
		provider: provider,
		queue:    queue,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
		random:   rand.Float64,
	}
}

func (p *PriceEstimator) GetCurrentPrice(ctx context.Context) (*entity.PriceQuote, error) {
	p.mu.Lock()
	if p.cached != nil && p.now().Sub(p.cached.Timestamp) < p.cfg.CacheTTL {
		quote := *p.cached
		p.mu.Unlock()
		quote.Source = entity.PriceSourceCache
		metrics.CacheLookups.WithLabelValues("price", "hit").Inc()
		return &quote, nil
	}
	p.mu.Unlock()
	metrics.CacheLookups.WithLabelValues("price", "miss").Inc()

	price, err := p.fetchFromAPI(ctx)
	if err != nil {
		p.mu.Lock()
		stale := p.cached
		p.mu.Unlock()

		if stale != nil {
			p.logger.Warn("PRICE", "serving stale price after fetch failure", map[string]interface{}{
				"error": err,
				"price": stale.Price,
			})
			quote := *stale
			quote.Source = entity.PriceSourceCacheFallback
			quote.Warning = "Using last known price; live estimate unavailable"
			return &quote, nil
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrPriceUnavailable, err)
	}

	quote := entity.PriceQuote{
		Price:     price,
		Source:    entity.PriceSourceAPI,
		Timestamp: p.now(),
		Currency:  entity.CurrencyINR,
	}

	p.mu.Lock()
	if p.cached != nil {
		p.previous = p.cached.Price
	}
	cached := quote
	p.cached = &cached
	p.mu.Unlock()

	return &quote, nil
}

// RefreshPrice drops the cached price and fetches a new one. The model throttle
// window is left untouched.
func (p *PriceEstimator) RefreshPrice(ctx context.Context) (*entity.PriceQuote, error) {
	p.mu.Lock()
	if p.cached != nil {
		p.previous = p.cached.Price
	}
	p.cached = nil
	p.mu.Unlock()

	return p.GetCurrentPrice(ctx)
}

// PriceChange compares the current cached price with the one it replaced.
func (p *PriceEstimator) PriceChange() entity.PriceChange {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached == nil || p.previous == 0 {
		return entity.PriceChange{Direction: "stable"}
	}

	diff := p.cached.Price - p.previous
	change := entity.PriceChange{
		Amount:     diff,
		Percentage: math.Round(float64(diff)/float64(p.previous)*10000) / 100,
		Direction:  "stable",
	}
	if diff > 0 {
		change.Direction = "up"
	} else if diff < 0 {
		change.Direction = "down"
	}
	return change
}

// GetPriceHistory returns illustrative points around the current price. It never
// calls the model.
func (p *PriceEstimator) GetPriceHistory(ctx context.Context, period string) ([]entity.PricePoint, error) {
	window, ok := historyPeriods[period]
	if !ok {
		return nil, entity.ErrInvalidPeriod
	}

	p.mu.Lock()
	current := 0
	if p.cached != nil {
		current = p.cached.Price
	}
	p.mu.Unlock()
	if current == 0 {
		current = p.synthesize()
	}

	now := p.now()
	points := make([]entity.PricePoint, window.points)
	for i := range points {
		trend := math.Sin(float64(i)/float64(window.points)*math.Pi) * 50
		price := float64(current) + (p.random()*200 - 100) + trend
		points[i] = entity.PricePoint{
			Timestamp: now.Add(-time.Duration(window.points-1-i) * window.step),
			Price:     int(math.Round(clamp(price, historyPriceMin, historyPriceMax))),
			Volume:    1000 + int(p.random()*9000),
		}
	}
	return points, nil
}

func (p *PriceEstimator) fetchFromAPI(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if p.provider != nil && p.claimAISlot() {
		price, err := p.estimateWithModel(ctx)
		if err == nil {
			p.logger.Info("PRICE", "price estimated by model", map[string]interface{}{"price": price})
			return price, nil
		}
		p.logger.Warn("PRICE", "model estimate failed, synthesizing price", map[string]interface{}{"error": err})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
	}

	return p.synthesize(), nil
}

// claimAISlot records the attempt time before the call is made, so a failed call
// still uses up the interval.
func (p *PriceEstimator) claimAISlot() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if !p.lastAIFetch.IsZero() && now.Sub(p.lastAIFetch) < p.cfg.AIInterval {
		return false
	}
	p.lastAIFetch = now
	return true
}

func (p *PriceEstimator) estimateWithModel(ctx context.Context) (int, error) {
	req := entity.GenerationRequest{
		Prompt:          pricePrompt,
		MaxOutputTokens: 30,
		Temperature:     0.1,
	}
	resp, err := p.queue.Do(ctx, func(jobCtx context.Context) (*entity.AIResponse, error) {
		return p.provider.Generate(jobCtx, req)
	})
	if err != nil {
		metrics.ModelCalls.WithLabelValues("price", "error").Inc()
		return 0, err
	}

	price, ok := ParsePriceReply(resp.Content)
	if !ok {
		metrics.ModelCalls.WithLabelValues("price", "unparseable").Inc()
		return 0, fmt.Errorf("%w: %q", entity.ErrUnparseablePrice, resp.Content)
	}
	metrics.ModelCalls.WithLabelValues("price", "ok").Inc()
	return price, nil
}

func (p *PriceEstimator) synthesize() int {
	hour := float64(p.now().Hour())
	price := basePrice + math.Sin(hour/24*2*math.Pi)*50 + (p.random()*100 - 50)
	return int(math.Round(clamp(price, synthesizedPriceMin, synthesizedPriceMax)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
