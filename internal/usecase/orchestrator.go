package usecase

import (
	"aurum-core/internal/domain/entity"
	"aurum-core/internal/domain/repository"
	"aurum-core/internal/pkg/metrics"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

const chatSystemInstruction = "You are a friendly digital gold investment assistant for Indian customers. " +
	"Answer in 1-2 short sentences of plain text, never JSON. Be encouraging, and when the user shows " +
	"interest in buying, suggest one of the fixed amounts ₹500, ₹1000, ₹2500 or ₹5000."

// PriceReader is the part of the price estimator the chat flow needs.
type PriceReader interface {
	GetCurrentPrice(ctx context.Context) (*entity.PriceQuote, error)
}

// ChatOrchestrator answers chat messages, preferring the model and degrading to canned
// replies. It never returns an error to its caller.
type ChatOrchestrator struct {
	provider    repository.AIProvider // nil when no model is configured
	queue       *ThrottleQueue
	cache       repository.ReplyCache
	prices      PriceReader
	logger      repository.Logger
	minInterval time.Duration

	now func() time.Time

	mu         sync.Mutex
	lastAICall time.Time
}

func NewChatOrchestrator(provider repository.AIProvider, queue *ThrottleQueue, cache repository.ReplyCache, prices PriceReader, logger repository.Logger, minInterval time.Duration) *ChatOrchestrator {
	return &ChatOrchestrator{
		provider:    provider,
		queue:       queue,
		cache:       cache,
		prices:      prices,
		logger:      logger,
		minInterval: minInterval,
		now:         time.Now,
	}
}

func (o *ChatOrchestrator) ProcessMessage(ctx context.Context, message string, cc entity.ChatContext) (reply *entity.ChatReply) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("CHAT", "chat processing panicked", map[string]interface{}{"panic": fmt.Sprint(r)})
			reply = o.errorReply(cc.CurrentGoldPrice)
		}
	}()

	key := cacheKey(message, cc.UserID)
	if cached, ok := o.cache.Get(key); ok {
		metrics.CacheLookups.WithLabelValues("chat", "hit").Inc()
		return cached
	}
	metrics.CacheLookups.WithLabelValues("chat", "miss").Inc()

	price := cc.CurrentGoldPrice
	if price <= 0 {
		price = o.resolvePrice(ctx)
	}

	intent := ClassifyIntent(message)

	var parsed *parsedReply
	if o.claimAISlot() {
		p, err := o.askModel(ctx, message, price, cc)
		if err != nil {
			o.logger.Warn("CHAT", "model reply failed, using fallback", map[string]interface{}{
				"error":  err,
				"intent": intent.Category,
			})
		} else {
			parsed = &p
		}
	}
	if parsed == nil {
		p := fallbackReply(intent.Category, price)
		parsed = &p
	}

	reply = o.normalize(*parsed, intent, price)
	o.cache.Set(key, reply)
	metrics.ChatReplies.WithLabelValues(string(reply.Source)).Inc()

	o.logger.Debug("CHAT", "reply ready", map[string]interface{}{
		"intent":  intent.Category,
		"source":  reply.Source,
		"history": len(cc.ConversationHistory),
	})
	return reply
}

func cacheKey(message, userID string) string {
	if userID == "" {
		userID = "guest"
	}
	return strings.ToLower(strings.TrimSpace(message)) + ":" + userID
}

func (o *ChatOrchestrator) resolvePrice(ctx context.Context) int {
	if o.prices == nil {
		return basePrice
	}
	quote, err := o.prices.GetCurrentPrice(ctx)
	if err != nil {
		o.logger.Warn("CHAT", "price lookup failed, using base price", map[string]interface{}{"error": err})
		return basePrice
	}
	return quote.Price
}

// claimAISlot reports whether the model may be asked now and, if so, marks the call.
func (o *ChatOrchestrator) claimAISlot() bool {
	if o.provider == nil {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.now()
	if !o.lastAICall.IsZero() && now.Sub(o.lastAICall) < o.minInterval {
		return false
	}
	o.lastAICall = now
	return true
}

func (o *ChatOrchestrator) askModel(ctx context.Context, message string, price int, cc entity.ChatContext) (parsedReply, error) {
	req := entity.GenerationRequest{
		Prompt:          buildChatPrompt(message, price, cc.IsLoggedIn()),
		MaxOutputTokens: 120,
		Temperature:     0.3,
		TopP:            0.8,
	}

	resp, err := o.queue.Do(ctx, func(jobCtx context.Context) (*entity.AIResponse, error) {
		return o.provider.Generate(jobCtx, req)
	})
	if err != nil {
		metrics.ModelCalls.WithLabelValues("chat", "error").Inc()
		return parsedReply{}, err
	}
	metrics.ModelCalls.WithLabelValues("chat", "ok").Inc()

	return ParseModelReply(resp.Content, price), nil
}

func buildChatPrompt(message string, price int, loggedIn bool) string {
	user := "guest"
	if loggedIn {
		user = "logged-in"
	}
	return fmt.Sprintf("%s\nGold price: ₹%d/gram. User: %s. Message: %s", chatSystemInstruction, price, user, message)
}

// normalize is the single place where replies get their guaranteed message, default
// suggestions, legacy flags and metadata.
func (o *ChatOrchestrator) normalize(p parsedReply, intent entity.Intent, price int) *entity.ChatReply {
	msg := strings.TrimSpace(p.Message)
	if msg == "" {
		msg = apologyMessage
	}

	suggestions := p.Suggestions
	if len(suggestions) == 0 {
		suggestions = suggestionsFor(intent.Category)
	}

	var suggestedAmount *int
	if intent.Category == entity.IntentPurchase {
		amount := 1000
		suggestedAmount = &amount
	}

	return &entity.ChatReply{
		Message:             msg,
		Suggestions:         suggestions,
		Source:              p.Source,
		ShouldOfferPurchase: intent.Category == entity.IntentPurchase,
		RequireLogin:        intent.Category == entity.IntentPortfolioCheck,
		SuggestedAmount:     suggestedAmount,
		Metadata: entity.ReplyMetadata{
			Intent:     intent.Category,
			Confidence: intent.Confidence,
			GoldPrice:  price,
			Timestamp:  o.now(),
			Source:     p.Source,
		},
	}
}

func (o *ChatOrchestrator) errorReply(price int) *entity.ChatReply {
	if price <= 0 {
		price = basePrice
	}
	return &entity.ChatReply{
		Message:     errorMessage,
		Suggestions: suggestionsFor(entity.IntentGeneral),
		Source:      entity.ReplySourceError,
		Metadata: entity.ReplyMetadata{
			Intent:     entity.IntentGeneral,
			Confidence: 0,
			GoldPrice:  price,
			Timestamp:  o.now(),
			Source:     entity.ReplySourceError,
		},
	}
}
