package usecase

import (
	"aurum-core/internal/adapter/store"
	"aurum-core/internal/domain/entity"
	"aurum-core/internal/domain/repository"
	"aurum-core/internal/pkg/logger"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(provider repository.AIProvider, prices PriceReader, clock *fakeClock) *ChatOrchestrator {
	o := NewChatOrchestrator(
		provider,
		NewThrottleQueue("chat", 0, logger.Nop()),
		store.NewReplyCache(20*time.Minute, 100),
		prices,
		logger.Nop(),
		3*time.Second,
	)
	o.now = clock.Now
	return o
}

func TestProcessMessageGreetingFallbackWithoutModel(t *testing.T) {
	o := newTestOrchestrator(nil, stubPrices{price: 6850}, newFakeClock())

	reply := o.ProcessMessage(context.Background(), "hello", entity.ChatContext{})

	assert.Equal(t, entity.ReplySourceFallback, reply.Source)
	assert.Equal(t, fallbackReply(entity.IntentGreeting, 6850).Message, reply.Message)
	assert.Contains(t, reply.Message, "₹6,850")
	assert.Equal(t, entity.IntentGreeting, reply.Metadata.Intent)
	assert.Equal(t, 0.9, reply.Metadata.Confidence)
	assert.Equal(t, 6850, reply.Metadata.GoldPrice)
	assert.Equal(t, defaultSuggestions[entity.IntentGreeting], reply.Suggestions)
	assert.False(t, reply.ShouldOfferPurchase)
	assert.Nil(t, reply.SuggestedAmount)
}

func TestProcessMessageFallbackTable(t *testing.T) {
	o := newTestOrchestrator(nil, nil, newFakeClock())
	cc := entity.ChatContext{CurrentGoldPrice: 7000}

	purchase := o.ProcessMessage(context.Background(), "I want to buy gold", cc)
	assert.True(t, purchase.ShouldOfferPurchase)
	require.NotNil(t, purchase.SuggestedAmount)
	assert.Equal(t, 1000, *purchase.SuggestedAmount)
	assert.Contains(t, purchase.Message, "0.1429 g")

	portfolio := o.ProcessMessage(context.Background(), "check my gold portfolio", cc)
	assert.True(t, portfolio.RequireLogin)
	assert.Equal(t, fallbackReply(entity.IntentPortfolioCheck, 7000).Message, portfolio.Message)

	general := o.ProcessMessage(context.Background(), "tell me a joke", cc)
	assert.Equal(t, fallbackReply(entity.IntentGoldGeneral, 7000).Message, general.Message)
	assert.Equal(t, entity.IntentGeneral, general.Metadata.Intent)
}

func TestProcessMessageUsesModelReply(t *testing.T) {
	provider := &fakeProvider{replies: []string{"Gold at ₹6,850 is a solid pick. Try ₹1000 today!"}}
	o := newTestOrchestrator(provider, stubPrices{price: 6850}, newFakeClock())

	reply := o.ProcessMessage(context.Background(), "Should I buy gold?", entity.ChatContext{UserID: "u-1"})

	assert.Equal(t, entity.ReplySourceGeminiText, reply.Source)
	assert.Equal(t, "Gold at ₹6,850 is a solid pick. Try ₹1000 today!", reply.Message)
	assert.Equal(t, defaultSuggestions[entity.IntentPurchase], reply.Suggestions)
	assert.True(t, reply.ShouldOfferPurchase)

	req := provider.LastRequest()
	assert.Equal(t, int32(120), req.MaxOutputTokens)
	assert.InDelta(t, 0.3, req.Temperature, 1e-6)
	assert.Contains(t, req.Prompt, "Gold price: ₹6850/gram. User: logged-in. Message: Should I buy gold?")
}

func TestProcessMessageCachesByMessageAndUser(t *testing.T) {
	provider := &fakeProvider{replies: []string{"First answer.", "Second answer."}}
	clock := newFakeClock()
	o := newTestOrchestrator(provider, stubPrices{price: 6850}, clock)

	first := o.ProcessMessage(context.Background(), "What is gold?", entity.ChatContext{UserID: "u-1"})
	clock.Advance(5 * time.Second)
	again := o.ProcessMessage(context.Background(), "  what is GOLD?  ", entity.ChatContext{UserID: "u-1"})

	assert.Same(t, first, again)
	assert.Equal(t, 1, provider.Calls())

	other := o.ProcessMessage(context.Background(), "What is gold?", entity.ChatContext{UserID: "u-2"})
	assert.Equal(t, "Second answer.", other.Message)
	assert.Equal(t, 2, provider.Calls())
}

func TestProcessMessageThrottlesModelCalls(t *testing.T) {
	provider := &fakeProvider{replies: []string{"Model says hi."}}
	clock := newFakeClock()
	o := newTestOrchestrator(provider, stubPrices{price: 6850}, clock)

	first := o.ProcessMessage(context.Background(), "hello", entity.ChatContext{})
	assert.Equal(t, entity.ReplySourceGeminiText, first.Source)

	clock.Advance(time.Second)
	second := o.ProcessMessage(context.Background(), "hey", entity.ChatContext{})
	assert.Equal(t, entity.ReplySourceFallback, second.Source)
	assert.Equal(t, 1, provider.Calls())

	clock.Advance(3 * time.Second)
	third := o.ProcessMessage(context.Background(), "good evening", entity.ChatContext{})
	assert.Equal(t, entity.ReplySourceGeminiText, third.Source)
	assert.Equal(t, 2, provider.Calls())
}

func TestProcessMessageModelFailureFallsBack(t *testing.T) {
	provider := &fakeProvider{errs: []error{errors.New("503 overloaded")}}
	o := newTestOrchestrator(provider, stubPrices{err: entity.ErrPriceUnavailable}, newFakeClock())

	reply := o.ProcessMessage(context.Background(), "is gold a good investment", entity.ChatContext{})

	assert.Equal(t, entity.ReplySourceFallback, reply.Source)
	assert.Equal(t, basePrice, reply.Metadata.GoldPrice)
	assert.Equal(t, fallbackReply(entity.IntentGoldGeneral, basePrice).Message, reply.Message)
}

func TestProcessMessageRecoversFromPanics(t *testing.T) {
	clock := newFakeClock()
	o := newTestOrchestrator(nil, stubPrices{price: 6850}, clock)
	o.cache = panickingCache{}

	reply := o.ProcessMessage(context.Background(), "hello", entity.ChatContext{CurrentGoldPrice: 6900})

	assert.Equal(t, entity.ReplySourceError, reply.Source)
	assert.Equal(t, errorMessage, reply.Message)
	assert.Equal(t, 6900, reply.Metadata.GoldPrice)
	assert.Equal(t, clock.Now(), reply.Metadata.Timestamp)
}

func TestProcessMessageNeverEmpty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("reply message is never blank", prop.ForAll(
		func(message, modelText string, useModel bool) bool {
			var provider repository.AIProvider
			if useModel {
				provider = &fakeProvider{replies: []string{modelText}}
			}
			o := newTestOrchestrator(provider, stubPrices{price: 6850}, newFakeClock())
			reply := o.ProcessMessage(context.Background(), message, entity.ChatContext{})
			return strings.TrimSpace(reply.Message) != "" && len(reply.Suggestions) > 0
		},
		gen.AnyString(),
		gen.OneGenOf(gen.AnyString(), gen.Const(""), gen.Const("   "), gen.Const(`{"message": "", "suggestions": []}`)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

type panickingCache struct{}

func (panickingCache) Get(string) (*entity.ChatReply, bool) { panic("cache corrupted") }
func (panickingCache) Set(string, *entity.ChatReply)        {}
func (panickingCache) Len() int                             { return 0 }
