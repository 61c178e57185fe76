package api

import (
	"aurum-core/internal/domain/entity"
	"aurum-core/internal/domain/repository"
	"aurum-core/internal/usecase"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	maxMessageLength = 1000
	historyWindow    = 20
)

type ChatHandler struct {
	orchestrator *usecase.ChatOrchestrator
	prices       *usecase.PriceEstimator
	sessions     repository.SessionStore
	logger       repository.Logger
}

func NewChatHandler(orch *usecase.ChatOrchestrator, prices *usecase.PriceEstimator, sessions repository.SessionStore, logger repository.Logger) *ChatHandler {
	return &ChatHandler{orchestrator: orch, prices: prices, sessions: sessions, logger: logger}
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fmt.Errorf("%w: body must be JSON", entity.ErrInvalidRequest))
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return writeError(c, fmt.Errorf("%w: message is required", entity.ErrInvalidRequest))
	}
	if utf8.RuneCountInString(message) > maxMessageLength {
		return writeError(c, fmt.Errorf("%w: message exceeds %d characters", entity.ErrInvalidRequest, maxMessageLength))
	}

	ctx := c.UserContext()
	userID := userIDFrom(c)
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history, err := h.sessions.History(ctx, sessionID, historyWindow)
	if err != nil {
		h.logger.Warn("API", "session history unavailable", map[string]interface{}{"error": err, "session_id": sessionID})
		history = nil
	}

	price := 0
	if quote, err := h.prices.GetCurrentPrice(ctx); err == nil {
		price = quote.Price
	}

	reply := h.orchestrator.ProcessMessage(ctx, message, entity.ChatContext{
		UserID:              userID,
		ConversationHistory: history,
		CurrentGoldPrice:    price,
	})

	now := time.Now()
	botMessage := entity.ChatMessage{ID: uuid.NewString(), Role: entity.ChatRoleAssistant, Content: reply.Message, Timestamp: now}
	conversationLength, err := h.sessions.Append(ctx, sessionID,
		entity.ChatMessage{ID: uuid.NewString(), Role: entity.ChatRoleUser, Content: message, Timestamp: now},
		botMessage,
	)
	if err != nil {
		h.logger.Warn("API", "failed to persist chat turn", map[string]interface{}{"error": err, "session_id": sessionID})
		conversationLength = len(history) + 2
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"sessionId": sessionID,
		"message": fiber.Map{
			"id":        botMessage.ID,
			"content":   botMessage.Content,
			"timestamp": botMessage.Timestamp,
		},
		"ai": fiber.Map{
			"shouldOfferPurchase": reply.ShouldOfferPurchase,
			"requireLogin":        reply.RequireLogin,
			"suggestedAmount":     reply.SuggestedAmount,
			"intent":              reply.Metadata.Intent,
			"confidence":          reply.Metadata.Confidence,
			"suggestions":         reply.Suggestions,
			"source":              reply.Source,
		},
		"context": fiber.Map{
			"goldPrice":          reply.Metadata.GoldPrice,
			"isLoggedIn":         userID != "",
			"conversationLength": conversationLength,
		},
	})
}

// writeError maps domain errors to HTTP status codes.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, entity.ErrInvalidAmount),
		errors.Is(err, entity.ErrInvalidPeriod),
		errors.Is(err, entity.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, entity.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, entity.ErrInvalidSignature):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, entity.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, entity.ErrPriceUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
