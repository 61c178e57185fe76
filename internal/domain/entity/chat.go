package entity

import "time"

type ReplySource string

const (
	ReplySourceGeminiText      ReplySource = "gemini_text"
	ReplySourceGeminiJSON      ReplySource = "gemini_json"
	ReplySourceGeminiExtracted ReplySource = "gemini_extracted"
	ReplySourceGeminiTruncated ReplySource = "gemini_truncated"
	ReplySourceGeminiFallback  ReplySource = "gemini_fallback"
	ReplySourceFallback        ReplySource = "fallback"
	ReplySourceError           ReplySource = "error"
)

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a stored conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatContext carries what the caller knows about the conversation.
// A zero CurrentGoldPrice means the orchestrator resolves it itself.
type ChatContext struct {
	UserID              string
	ConversationHistory []ChatMessage
	CurrentGoldPrice    int
}

func (c ChatContext) IsLoggedIn() bool {
	return c.UserID != ""
}

type ReplyMetadata struct {
	Intent     IntentCategory `json:"intent"`
	Confidence float64        `json:"confidence"`
	GoldPrice  int            `json:"goldPrice"`
	Timestamp  time.Time      `json:"timestamp"`
	Source     ReplySource    `json:"source"`
}

type ChatReply struct {
	Message             string        `json:"message"`
	Suggestions         []string      `json:"suggestions"`
	Source              ReplySource   `json:"source"`
	ShouldOfferPurchase bool          `json:"shouldOfferPurchase"`
	RequireLogin        bool          `json:"requireLogin"`
	SuggestedAmount     *int          `json:"suggestedAmount"`
	Metadata            ReplyMetadata `json:"metadata"`
}
