package entity

// GenerationRequest is a single-prompt model call with its sampling parameters.
type GenerationRequest struct {
	Prompt          string  `json:"prompt"`
	MaxOutputTokens int32   `json:"max_output_tokens"`
	Temperature     float32 `json:"temperature"`
	TopP            float32 `json:"top_p"`
}

type AIResponse struct {
	Content    string         `json:"content"`
	Model      string         `json:"model"` // Which model actually answered?
	TokenCount int            `json:"token_count"`
	Latency    int64          `json:"latency_ms"`
	Metadata   map[string]any `json:"metadata"`
}
