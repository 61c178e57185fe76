package client

import (
	"aurum-core/internal/domain/entity"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

var errEmptyCandidate = errors.New("gemini returned no text candidate")

type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGenAIClient builds a Gemini API client authenticated by API key. The timeout is
// the HTTP deadline applied to every model call.
func NewGenAIClient(ctx context.Context, apiKey string, timeout time.Duration) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	})
}

func NewGeminiClientFromClient(c *genai.Client, model string) *GeminiClient {
	return &GeminiClient{
		client: c,
		model:  model,
	}
}

func (g *GeminiClient) Generate(ctx context.Context, req entity.GenerationRequest) (*entity.AIResponse, error) {
	start := time.Now()
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), generationConfig(req))
	if err != nil {
		return nil, err
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return nil, errEmptyCandidate
	}

	resp := &entity.AIResponse{
		Content: text,
		Model:   g.model,
		Latency: time.Since(start).Milliseconds(),
	}
	if result.UsageMetadata != nil {
		resp.TokenCount = int(result.UsageMetadata.TotalTokenCount)
	}
	return resp, nil
}

func generationConfig(req entity.GenerationRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: req.MaxOutputTokens,
		Temperature:     genai.Ptr(req.Temperature),
	}
	if req.TopP > 0 {
		cfg.TopP = genai.Ptr(req.TopP)
	}
	return cfg
}
