package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiEmbeddingModel is used when no model name is configured.
const DefaultGeminiEmbeddingModel = "text-embedding-004"

// GeminiEncoder encodes text with the Gemini embedding API.
type GeminiEncoder struct {
	client *genai.Client
	model  string
}

// NewGeminiEncoder creates a Gemini-backed encoder. The model name falls back
// to DefaultGeminiEmbeddingModel when empty.
func NewGeminiEncoder(ctx context.Context, apiKey, model string) (*GeminiEncoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiEmbeddingModel
	}
	return &GeminiEncoder{client: client, model: model}, nil
}

// Encode returns the embedding vector for text.
func (e *GeminiEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	em := e.client.EmbeddingModel(e.model)
	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if resp == nil || resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return resp.Embedding.Values, nil
}

// Close releases the underlying client.
func (e *GeminiEncoder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}
