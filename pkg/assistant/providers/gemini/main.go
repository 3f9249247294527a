package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/xpanvictor/meetsec/internal/config"
	"google.golang.org/api/option"
)

// GeminiProvider owns the genai client shared by all models.
type GeminiProvider struct {
	client *genai.Client
}

// New creates a new GeminiProvider instance.
func New(ctx context.Context, cfg config.GeminiConfig, opts ...option.ClientOption) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini API client: %w", err)
	}

	return &GeminiProvider{
		client: client,
	}, nil
}

func (gp *GeminiProvider) GetModel(modelName string) *genai.GenerativeModel {
	return gp.client.GenerativeModel(modelName)
}

func (gp *GeminiProvider) Close() error {
	return gp.client.Close()
}
