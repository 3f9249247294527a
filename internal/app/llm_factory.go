package app

import (
	"context"
	"fmt"

	"github.com/xpanvictor/meetsec/internal/config"
	"github.com/xpanvictor/meetsec/pkg/Logger"
	"github.com/xpanvictor/meetsec/pkg/assistant"
	"github.com/xpanvictor/meetsec/pkg/assistant/providers/gemini"
	olp "github.com/xpanvictor/meetsec/pkg/assistant/providers/ollama"
)

// LLMFactory creates the language-understanding engine selected by
// extraction.engine.
type LLMFactory struct {
	config *config.Settings
	logger *Logger.Logger
	// closers release provider clients that hold connections.
	closers []func() error
}

func NewLLMFactory(cfg *config.Settings, logger *Logger.Logger) *LLMFactory {
	return &LLMFactory{
		config: cfg,
		logger: logger,
	}
}

func (f *LLMFactory) CreateAssistant(ctx context.Context) (assistant.Assistant, error) {
	model := f.config.Extraction.Model
	switch f.config.Extraction.Engine {
	case "openai":
		a, err := assistant.NewOpenAI(f.config.OpenAI, model)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI assistant: %w", err)
		}
		f.logger.Infof("OpenAI assistant created for model %s", model)
		return a, nil
	case "gemini":
		provider, err := gemini.New(ctx, f.config.Gemini)
		if err != nil {
			return nil, err
		}
		f.closers = append(f.closers, provider.Close)
		f.logger.Infof("Gemini assistant created for model %s", model)
		return assistant.NewGemini(provider, model), nil
	case "ollama":
		provider, err := olp.New(f.config.Ollama, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama provider: %w", err)
		}
		f.logger.Infof("Ollama assistant created for URLs: %v, model: %s", f.config.Ollama.URLs, model)
		return assistant.NewOllama(provider, model), nil
	default:
		return nil, fmt.Errorf("unknown extraction engine %q", f.config.Extraction.Engine)
	}
}

func (f *LLMFactory) Close() error {
	var first error
	for _, c := range f.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
