package ollama

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"
	"github.com/presbrey/ollamafarm"
	"github.com/xpanvictor/meetsec/internal/config"
	"github.com/xpanvictor/meetsec/pkg/Logger"
)

// OllamaProvider picks the first online server of a farm for every request.
type OllamaProvider struct {
	ollamafarm *ollamafarm.Farm
}

func New(cfg config.OllamaConfig, logger *Logger.Logger) (*OllamaProvider, error) {
	if len(cfg.URLs) == 0 {
		return nil, fmt.Errorf("no ollama servers configured")
	}
	farm := ollamafarm.New()

	registered := 0
	for _, u := range cfg.URLs {
		if err := farm.RegisterURL(u, nil); err != nil {
			logger.Warnf("ollama server %s not registered: %v", u, err)
			continue
		}
		registered++
	}
	if registered == 0 {
		return nil, fmt.Errorf("no ollama server could be registered")
	}

	return &OllamaProvider{
		ollamafarm: farm,
	}, nil
}

func (o *OllamaProvider) Chat(
	ctx context.Context,
	req api.ChatRequest,
	fn api.ChatResponseFunc,
) error {
	ollama := o.ollamafarm.First(&ollamafarm.Where{Offline: false})
	if ollama != nil {
		return ollama.Client().Chat(ctx, &req, fn)
	}
	return fmt.Errorf("no online ollama server for model %v", req.Model)
}
