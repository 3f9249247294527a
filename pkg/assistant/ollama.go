package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// ChatProvider is the slice of the ollama farm provider used here.
type ChatProvider interface {
	Chat(ctx context.Context, req api.ChatRequest, fn api.ChatResponseFunc) error
}

// ollamaAssistant requests JSON output and describes the schema in the
// system message, since the API only takes a format hint.
type ollamaAssistant struct {
	provider ChatProvider
	model    string
}

func NewOllama(provider ChatProvider, model string) Assistant {
	return &ollamaAssistant{provider: provider, model: model}
}

func (o *ollamaAssistant) Name() string { return "ollama" }

func (o *ollamaAssistant) ProcessPrompt(ctx context.Context, input AssistantInput) (*AssistantOutput, error) {
	model := o.model
	if input.Model.Name != "" {
		model = input.Model.Name
	}

	msgs := make([]api.Message, 0, len(input.Msgs)+1)
	if input.Tool != nil {
		schema, err := json.Marshal(input.Tool.ParametersSchema())
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema: %w", err)
		}
		msgs = append(msgs, api.Message{
			Role:    string(SYSTEM),
			Content: fmt.Sprintf("Ответ верни одним JSON-объектом, строго по схеме %s:\n%s", input.Tool.Name, schema),
		})
	}
	for _, m := range input.Msgs {
		msgs = append(msgs, api.Message{Role: string(m.MsgRole), Content: m.Content})
	}

	stream := false
	req := api.ChatRequest{
		Model:    model,
		Messages: msgs,
		Stream:   &stream,
		Options:  map[string]interface{}{"temperature": input.Temperature},
	}
	if input.Tool != nil {
		req.Format = "json"
	}

	var content strings.Builder
	err := o.provider.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat failed: %w", err)
	}

	out := &AssistantOutput{
		Response: AssistantMessage{Content: content.String(), CreatedAt: time.Now(), MsgRole: ASSISTANT},
	}
	if input.Tool != nil && content.Len() > 0 {
		out.ToolCalls = []ToolCall{{Name: input.Tool.Name, Arguments: content.String()}}
	}
	return out, nil
}
