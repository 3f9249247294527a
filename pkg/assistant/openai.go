package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/xpanvictor/meetsec/internal/config"
)

type openAIAssistant struct {
	client openai.Client
	model  string
}

// Name implements Assistant.
func (o openAIAssistant) Name() string { return "openai" }

// ProcessPrompt implements Assistant.
func (o openAIAssistant) ProcessPrompt(
	ctx context.Context,
	input AssistantInput,
) (*AssistantOutput, error) {
	convertedMsgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(input.Msgs))
	for _, msg := range input.Msgs {
		convertedMsgs = append(convertedMsgs, convertToOpenaiMsg(msg))
	}

	model := o.model
	if input.Model.Name != "" {
		model = input.Model.Name
	}
	params := openai.ChatCompletionNewParams{
		Messages:    convertedMsgs,
		Model:       openai.ChatModel(model),
		Temperature: openai.Float(input.Temperature),
	}
	if input.Tool != nil {
		params.Tools = []openai.ChatCompletionToolParam{{
			Function: openai.FunctionDefinitionParam{
				Name:        input.Tool.Name,
				Description: openai.String(input.Tool.Description),
				Parameters:  openai.FunctionParameters(input.Tool.ParametersSchema()),
			},
		}}
		if input.ForceTool {
			params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
				OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
					Function: openai.ChatCompletionNamedToolChoiceFunctionParam{Name: input.Tool.Name},
				},
			}
		}
	}

	chatCompletion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai completion failed: %w", err)
	}
	if len(chatCompletion.Choices) == 0 {
		return nil, ErrNoChoices
	}

	msg := chatCompletion.Choices[0].Message
	calls := make([]ToolCall, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		calls = append(calls, ToolCall{
			Id:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return &AssistantOutput{
		Id: chatCompletion.ID,
		Response: AssistantMessage{
			Content:   msg.Content,
			CreatedAt: time.Now(),
			MsgRole:   ASSISTANT,
		},
		ToolCalls: calls,
	}, nil
}

func convertToOpenaiMsg(msg AssistantMessage) openai.ChatCompletionMessageParamUnion {
	switch msg.MsgRole {
	case ASSISTANT:
		return openai.AssistantMessage(msg.Content)
	case USER:
		return openai.UserMessage(msg.Content)
	case SYSTEM:
		return openai.SystemMessage(msg.Content)
	}
	return openai.UserMessage(msg.Content)
}

// NewOpenAI builds a chat-completions backed assistant. Failed calls are not
// retried.
func NewOpenAI(cfg config.OpenAIConfig, model string) (Assistant, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrNotConfigured)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return openAIAssistant{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}
