package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/xpanvictor/meetsec/pkg/assistant/adapters"
	"github.com/xpanvictor/meetsec/pkg/assistant/providers/gemini"
)

// geminiAssistant asks for a JSON response constrained by a response schema
// instead of a function call; the JSON body is returned as a tool call.
type geminiAssistant struct {
	provider *gemini.GeminiProvider
	model    string
}

func NewGemini(provider *gemini.GeminiProvider, model string) Assistant {
	return &geminiAssistant{provider: provider, model: model}
}

func (g *geminiAssistant) Name() string { return "gemini" }

func (g *geminiAssistant) ProcessPrompt(ctx context.Context, input AssistantInput) (*AssistantOutput, error) {
	name := g.model
	if input.Model.Name != "" {
		name = input.Model.Name
	}
	model := g.provider.GetModel(name)
	model.SetTemperature(float32(input.Temperature))

	system, rest := SplitSystem(input.Msgs)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if input.Tool != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = ToGenaiSchema(input.Tool)
	}

	parts := make([]genai.Part, 0, len(rest))
	for _, m := range rest {
		parts = append(parts, genai.Text(m.Content))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoChoices
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	out := &AssistantOutput{
		Response: AssistantMessage{Content: text.String(), CreatedAt: time.Now(), MsgRole: ASSISTANT},
	}
	if input.Tool != nil && text.Len() > 0 {
		out.ToolCalls = []ToolCall{{Name: input.Tool.Name, Arguments: text.String()}}
	}
	return out, nil
}

// ToGenaiSchema converts the tool parameters into a Gemini response schema.
func ToGenaiSchema(tool *adapters.ContractTool) *genai.Schema {
	root := &genai.Schema{
		Type:        genai.TypeObject,
		Description: tool.Description,
		Properties:  make(map[string]*genai.Schema, len(tool.ToolFunction.Parameters.Properties)),
		Required:    append([]string(nil), tool.ToolFunction.RequiredProps...),
	}
	for name, p := range tool.ToolFunction.Parameters.Properties {
		root.Properties[name] = propertyToGenai(p)
	}
	return root
}

func propertyToGenai(p adapters.ContractToolProperty) *genai.Schema {
	s := &genai.Schema{
		Type:        genaiType(p.Type),
		Description: p.Description,
	}
	if len(p.Enum) > 0 {
		s.Format = "enum"
		s.Enum = append([]string(nil), p.Enum...)
	}
	if p.Items != nil {
		s.Items = propertyToGenai(*p.Items)
	}
	if len(p.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(p.Properties))
		for name, child := range p.Properties {
			s.Properties[name] = propertyToGenai(child)
		}
		s.Required = append([]string(nil), p.Required...)
	}
	return s
}

func genaiType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
