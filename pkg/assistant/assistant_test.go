package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/meetsec/internal/config"
	"github.com/xpanvictor/meetsec/pkg/assistant/adapters"
	toolsystem "github.com/xpanvictor/meetsec/pkg/tool_system"
)

func testTool(t *testing.T) *adapters.ContractTool {
	t.Helper()
	tool, err := toolsystem.NewToolBuilder("analyze", "Analyze").
		AddStringParameter("summary", "Summary", true).
		AddStringParameter("status", "Status", false, "a", "b").
		AddArrayParameter("decisions", "Decisions", true, toolsystem.String("Decision")).
		Build()
	require.NoError(t, err)
	return &tool
}

func TestOpenAIForcesToolCall(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"cmpl-1","object":"chat.completion","created":1,"model":"gpt-4",
			"choices":[{"index":0,"finish_reason":"tool_calls","message":{"role":"assistant","content":null,
			"tool_calls":[{"id":"call_1","type":"function","function":{"name":"analyze","arguments":"{\"summary\":\"ok\"}"}}]}}]}`)
	}))
	defer srv.Close()

	a, err := NewOpenAI(config.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL}, "gpt-4")
	require.NoError(t, err)

	out, err := a.ProcessPrompt(context.Background(), NewAssistantInput("sys", "user", testTool(t), 0.3))
	require.NoError(t, err)
	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, "analyze", out.ToolCalls[0].Name)
	assert.JSONEq(t, `{"summary":"ok"}`, out.ToolCalls[0].Arguments)
	assert.Equal(t, "cmpl-1", out.Id)

	assert.Equal(t, "gpt-4", body["model"])
	assert.Equal(t, 0.3, body["temperature"])
	choice := body["tool_choice"].(map[string]any)
	assert.Equal(t, "function", choice["type"])
	assert.Equal(t, "analyze", choice["function"].(map[string]any)["name"])
	msgs := body["messages"].([]any)
	assert.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
}

func TestOpenAISendsZeroTemperature(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"cmpl-2","object":"chat.completion","created":1,"model":"gpt-4",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer srv.Close()

	a, err := NewOpenAI(config.OpenAIConfig{APIKey: "k", BaseURL: srv.URL}, "gpt-4")
	require.NoError(t, err)
	_, err = a.ProcessPrompt(context.Background(), NewAssistantInput("", "hi", nil, 0))
	require.NoError(t, err)

	temp, ok := body["temperature"]
	require.True(t, ok)
	assert.Equal(t, 0.0, temp)
}

func TestOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAI(config.OpenAIConfig{}, "gpt-4")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOpenAIServerErrorIsReturned(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":{"message":"down"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	a, err := NewOpenAI(config.OpenAIConfig{APIKey: "k", BaseURL: srv.URL}, "gpt-4")
	require.NoError(t, err)
	_, err = a.ProcessPrompt(context.Background(), NewAssistantInput("", "hi", nil, 0))
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

type fakeChat struct {
	req    api.ChatRequest
	chunks []string
}

func (f *fakeChat) Chat(_ context.Context, req api.ChatRequest, fn api.ChatResponseFunc) error {
	f.req = req
	for _, c := range f.chunks {
		if err := fn(api.ChatResponse{Message: api.Message{Role: "assistant", Content: c}}); err != nil {
			return err
		}
	}
	return nil
}

func TestOllamaCollectsJSON(t *testing.T) {
	chat := &fakeChat{chunks: []string{`{"summary":`, `"ok"}`}}
	a := NewOllama(chat, "llama3.1")

	out, err := a.ProcessPrompt(context.Background(), NewAssistantInput("sys", "user", testTool(t), 0.3))
	require.NoError(t, err)
	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, `{"summary":"ok"}`, out.ToolCalls[0].Arguments)

	assert.Equal(t, "json", chat.req.Format)
	assert.Equal(t, "llama3.1", chat.req.Model)
	require.Len(t, chat.req.Messages, 3)
	assert.Contains(t, chat.req.Messages[0].Content, `"summary"`)
	assert.False(t, *chat.req.Stream)
}

func TestToGenaiSchema(t *testing.T) {
	s := ToGenaiSchema(testTool(t))
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t, []string{"summary", "decisions"}, s.Required)
	assert.Equal(t, genai.TypeArray, s.Properties["decisions"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["decisions"].Items.Type)
	assert.Equal(t, []string{"a", "b"}, s.Properties["status"].Enum)
	assert.Equal(t, "enum", s.Properties["status"].Format)
}

func TestSplitSystem(t *testing.T) {
	in := NewAssistantInput("a", "b", nil, 0)
	sys, rest := SplitSystem(in.Msgs)
	assert.Equal(t, "a", sys)
	require.Len(t, rest, 1)
	assert.Equal(t, "b", rest[0].Content)
	assert.False(t, in.ForceTool)
}
