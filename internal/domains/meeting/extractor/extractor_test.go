package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/pkg/Logger"
	"github.com/xpanvictor/meetsec/pkg/assistant"
)

type fakeEngine struct {
	out   *assistant.AssistantOutput
	err   error
	calls int
	last  assistant.AssistantInput
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) ProcessPrompt(_ context.Context, in assistant.AssistantInput) (*assistant.AssistantOutput, error) {
	f.calls++
	f.last = in
	return f.out, f.err
}

const payload = `{
  "summary": "Обсудили телеметрию.",
  "tasks": [{"название": "API", "описание": "Сделать API", "суть_задачи": "Новый API",
             "кто_выполняет": "Иванов", "срок": "2024-01-15"}],
  "hypotheses": [{"hypothesis": "Кэш ускорит отчёты", "status": "принята", "related_area": "backend"},
                 {"hypothesis": "Сжатие", "status": "unknown"}],
  "decisions": ["Использовать Go", "  "],
  "participants": ["Иванов И.И.", "Петров П.П."],
  "president": "Иванов И.И.",
  "secretary": "Петров П.П.",
  "absent": []
}`

func newExtractor(t *testing.T, engine assistant.Assistant) Extractor {
	t.Helper()
	e, err := New(engine, Options{Model: "gpt-4", Temperature: 0.3}, Logger.NewNop())
	require.NoError(t, err)
	return e
}

func TestExtractBlankTranscriptSkipsEngine(t *testing.T) {
	engine := &fakeEngine{}
	rec := newExtractor(t, engine).Extract(context.Background(), " \n\t ")

	assert.Equal(t, 0, engine.calls)
	assert.Equal(t, meeting.SummaryNotAnalysed, rec.Summary)
	assert.NotNil(t, rec.Tasks)
	assert.Empty(t, rec.Tasks)
	assert.Empty(t, rec.Decisions)
	assert.Empty(t, rec.Hypotheses)
	assert.Empty(t, rec.Participants)
}

func TestExtractFromToolCall(t *testing.T) {
	engine := &fakeEngine{out: &assistant.AssistantOutput{
		ToolCalls: []assistant.ToolCall{{Name: ToolName, Arguments: payload}},
	}}
	rec := newExtractor(t, engine).Extract(context.Background(), "стенограмма")

	assert.Equal(t, 1, engine.calls)
	assert.True(t, engine.last.ForceTool)
	require.NotNil(t, engine.last.Tool)
	assert.Equal(t, ToolName, engine.last.Tool.Name)
	assert.Equal(t, 0.3, engine.last.Temperature)
	assert.Equal(t, "gpt-4", engine.last.Model.Name)
	require.Len(t, engine.last.Msgs, 2)
	assert.Contains(t, engine.last.Msgs[0].Content, "созвучные")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(engine.last.Msgs[1].Content), "стенограмма"))

	assert.Equal(t, "стенограмма", rec.Transcript)
	assert.Equal(t, "Обсудили телеметрию.", rec.Summary)
	require.Len(t, rec.Tasks, 1)
	assert.Equal(t, meeting.Task{Title: "API", Description: "Сделать API", Essence: "Новый API", Assignee: "Иванов", Due: "2024-01-15"}, rec.Tasks[0])
	require.Len(t, rec.Hypotheses, 2)
	assert.Equal(t, meeting.Accepted, rec.Hypotheses[0].Status)
	assert.Equal(t, meeting.NeedsVerification, rec.Hypotheses[1].Status)
	assert.Equal(t, []string{"Использовать Go"}, rec.Decisions)
	assert.NotNil(t, rec.Absent)
	assert.True(t, rec.Valid)
}

func TestExtractFromMessageText(t *testing.T) {
	engine := &fakeEngine{out: &assistant.AssistantOutput{
		Response: assistant.AssistantMessage{Content: "Вот результат:\n```json\n" + payload + "\n```"},
	}}
	rec := newExtractor(t, engine).Extract(context.Background(), "текст")
	assert.Equal(t, "Обсудили телеметрию.", rec.Summary)
	assert.Len(t, rec.Tasks, 1)
}

func TestExtractEngineErrorDegrades(t *testing.T) {
	engine := &fakeEngine{err: errors.New("quota exceeded")}
	rec := newExtractor(t, engine).Extract(context.Background(), "текст")

	assert.Equal(t, "Ошибка при создании резюме: quota exceeded", rec.Summary)
	assert.Equal(t, "текст", rec.Transcript)
	assert.Empty(t, rec.Tasks)
}

func TestExtractMalformedPayloadDegrades(t *testing.T) {
	engine := &fakeEngine{out: &assistant.AssistantOutput{
		ToolCalls: []assistant.ToolCall{{Name: ToolName, Arguments: `{"summary": 12`}},
	}}
	rec := newExtractor(t, engine).Extract(context.Background(), "текст")

	assert.True(t, strings.HasPrefix(rec.Summary, meeting.SummaryErrorPrefix))
	assert.Contains(t, rec.Summary, ErrMalformedPayload.Error())
	assert.Equal(t, 1, engine.calls)
}

func TestExtractNoPayloadDegrades(t *testing.T) {
	engine := &fakeEngine{out: &assistant.AssistantOutput{
		Response: assistant.AssistantMessage{Content: "не могу помочь"},
	}}
	rec := newExtractor(t, engine).Extract(context.Background(), "текст")
	assert.Equal(t, meeting.SummaryErrorPrefix+ErrNoPayload.Error(), rec.Summary)
}

func TestExtractFlagsIncompleteTask(t *testing.T) {
	engine := &fakeEngine{out: &assistant.AssistantOutput{
		ToolCalls: []assistant.ToolCall{{Arguments: `{"summary":"ok","tasks":[{"название":"A"}]}`}},
	}}
	rec := newExtractor(t, engine).Extract(context.Background(), "текст")
	assert.False(t, rec.Valid)
	assert.Len(t, rec.Tasks, 1)
	assert.NotNil(t, rec.Participants)
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`x {"a":"}"} y`, `{"a":"}"}`, true},
		{`{bad} {"b":1}`, `{"b":1}`, true},
		{`{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{`no json`, "", false},
		{`{"open":`, "", false},
	}
	for _, tt := range tests {
		got, ok := firstJSONObject(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestBuildSchemaRequiresAllTaskFields(t *testing.T) {
	tool, err := BuildSchema()
	require.NoError(t, err)
	assert.Equal(t, ToolName, tool.Name)
	assert.Len(t, tool.ToolFunction.RequiredProps, 8)

	tasks := tool.ToolFunction.Parameters.Properties["tasks"]
	require.NotNil(t, tasks.Items)
	assert.ElementsMatch(t, []string{keyTitle, keyDescription, keyEssence, keyAssignee, keyDue}, tasks.Items.Required)

	status := tool.ToolFunction.Parameters.Properties["hypotheses"].Items.Properties["status"]
	assert.Equal(t, meeting.HypothesisStatuses(), status.Enum)
}
