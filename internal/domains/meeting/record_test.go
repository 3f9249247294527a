package meeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func completeTask() Task {
	return Task{
		Title:       "API",
		Description: "Спроектировать API телеметрии",
		Essence:     "Новый API",
		Assignee:    "Иванов",
		Due:         Unspecified,
	}
}

func TestNewEmptyRecord(t *testing.T) {
	r := NewEmptyRecord("   ", "")
	assert.Equal(t, SummaryNotAnalysed, r.Summary)
	assert.NotNil(t, r.Tasks)
	assert.NotNil(t, r.Hypotheses)
	assert.NotNil(t, r.Decisions)
	assert.NotNil(t, r.Participants)
	assert.NotNil(t, r.Absent)
	assert.Empty(t, r.Tasks)

	failed := NewEmptyRecord("text", "boom")
	assert.Equal(t, "Ошибка при создании резюме: boom", failed.Summary)
	assert.Equal(t, "text", failed.Transcript)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   bool
	}{
		{"empty summary", Record{}, false},
		{"summary only", Record{Summary: "ok"}, true},
		{"complete task", Record{Summary: "ok", Tasks: []Task{completeTask()}}, true},
		{"sentinel counts as populated", Record{Summary: "ok", Tasks: []Task{{
			Title: "t", Description: UnspecifiedNeuter, Essence: "e", Assignee: Unassigned, Due: Unspecified,
		}}}, true},
		{"missing due", Record{Summary: "ok", Tasks: []Task{completeTask(), {Title: "t", Description: "d", Essence: "e", Assignee: "a"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.record))
		})
	}
}

func TestCheckReportsTaskIndex(t *testing.T) {
	r := Record{Summary: "ok", Tasks: []Task{completeTask(), {Title: "t"}}}
	issues := Check(r)
	assert.Len(t, issues, 4)
	assert.Equal(t, 2, issues[0].TaskIndex)
	assert.Equal(t, "task 2: missing description", issues[0].String())
}

func TestNormalize(t *testing.T) {
	r := Record{Summary: "x"}.Normalize()
	assert.NotNil(t, r.Tasks)
	assert.NotNil(t, r.Absent)
}

func TestIsUnspecified(t *testing.T) {
	assert.True(t, IsUnspecified(""))
	assert.True(t, IsUnspecified(" Не указан "))
	assert.True(t, IsUnspecified(Unassigned))
	assert.False(t, IsUnspecified("Петров"))
}

func TestHypothesisStatus(t *testing.T) {
	assert.True(t, Accepted.Known())
	assert.False(t, HypothesisStatus("maybe").Known())
	assert.Len(t, HypothesisStatuses(), 3)
}
