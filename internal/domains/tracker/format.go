package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/xpanvictor/meetsec/internal/domains/meeting"
)

// Formatter renders task titles and bodies for a tracker. Backends may
// implement it to override the plain-text layout.
type Formatter interface {
	Summary(rec meeting.Record, now time.Time) (title, body string)
	Task(t meeting.Task, index int) (title, body string)
}

// TaskTitle returns the task title, or "Задача N" for an untitled task.
func TaskTitle(t meeting.Task, index int) string {
	if s := strings.TrimSpace(t.Title); s != "" {
		return s
	}
	return fmt.Sprintf("Задача %d", index)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func joinOr(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}

// PlainFormatter is the emoji plain-text layout used by Weeek.
type PlainFormatter struct{}

func (PlainFormatter) Summary(rec meeting.Record, now time.Time) (string, string) {
	var b strings.Builder
	b.WriteString("Результаты совещания\n\n")
	fmt.Fprintf(&b, "👥 Председатель: %s\n", orDefault(rec.President, "Не определен"))
	fmt.Fprintf(&b, "👥 Секретарь: %s\n\n", orDefault(rec.Secretary, "Не определен"))
	fmt.Fprintf(&b, "📝 Резюме %s\n\n", rec.Summary)

	fmt.Fprintf(&b, "✅ Принятые решения (%d)\n", len(rec.Decisions))
	if len(rec.Decisions) == 0 {
		b.WriteString("Решения не принимались\n")
	}
	for _, d := range rec.Decisions {
		fmt.Fprintf(&b, "• %s\n", d)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "🔬 Гипотезы для проверки (%d)\n", len(rec.Hypotheses))
	if len(rec.Hypotheses) == 0 {
		b.WriteString("Гипотезы не выдвигались\n")
	}
	for _, h := range rec.Hypotheses {
		fmt.Fprintf(&b, "• %s - %s\n", h.Statement, orDefault(string(h.Status), string(meeting.NeedsVerification)))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "👥 Участники\n%s\n\n", joinOr(rec.Participants, "Не определены"))
	fmt.Fprintf(&b, "👥 Отсутствовавшие\n%s\n\n", joinOr(rec.Absent, "Не определены"))

	b.WriteString("---\n🤖 Автоматически создано на основе анализа транскрипции\n")
	fmt.Fprintf(&b, "📅 Дата создания: %s", now.Format("02.01.2006 в 15:04"))

	return "📋 Сводка совещания от " + now.Format(dueLayout), b.String()
}

func (PlainFormatter) Task(t meeting.Task, index int) (string, string) {
	body := fmt.Sprintf("📋 %s\n\n📝 Подробное описание:\n%s\n\n👤 Ответственный: %s\n📅 Срок: %s\n\n---\n🤖 Автоматически извлечено из транскрипции совещания",
		orDefault(t.Essence, "Суть не указана"),
		orDefault(t.Description, "Описание не предоставлено"),
		orDefault(t.Assignee, meeting.Unassigned),
		orDefault(t.Due, meeting.Unspecified),
	)
	return TaskTitle(t, index), body
}
