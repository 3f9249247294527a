package extractor

import (
	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/pkg/assistant/adapters"
	toolsystem "github.com/xpanvictor/meetsec/pkg/tool_system"
)

const ToolName = "analyze_technical_meeting"

// Wire keys of a task object. The engine answers in the working language.
const (
	keyTitle       = "название"
	keyDescription = "описание"
	keyEssence     = "суть_задачи"
	keyAssignee    = "кто_выполняет"
	keyDue         = "срок"
)

// BuildSchema returns the function schema the engine has to fill.
func BuildSchema() (adapters.ContractTool, error) {
	task := toolsystem.NewObjectBuilder("Задача").
		AddStringParameter(keyTitle, "Название задачи (краткое и емкое)", true).
		AddStringParameter(keyDescription, "Подробное описание задачи с техническими деталями", true).
		AddStringParameter(keyEssence, "Краткая суть задачи в 1-2 предложениях, основная цель", true).
		AddStringParameter(keyAssignee, "Ответственный за выполнение (имя, должность или отдел)", true).
		AddStringParameter(keyDue, "Срок выполнения в формате YYYY-MM-DD, в текстовом формате "+
			"(завтра/послезавтра/через неделю/через две недели/через месяц) или строка \"Не указан\", "+
			"если в совещании не обговаривался", true)

	hypothesis := toolsystem.NewObjectBuilder("Гипотеза").
		AddStringParameter("hypothesis", "Описание гипотезы", true).
		AddStringParameter("status", "Статус гипотезы", true, meeting.HypothesisStatuses()...).
		AddStringParameter("related_area", "Связанная техническая область", false)

	return toolsystem.NewToolBuilder(ToolName,
		"Анализирует транскрипцию технического совещания и извлекает структурированную информацию").
		AddStringParameter("summary", "Краткое резюме совещания в 2-3 предложениях", true).
		AddObjectArrayParameter("tasks", "Список выявленных задач с полной информацией", true, task).
		AddObjectArrayParameter("hypotheses", "Список гипотез, требующих проверки", true, hypothesis).
		AddArrayParameter("decisions", "Список принятых решений", true,
			toolsystem.String("Описание принятого решения")).
		AddArrayParameter("participants", "Список участников совещания", true,
			toolsystem.String("Фамилия и инициалы участника")).
		AddStringParameter("president", "Фамилия и инициалы председателя совещания", true).
		AddStringParameter("secretary", "Фамилия и инициалы секретаря совещания", true).
		AddArrayParameter("absent", "Список отсутствовавших на совещании", true,
			toolsystem.String("Фамилия и инициалы отсутствовавшего")).
		Build()
}
