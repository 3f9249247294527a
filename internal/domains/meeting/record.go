package meeting

import (
	"strings"
)

// Sentinel strings are part of the record contract: the protocol document and
// the tracker publisher match on them verbatim.
const (
	Unspecified        = "Не указан"
	UnspecifiedNeuter  = "Не указано"
	Unassigned         = "Не назначен"
	NoData             = "- данные не указаны -"
	SummaryNotAnalysed = "Анализ не выполнен"
	SummaryErrorPrefix = "Ошибка при создании резюме: "
)

type HypothesisStatus string

const (
	NeedsVerification HypothesisStatus = "требует проверки"
	Accepted          HypothesisStatus = "принята"
	Rejected          HypothesisStatus = "отклонена"
)

func HypothesisStatuses() []string {
	return []string{string(NeedsVerification), string(Accepted), string(Rejected)}
}

func (s HypothesisStatus) Known() bool {
	switch s {
	case NeedsVerification, Accepted, Rejected:
		return true
	}
	return false
}

type Task struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Essence     string `json:"essence"`
	Assignee    string `json:"assignee"`
	Due         string `json:"due"`
}

// Fields exposes the task by field name for table rendering.
func (t Task) Fields() map[string]string {
	return map[string]string{
		"title":       t.Title,
		"description": t.Description,
		"essence":     t.Essence,
		"assignee":    t.Assignee,
		"due":         t.Due,
	}
}

// MissingFields lists required fields left empty.
func (t Task) MissingFields() []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"title", t.Title},
		{"description", t.Description},
		{"essence", t.Essence},
		{"assignee", t.Assignee},
		{"due", t.Due},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

type Hypothesis struct {
	Statement   string           `json:"hypothesis"`
	Status      HypothesisStatus `json:"status"`
	RelatedArea string           `json:"related_area,omitempty"`
}

func (h Hypothesis) Fields() map[string]string {
	return map[string]string{
		"hypothesis":   h.Statement,
		"status":       string(h.Status),
		"related_area": h.RelatedArea,
	}
}

// Record is the structured result of one meeting analysis. It is built once by
// the extractor and only read afterwards.
type Record struct {
	Transcript   string       `json:"transcript"`
	Summary      string       `json:"summary"`
	Tasks        []Task       `json:"tasks"`
	Hypotheses   []Hypothesis `json:"hypotheses"`
	Decisions    []string     `json:"decisions"`
	Participants []string     `json:"participants"`
	President    string       `json:"president"`
	Secretary    string       `json:"secretary"`
	Absent       []string     `json:"absent"`
	Valid        bool         `json:"valid"`
}

// NewEmptyRecord is the degraded record returned when nothing could be
// extracted. An empty errMsg means the transcript itself was empty.
func NewEmptyRecord(transcript, errMsg string) Record {
	summary := SummaryNotAnalysed
	if errMsg != "" {
		summary = SummaryErrorPrefix + errMsg
	}
	return Record{
		Transcript:   transcript,
		Summary:      summary,
		Tasks:        []Task{},
		Hypotheses:   []Hypothesis{},
		Decisions:    []string{},
		Participants: []string{},
		Absent:       []string{},
	}
}

// Normalize replaces nil lists with empty ones.
func (r Record) Normalize() Record {
	if r.Tasks == nil {
		r.Tasks = []Task{}
	}
	if r.Hypotheses == nil {
		r.Hypotheses = []Hypothesis{}
	}
	if r.Decisions == nil {
		r.Decisions = []string{}
	}
	if r.Participants == nil {
		r.Participants = []string{}
	}
	if r.Absent == nil {
		r.Absent = []string{}
	}
	return r
}

// IsUnspecified reports whether s is empty or one of the "not given" sentinels.
func IsUnspecified(s string) bool {
	switch strings.TrimSpace(s) {
	case "", Unspecified, UnspecifiedNeuter, Unassigned:
		return true
	}
	return false
}
