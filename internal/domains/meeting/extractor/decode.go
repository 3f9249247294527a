package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/pkg/assistant"
)

var (
	ErrNoPayload        = errors.New("no structured payload in response")
	ErrMalformedPayload = errors.New("malformed structured payload")
)

type wireTask struct {
	Title       string `json:"название"`
	Description string `json:"описание"`
	Essence     string `json:"суть_задачи"`
	Assignee    string `json:"кто_выполняет"`
	Due         string `json:"срок"`
}

type wireHypothesis struct {
	Hypothesis  string `json:"hypothesis"`
	Status      string `json:"status"`
	RelatedArea string `json:"related_area"`
}

type wireAnalysis struct {
	Summary      string           `json:"summary"`
	Tasks        []wireTask       `json:"tasks"`
	Hypotheses   []wireHypothesis `json:"hypotheses"`
	Decisions    []string         `json:"decisions"`
	Participants []string         `json:"participants"`
	President    string           `json:"president"`
	Secretary    string           `json:"secretary"`
	Absent       []string         `json:"absent"`
}

// FirstPayload returns the first structured payload of a response: the
// arguments of the first tool call, or else the first JSON object embedded
// in the message text.
func FirstPayload(out *assistant.AssistantOutput) (string, error) {
	if out == nil {
		return "", ErrNoPayload
	}
	for _, tc := range out.ToolCalls {
		if strings.TrimSpace(tc.Arguments) != "" {
			return tc.Arguments, nil
		}
	}
	if obj, ok := firstJSONObject(out.Response.Content); ok {
		return obj, nil
	}
	return "", ErrNoPayload
}

// firstJSONObject scans for the first balanced {...} block, honouring strings.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	for start >= 0 {
		depth, inString, escaped := 0, false, false
		for i := start; i < len(s); i++ {
			c := s[i]
			if inString {
				switch {
				case escaped:
					escaped = false
				case c == '\\':
					escaped = true
				case c == '"':
					inString = false
				}
				continue
			}
			switch c {
			case '"':
				inString = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					candidate := s[start : i+1]
					if json.Valid([]byte(candidate)) {
						return candidate, true
					}
					i = len(s)
				}
			}
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// Decode parses a payload into a record. The transcript is attached as is.
func Decode(transcript, payload string) (meeting.Record, error) {
	var w wireAnalysis
	dec := json.NewDecoder(strings.NewReader(payload))
	if err := dec.Decode(&w); err != nil {
		return meeting.Record{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	rec := meeting.Record{
		Transcript:   transcript,
		Summary:      strings.TrimSpace(w.Summary),
		Tasks:        make([]meeting.Task, 0, len(w.Tasks)),
		Hypotheses:   make([]meeting.Hypothesis, 0, len(w.Hypotheses)),
		Decisions:    trimAll(w.Decisions),
		Participants: trimAll(w.Participants),
		President:    strings.TrimSpace(w.President),
		Secretary:    strings.TrimSpace(w.Secretary),
		Absent:       trimAll(w.Absent),
	}
	for _, t := range w.Tasks {
		rec.Tasks = append(rec.Tasks, meeting.Task{
			Title:       strings.TrimSpace(t.Title),
			Description: strings.TrimSpace(t.Description),
			Essence:     strings.TrimSpace(t.Essence),
			Assignee:    strings.TrimSpace(t.Assignee),
			Due:         strings.TrimSpace(t.Due),
		})
	}
	for _, h := range w.Hypotheses {
		status := meeting.HypothesisStatus(strings.TrimSpace(h.Status))
		if !status.Known() {
			status = meeting.NeedsVerification
		}
		rec.Hypotheses = append(rec.Hypotheses, meeting.Hypothesis{
			Statement:   strings.TrimSpace(h.Hypothesis),
			Status:      status,
			RelatedArea: strings.TrimSpace(h.RelatedArea),
		})
	}
	return rec.Normalize(), nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
