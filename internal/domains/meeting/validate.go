package meeting

import (
	"fmt"
	"strings"
)

// Issue describes why a record failed validation.
type Issue struct {
	TaskIndex int // 1-based, 0 for record-level issues
	Field     string
}

func (i Issue) String() string {
	if i.TaskIndex == 0 {
		return fmt.Sprintf("missing %s", i.Field)
	}
	return fmt.Sprintf("task %d: missing %s", i.TaskIndex, i.Field)
}

// Check returns every validation issue of the record.
func Check(r Record) []Issue {
	var issues []Issue
	if strings.TrimSpace(r.Summary) == "" {
		issues = append(issues, Issue{Field: "summary"})
	}
	for i, t := range r.Tasks {
		for _, f := range t.MissingFields() {
			issues = append(issues, Issue{TaskIndex: i + 1, Field: f})
		}
	}
	return issues
}

// Validate is advisory: a false result marks a degraded record that callers
// may still use.
func Validate(r Record) bool {
	return len(Check(r)) == 0
}
