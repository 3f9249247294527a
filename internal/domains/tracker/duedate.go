package tracker

import (
	"sort"
	"strings"
	"time"

	"github.com/xpanvictor/meetsec/internal/domains/meeting"
)

const dueLayout = "2006-01-02"

var dueFormats = []string{"2006-1-2", "2.1.2006", "2/1/2006"}

var relativeDue = map[string]int{
	"завтра":             1,
	"послезавтра":        2,
	"через неделю":       7,
	"через две недели":   14,
	"через месяц":        30,
	"tomorrow":           1,
	"day after tomorrow": 2,
	"in a week":          7,
	"in two weeks":       14,
	"in a month":         30,
}

// relativePhrases is ordered longest first so "послезавтра" wins over "завтра".
var relativePhrases = func() []string {
	out := make([]string, 0, len(relativeDue))
	for p := range relativeDue {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// NormalizeDue converts a free-form due date into YYYY-MM-DD. Relative
// phrases count calendar days from now. Anything else reports false.
func NormalizeDue(raw string, now time.Time) (string, bool) {
	s := strings.TrimSpace(raw)
	if meeting.IsUnspecified(s) {
		return "", false
	}

	for _, layout := range dueFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dueLayout), true
		}
	}

	lower := strings.ToLower(s)
	for _, phrase := range relativePhrases {
		if strings.Contains(lower, phrase) {
			return now.AddDate(0, 0, relativeDue[phrase]).Format(dueLayout), true
		}
	}
	return "", false
}
