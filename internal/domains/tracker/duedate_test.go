package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDue(t *testing.T) {
	now := time.Date(2025, time.January, 30, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"2025-06-15", "2025-06-15", true},
		{"15.06.2025", "2025-06-15", true},
		{"5.6.2025", "2025-06-05", true},
		{"15/06/2025", "2025-06-15", true},
		{" 2025-02-01 ", "2025-02-01", true},
		{"завтра", "2025-01-31", true},
		{"Послезавтра", "2025-02-01", true},
		{"сделать через неделю", "2025-02-06", true},
		{"через две недели", "2025-02-13", true},
		{"через месяц", "2025-03-01", true},
		{"tomorrow", "2025-01-31", true},
		{"the day after tomorrow", "2025-02-01", true},
		{"in two weeks", "2025-02-13", true},
		{"Не указан", "", false},
		{"Не назначен", "", false},
		{"", "", false},
		{"к концу квартала", "", false},
		{"31.02.2025", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeDue(tt.raw, now)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestRelativePhrasesLongestFirst(t *testing.T) {
	for i := 1; i < len(relativePhrases); i++ {
		assert.GreaterOrEqual(t, len(relativePhrases[i-1]), len(relativePhrases[i]))
	}
}
