package tracker

import (
	"strings"

	"github.com/xpanvictor/meetsec/internal/domains/meeting"
)

// Assignable reports whether name refers to a person rather than a sentinel.
func Assignable(name string) bool {
	return !meeting.IsUnspecified(name)
}

// ResolveMember finds name among members by email, first name, last name or
// "first last", case-insensitively. The first match wins.
func ResolveMember(name string, members []Member) (Member, bool) {
	if !Assignable(name) {
		return Member{}, false
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, m := range members {
		first := strings.ToLower(m.FirstName)
		last := strings.ToLower(m.LastName)
		full := strings.TrimSpace(first + " " + last)
		switch {
		case m.Email != "" && strings.ToLower(m.Email) == want:
			return m, true
		case first != "" && first == want,
			last != "" && last == want,
			full != "" && full == want:
			return m, true
		}
	}
	return Member{}, false
}
