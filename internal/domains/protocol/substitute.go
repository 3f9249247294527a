package protocol

import (
	"regexp"

	"github.com/xpanvictor/meetsec/internal/domains/meeting"
)

const (
	modCount    = "count"
	modTableNum = "tableNum"
	modTableBig = "tableBig"
)

var (
	placeholderRe = regexp.MustCompile(`\{([\p{L}\p{N}_]+)(?::([\p{L}\p{N}_]+))?\}`)
	expansionRe   = regexp.MustCompile(`\{(tableNum|tableBig):([\p{L}\p{N}_]+)\}`)
)

// substitute resolves every placeholder of text in one pass. Row markers that
// reach this point are outside an expandable position and degrade to the
// no-data sentinel.
func (c renderContext) substitute(text string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(token string) string {
		m := placeholderRe.FindStringSubmatch(token)
		first, key := m[1], m[2]
		if key == "" {
			v, ok := c.lookup(first)
			if !ok {
				return meeting.NoData
			}
			return v.String()
		}

		v, ok := c.lookup(key)
		if ok && v.IsList() && first == modCount {
			return v.Count()
		}
		return meeting.NoData
	})
}

func hasPlaceholder(text string) bool {
	return placeholderRe.MatchString(text)
}
