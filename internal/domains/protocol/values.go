package protocol

import (
	"strconv"
	"strings"
	"time"

	"github.com/xpanvictor/meetsec/internal/domains/meeting"
)

type valueKind int

const (
	scalarValue valueKind = iota
	listValue
)

// Item is one element of a list field. Fields is nil for plain string lists.
type Item struct {
	Text   string
	Fields map[string]string
}

// Value is the resolved content of a placeholder key.
type Value struct {
	kind  valueKind
	Text  string
	Items []Item
}

func scalar(s string) Value { return Value{kind: scalarValue, Text: s} }

func (v Value) IsList() bool { return v.kind == listValue }

// String renders the value for a plain {key} placeholder. Empty values render
// as the no-data sentinel.
func (v Value) String() string {
	if v.kind == scalarValue {
		if strings.TrimSpace(v.Text) == "" {
			return meeting.NoData
		}
		return v.Text
	}
	if len(v.Items) == 0 {
		return meeting.NoData
	}
	parts := make([]string, 0, len(v.Items))
	for _, it := range v.Items {
		parts = append(parts, it.Text)
	}
	return strings.Join(parts, ", ")
}

func (v Value) Count() string { return strconv.Itoa(len(v.Items)) }

func stringList(in []string) Value {
	items := make([]Item, 0, len(in))
	for _, s := range in {
		items = append(items, Item{Text: s})
	}
	return Value{kind: listValue, Items: items}
}

type renderContext struct {
	rec meeting.Record
	now time.Time
}

type accessor func(c renderContext) Value

// fields maps placeholder keys to record accessors. Keys outside this table
// resolve to the no-data sentinel.
var fields = map[string]accessor{
	"transcript":   func(c renderContext) Value { return scalar(c.rec.Transcript) },
	"summary":      func(c renderContext) Value { return scalar(c.rec.Summary) },
	"president":    func(c renderContext) Value { return scalar(c.rec.President) },
	"secretary":    func(c renderContext) Value { return scalar(c.rec.Secretary) },
	"decisions":    func(c renderContext) Value { return stringList(c.rec.Decisions) },
	"participants": func(c renderContext) Value { return stringList(c.rec.Participants) },
	"absent":       func(c renderContext) Value { return stringList(c.rec.Absent) },
	"tasks": func(c renderContext) Value {
		items := make([]Item, 0, len(c.rec.Tasks))
		for _, t := range c.rec.Tasks {
			items = append(items, Item{Text: t.Title, Fields: t.Fields()})
		}
		return Value{kind: listValue, Items: items}
	},
	"hypotheses": func(c renderContext) Value {
		items := make([]Item, 0, len(c.rec.Hypotheses))
		for _, h := range c.rec.Hypotheses {
			items = append(items, Item{Text: h.Statement, Fields: h.Fields()})
		}
		return Value{kind: listValue, Items: items}
	},
	"date":   func(c renderContext) Value { return scalar(FormatDate(c.now)) },
	"number": func(c renderContext) Value { return scalar(FormatNumber(c.now)) },
}

func (c renderContext) lookup(key string) (Value, bool) {
	get, ok := fields[key]
	if !ok {
		return Value{}, false
	}
	return get(c), true
}

// Keys lists every resolvable placeholder key.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	return keys
}
