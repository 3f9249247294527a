package protocol

import (
	"errors"
	"time"

	"github.com/beevik/etree"
	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/pkg/Logger"
)

var ErrInvalidTemplate = errors.New("invalid protocol template")

// Assembler projects meeting records onto DOCX templates. It holds no
// per-render state and is safe for concurrent use.
type Assembler struct {
	now    func() time.Time
	logger *Logger.Logger
}

type Option func(*Assembler)

// WithClock fixes the time used for the derived date and number fields.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

func NewAssembler(logger *Logger.Logger, opts ...Option) *Assembler {
	a := &Assembler{now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assembler) context(rec meeting.Record) renderContext {
	return renderContext{rec: rec, now: a.now()}
}

// Render fills template with rec and returns the new document. The record is
// not modified.
func (a *Assembler) Render(template []byte, rec meeting.Record) ([]byte, error) {
	c := a.context(rec)
	out, err := rewriteParts(template, func(name string, doc *etree.Document) error {
		root := doc.Root()
		if root == nil {
			return nil
		}
		if body := root.SelectElement("w:body"); body != nil {
			c.processBlock(body)
			return nil
		}
		c.processBlock(root)
		return nil
	})
	if err != nil {
		a.logger.Errorf("protocol render failed: %v", err)
		return nil, err
	}
	a.logger.Infof("protocol rendered: %d bytes", len(out))
	return out, nil
}

// Substitute resolves the placeholders of a plain string.
func (a *Assembler) Substitute(text string, rec meeting.Record) string {
	return a.context(rec).substitute(text)
}

// GetValue resolves key against rec; unknown keys yield the no-data sentinel.
func (a *Assembler) GetValue(rec meeting.Record, key string) Value {
	v, ok := a.context(rec).lookup(key)
	if !ok {
		return scalar(meeting.NoData)
	}
	return v
}
