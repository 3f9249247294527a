package protocol

import (
	"strings"

	"github.com/beevik/etree"
)

func runs(p *etree.Element) []*etree.Element {
	return p.SelectElements("w:r")
}

func runText(r *etree.Element) string {
	var b strings.Builder
	for _, c := range r.ChildElements() {
		switch c.Tag {
		case "t":
			b.WriteString(c.Text())
		case "tab":
			b.WriteByte('\t')
		case "br", "cr":
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func paragraphText(p *etree.Element) string {
	var b strings.Builder
	for _, r := range runs(p) {
		b.WriteString(runText(r))
	}
	return b.String()
}

// clearRun drops everything but the run properties.
func clearRun(r *etree.Element) {
	for _, c := range r.ChildElements() {
		if c.Tag != "rPr" {
			r.RemoveChild(c)
		}
	}
}

func writeRunText(r *etree.Element, text string) {
	clearRun(r)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			r.CreateElement("w:br")
		}
		for j, chunk := range strings.Split(line, "\t") {
			if j > 0 {
				r.CreateElement("w:tab")
			}
			if chunk == "" {
				continue
			}
			t := r.CreateElement("w:t")
			t.CreateAttr("xml:space", "preserve")
			t.SetText(chunk)
		}
	}
}

// setParagraphText puts text into the first run, keeping its formatting, and
// empties all later runs.
func setParagraphText(p *etree.Element, text string) {
	rs := runs(p)
	if len(rs) == 0 {
		r := p.CreateElement("w:r")
		writeRunText(r, text)
		return
	}
	writeRunText(rs[0], text)
	for _, r := range rs[1:] {
		clearRun(r)
	}
}

// substituteParagraph rewrites p when it holds at least one placeholder.
func (c renderContext) substituteParagraph(p *etree.Element) {
	text := paragraphText(p)
	if !hasPlaceholder(text) {
		return
	}
	setParagraphText(p, c.substitute(text))
}

// processBlock walks body-like containers: body, headers, footers, content
// controls and table cells.
func (c renderContext) processBlock(container *etree.Element) {
	for _, child := range container.ChildElements() {
		switch child.Tag {
		case "p":
			c.substituteParagraph(child)
		case "tbl":
			c.processTable(child)
		case "sdt":
			if content := child.SelectElement("w:sdtContent"); content != nil {
				c.processBlock(content)
			}
		}
	}
}
