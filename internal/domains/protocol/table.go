package protocol

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Column lookups for row-object expansion: primary field, then fallback.
var bigColumns = [][2]string{
	1: {"essence", "hypothesis"},
	2: {"assignee", "related_area"},
	3: {"due", "status"},
}

type expansion struct {
	modifier string
	key      string
	marker   string
	items    []Item
}

func cells(row *etree.Element) []*etree.Element {
	return row.SelectElements("w:tc")
}

func cellParagraphs(tc *etree.Element) []*etree.Element {
	return tc.SelectElements("w:p")
}

func nextSibling(el *etree.Element, tag string) *etree.Element {
	parent := el.Parent()
	if parent == nil {
		return nil
	}
	for i := el.Index() + 1; i < len(parent.Child); i++ {
		if e, ok := parent.Child[i].(*etree.Element); ok && e.Tag == tag {
			return e
		}
	}
	return nil
}

func (c renderContext) processTable(tbl *etree.Element) {
	row := tbl.SelectElement("w:tr")
	for row != nil {
		last := c.processRow(row)
		row = nextSibling(last, "tr")
	}
}

// findExpansion returns the first row marker bound to a list field.
func (c renderContext) findExpansion(row *etree.Element) (expansion, bool) {
	for _, tc := range cells(row) {
		for _, p := range cellParagraphs(tc) {
			for _, m := range expansionRe.FindAllStringSubmatch(paragraphText(p), -1) {
				v, ok := c.lookup(m[2])
				if ok && v.IsList() {
					return expansion{modifier: m[1], key: m[2], marker: m[0], items: v.Items}, true
				}
			}
		}
	}
	return expansion{}, false
}

// processRow handles one row and returns the last row it produced, so the
// caller resumes after any inserted clones.
func (c renderContext) processRow(row *etree.Element) *etree.Element {
	exp, ok := c.findExpansion(row)
	if !ok {
		c.substituteCells(row)
		return row
	}

	if len(exp.items) == 0 {
		c.fillRow(row, exp, -1)
		return row
	}

	pristine := row.Copy()
	parent := row.Parent()
	last := row
	c.fillRow(row, exp, 0)
	for i := 1; i < len(exp.items); i++ {
		clone := pristine.Copy()
		parent.InsertChildAt(last.Index()+1, clone)
		c.fillRow(clone, exp, i)
		last = clone
	}
	return last
}

func (c renderContext) substituteCells(row *etree.Element) {
	for _, tc := range cells(row) {
		c.processBlock(tc)
	}
}

// fillRow populates row with item idx; idx < 0 only clears the marker.
func (c renderContext) fillRow(row *etree.Element, exp expansion, idx int) {
	if exp.modifier == modTableBig && idx >= 0 {
		c.fillObjectRow(row, exp.items[idx], idx+1)
		return
	}

	replacement := ""
	if idx >= 0 {
		replacement = exp.items[idx].Text
	}
	for _, tc := range cells(row) {
		for _, child := range tc.ChildElements() {
			switch child.Tag {
			case "p":
				text := paragraphText(child)
				if !strings.Contains(text, exp.marker) {
					c.substituteParagraph(child)
					continue
				}
				parts := strings.Split(text, exp.marker)
				for i := range parts {
					parts[i] = c.substitute(parts[i])
				}
				setParagraphText(child, strings.Join(parts, replacement))
			case "tbl":
				c.processTable(child)
			}
		}
	}
}

func (c renderContext) fillObjectRow(row *etree.Element, item Item, n int) {
	for col, tc := range cells(row) {
		switch {
		case col == 0:
			setCellText(tc, strconv.Itoa(n))
		case col < len(bigColumns):
			setCellText(tc, objectColumn(item, col))
		default:
			c.processBlock(tc)
		}
	}
}

func objectColumn(item Item, col int) string {
	if item.Fields == nil {
		if col == 1 {
			return item.Text
		}
		return ""
	}
	primary, fallback := bigColumns[col][0], bigColumns[col][1]
	if v, ok := item.Fields[primary]; ok && v != "" {
		return v
	}
	return item.Fields[fallback]
}

// setCellText keeps the first paragraph (and its first run's formatting) and
// drops the rest of the cell content.
func setCellText(tc *etree.Element, text string) {
	ps := cellParagraphs(tc)
	if len(ps) == 0 {
		p := tc.CreateElement("w:p")
		setParagraphText(p, text)
		return
	}
	setParagraphText(ps[0], text)
	for _, p := range ps[1:] {
		tc.RemoveChild(p)
	}
}
