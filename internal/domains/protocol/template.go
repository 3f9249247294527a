package protocol

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"

	"github.com/beevik/etree"
)

const (
	nsMain          = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`
	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`
)

type Run struct {
	Text string
	Bold bool
}

// DocBuilder writes minimal WordprocessingML packages.
type DocBuilder struct {
	doc  *etree.Document
	body *etree.Element
}

func NewDocBuilder() *DocBuilder {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsMain)
	return &DocBuilder{doc: doc, body: root.CreateElement("w:body")}
}

func addRun(p *etree.Element, run Run) {
	r := p.CreateElement("w:r")
	if run.Bold {
		r.CreateElement("w:rPr").CreateElement("w:b")
	}
	t := r.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(run.Text)
}

func (b *DocBuilder) Paragraph(runs ...Run) *DocBuilder {
	p := b.body.CreateElement("w:p")
	for _, r := range runs {
		addRun(p, r)
	}
	return b
}

func (b *DocBuilder) Text(text string) *DocBuilder {
	return b.Paragraph(Run{Text: text})
}

func (b *DocBuilder) Heading(text string) *DocBuilder {
	p := b.body.CreateElement("w:p")
	p.CreateElement("w:pPr").CreateElement("w:jc").CreateAttr("w:val", "center")
	addRun(p, Run{Text: text, Bold: true})
	return b
}

// Table adds a bordered table; the first row is rendered bold.
func (b *DocBuilder) Table(rows ...[]string) *DocBuilder {
	tbl := b.body.CreateElement("w:tbl")
	pr := tbl.CreateElement("w:tblPr")
	w := pr.CreateElement("w:tblW")
	w.CreateAttr("w:w", "5000")
	w.CreateAttr("w:type", "pct")
	borders := pr.CreateElement("w:tblBorders")
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		e := borders.CreateElement("w:" + side)
		e.CreateAttr("w:val", "single")
		e.CreateAttr("w:sz", "4")
		e.CreateAttr("w:space", "0")
		e.CreateAttr("w:color", "auto")
	}

	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	grid := tbl.CreateElement("w:tblGrid")
	for i := 0; i < cols; i++ {
		grid.CreateElement("w:gridCol")
	}

	for i, r := range rows {
		tr := tbl.CreateElement("w:tr")
		for _, text := range r {
			tc := tr.CreateElement("w:tc")
			addRun(tc.CreateElement("w:p"), Run{Text: text, Bold: i == 0 && len(rows) > 1})
		}
	}
	return b
}

// Build packages the document. The body gets a trailing section properties
// element as Word expects.
func (b *DocBuilder) Build() ([]byte, error) {
	b.body.CreateElement("w:sectPr")
	docXML, err := b.doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, part := range []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{documentPart, docXML},
	} {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: part.name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(part.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DefaultTemplate is the protocol layout used when no template file is
// configured.
func DefaultTemplate() ([]byte, error) {
	return NewDocBuilder().
		Heading("ПРОТОКОЛ").
		Heading("технического совещания {number}").
		Text("Дата: {date}").
		Text("Председатель: {president}").
		Text("Секретарь: {secretary}").
		Text("Присутствовали ({count:participants}):").
		Table([]string{"{tableNum:participants}"}).
		Text("Отсутствовали ({count:absent}):").
		Table([]string{"{tableNum:absent}"}).
		Heading("Краткое содержание").
		Text("{summary}").
		Heading("Принятые решения ({count:decisions})").
		Table([]string{"№", "Решение"}, []string{"{tableBig:decisions}", ""}).
		Heading("Поручения ({count:tasks})").
		Table([]string{"№", "Суть задачи", "Исполнитель", "Срок"}, []string{"{tableBig:tasks}", "", "", ""}).
		Heading("Гипотезы ({count:hypotheses})").
		Table([]string{"№", "Гипотеза", "Область", "Статус"}, []string{"{tableBig:hypotheses}", "", "", ""}).
		Text("Председатель ____________ {president}").
		Text("Секретарь ____________ {secretary}").
		Build()
}
