package protocol

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/beevik/etree"
)

const documentPart = "word/document.xml"

var headerFooterRe = regexp.MustCompile(`^word/(header|footer)\d*\.xml$`)

func isTemplatedPart(name string) bool {
	return name == documentPart || headerFooterRe.MatchString(name)
}

// rewriteParts copies the package, passing every templated part through fn.
func rewriteParts(template []byte, fn func(name string, doc *etree.Document) error) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	hasDocument := false
	for _, f := range zr.File {
		if f.Name == documentPart {
			hasDocument = true
			break
		}
	}
	if !hasDocument {
		return nil, fmt.Errorf("%w: %s missing", ErrInvalidTemplate, documentPart)
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, f := range zr.File {
		data, err := readPart(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, f.Name, err)
		}

		if isTemplatedPart(f.Name) {
			doc := etree.NewDocument()
			if err := doc.ReadFromBytes(data); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, f.Name, err)
			}
			if err := fn(f.Name, doc); err != nil {
				return nil, err
			}
			if data, err = doc.WriteToBytes(); err != nil {
				return nil, fmt.Errorf("failed to serialize %s: %w", f.Name, err)
			}
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   f.Method,
			Modified: f.Modified,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize document: %w", err)
	}
	return out.Bytes(), nil
}

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ReadPart returns one part of a DOCX package.
func ReadPart(docx []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	for _, f := range zr.File {
		if f.Name == name {
			return readPart(f)
		}
	}
	return nil, fmt.Errorf("%w: %s missing", ErrInvalidTemplate, name)
}
