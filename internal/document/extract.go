package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/amishk599/atsmatch/internal/model"
)

// Extractor converts uploaded resumes to plain text.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor returns an Extractor. logger may be nil.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{logger: logger}
}

// Extract rewinds doc and returns its text. PDF pages are concatenated with no
// separator, so the last word of a page can run into the first word of the
// next. DOCX paragraphs are joined with a newline, blank paragraphs included.
func (e *Extractor) Extract(doc Document) (string, error) {
	switch doc.Format {
	case model.FormatPDF, model.FormatDOCX:
	default:
		return "", fmt.Errorf("%s: %w", doc.Name, model.ErrUnsupportedFormat)
	}

	data, err := doc.bytes()
	if err != nil {
		return "", err
	}

	var text string
	switch doc.Format {
	case model.FormatPDF:
		text, err = e.extractPDF(data)
	case model.FormatDOCX:
		text, err = extractDOCX(data)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", doc.Name, err)
	}

	e.logger.Debug("extracted resume text", "name", doc.Name, "format", doc.Format, "chars", len(text))
	return text, nil
}

func (e *Extractor) extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Scanned or image-only pages contribute nothing.
			e.logger.Debug("pdf page has no extractable text", "page", i, "error", err)
			continue
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	paragraphs, err := bodyParagraphs(doc.Editable().GetContent())
	if err != nil {
		return "", err
	}
	return strings.Join(paragraphs, "\n"), nil
}

// bodyParagraphs returns the text of each w:p that is a direct child of
// w:body, in document order. Paragraphs nested in tables, text boxes or other
// containers are not part of the body paragraph list.
func bodyParagraphs(documentXML string) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(documentXML))

	var (
		stack      []string
		paragraphs []string
		current    strings.Builder
		inPara     bool
		paraDepth  int
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if name == "p" && !inPara && len(stack) > 0 && stack[len(stack)-1] == "body" {
				inPara = true
				paraDepth = len(stack)
				current.Reset()
			}
			if inPara && !nestedContainer(stack[paraDepth:]) {
				switch name {
				case "t":
					inText = true
				case "tab":
					current.WriteByte('\t')
				case "br", "cr":
					current.WriteByte('\n')
				}
			}
			stack = append(stack, name)

		case xml.EndElement:
			stack = stack[:len(stack)-1]
			switch {
			case t.Name.Local == "t":
				inText = false
			case inPara && t.Name.Local == "p" && len(stack) == paraDepth:
				paragraphs = append(paragraphs, current.String())
				inPara = false
			}

		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}

// nestedContainer reports whether the element path below a body paragraph
// enters a text box, whose paragraphs belong to the drawing rather than to
// the enclosing paragraph.
func nestedContainer(path []string) bool {
	for _, name := range path {
		if name == "txbxContent" {
			return true
		}
	}
	return false
}
