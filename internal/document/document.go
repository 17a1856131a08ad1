package document

import (
	"fmt"
	"io"

	"github.com/amishk599/atsmatch/internal/model"
)

// Document is an uploaded resume: a seekable stream, the name the user gave
// it, and the format derived from that name. The caller owns the stream.
type Document struct {
	Name   string
	Format model.Format
	r      io.ReadSeeker
}

// Open wraps r as a Document. The format comes from name's extension; anything
// other than pdf or docx is rejected before a single byte is read.
func Open(name string, r io.ReadSeeker) (Document, error) {
	format, err := model.FormatFromFilename(name)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", name, err)
	}
	return Document{Name: name, Format: format, r: r}, nil
}

// Rewind seeks the underlying stream back to its start so the document can be
// read again.
func (d Document) Rewind() error {
	if d.r == nil {
		return fmt.Errorf("rewind %s: no content", d.Name)
	}
	if _, err := d.r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", d.Name, err)
	}
	return nil
}

// bytes rewinds and reads the whole stream. The stream is left open.
func (d Document) bytes() ([]byte, error) {
	if err := d.Rewind(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(d.r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.Name, err)
	}
	return data, nil
}
