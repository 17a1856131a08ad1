package model

import (
	"context"
	"path/filepath"
	"strings"
	"time"
)

// Format is the closed set of resume document formats.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// FormatFromFilename returns the document format implied by the filename's
// extension, case-insensitively. Any other extension is ErrUnsupportedFormat.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// AnalysisRequest pairs a resume with the job description it is matched against.
type AnalysisRequest struct {
	ResumeText     string
	JobDescription string
}

// MatchScore is the percentage parsed out of an analysis. Known is false when
// the analysis text had no usable "match percentage" line.
type MatchScore struct {
	Value int
	Known bool
}

// Percent returns the score for display, 0 when unknown.
func (s MatchScore) Percent() int {
	if !s.Known {
		return 0
	}
	return s.Value
}

// Analysis is the interpreted result of a resume/job-description match.
type Analysis struct {
	Fragments       []string // generated text fragments, in response order
	Text            string   // fragments joined by newline
	Score           MatchScore
	MissingKeywords []string
	Empty           bool // the response carried no text at all
	Cached          bool // replayed from the history store
}

// Rephrasal is the interpreted result of a rephrase request.
type Rephrasal struct {
	Fragments []string
	Text      string
	Empty     bool
	Cached    bool
}

// Generator sends a prompt to the generative-language API and returns the
// decoded response.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Response, error)
}

// Reporter renders results to the user or to a sharing channel.
type Reporter interface {
	ReportAnalysis(a Analysis) error
	ReportRephrase(r Rephrasal) error
}

// RecordKind distinguishes history entries.
type RecordKind string

const (
	KindAnalysis RecordKind = "analysis"
	KindRephrase RecordKind = "rephrase"
)

// Record is one persisted result in the history store.
type Record struct {
	ID        string
	Kind      RecordKind
	InputHash string
	Output    string
	Score     MatchScore
	CreatedAt time.Time
}

// HistoryStore persists results so identical inputs can be answered
// identically and past runs can be listed.
type HistoryStore interface {
	Lookup(kind RecordKind, inputHash string) (*Record, error)
	Save(rec Record) error
	Recent(limit int) ([]Record, error)
	Cleanup(olderThan time.Duration) error
}
