package report

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/amishk599/atsmatch/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleAnalysis() model.Analysis {
	text := "Resume analysis\nMatch Percentage: 40%\nMissing Keywords: AWS, Docker"
	return model.Analysis{
		Fragments:       []string{text},
		Text:            text,
		Score:           model.MatchScore{Value: 40, Known: true},
		MissingKeywords: []string{"AWS", "Docker"},
	}
}

func TestSlackReporter_AnalysisPayload(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSlackReporter(srv.URL, srv.Client(), discardLogger())
	if err := s.ReportAnalysis(sampleAnalysis()); err != nil {
		t.Fatalf("ReportAnalysis() = %v, want nil", err)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if len(payload.Blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(payload.Blocks))
	}
	if payload.Blocks[0].Type != "header" {
		t.Errorf("block[0] type = %q, want header", payload.Blocks[0].Type)
	}
	fields := payload.Blocks[1].Fields
	if len(fields) != 2 {
		t.Fatalf("block[1] not a 2-field section")
	}
	if fields[0].Text != "*Match Percentage:*\n40%" {
		t.Errorf("score field = %q", fields[0].Text)
	}
	if fields[1].Text != "*Missing Keywords:*\nAWS, Docker" {
		t.Errorf("keywords field = %q", fields[1].Text)
	}
	if payload.Blocks[2].Text.Text != sampleAnalysis().Text {
		t.Errorf("analysis text = %q", payload.Blocks[2].Text.Text)
	}
	if payload.Blocks[3].Type != "divider" {
		t.Errorf("block[3] type = %q, want divider", payload.Blocks[3].Type)
	}
}

func TestSlackReporter_UnknownScore(t *testing.T) {
	a := sampleAnalysis()
	a.Score = model.MatchScore{}
	a.MissingKeywords = nil

	p := buildAnalysisPayload(a)
	if got := p.Blocks[1].Fields[0].Text; got != "*Match Percentage:*\nunavailable" {
		t.Errorf("score field = %q", got)
	}
	if got := p.Blocks[1].Fields[1].Text; got != "*Missing Keywords:*\nNone reported" {
		t.Errorf("keywords field = %q", got)
	}
}

func TestSlackReporter_EmptyIsNotSent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSlackReporter(srv.URL, srv.Client(), discardLogger())
	if err := s.ReportAnalysis(model.Analysis{Empty: true}); err != nil {
		t.Errorf("ReportAnalysis(empty) = %v", err)
	}
	if err := s.ReportRephrase(model.Rephrasal{Empty: true}); err != nil {
		t.Errorf("ReportRephrase(empty) = %v", err)
	}
	if c := calls.Load(); c != 0 {
		t.Errorf("expected 0 HTTP calls, got %d", c)
	}
}

func TestSlackReporter_SlackReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewSlackReporter(srv.URL, srv.Client(), discardLogger())
	if err := s.ReportRephrase(model.Rephrasal{Fragments: []string{"x"}, Text: "x"}); err == nil {
		t.Error("expected error on 500, got nil")
	}
}

func TestSlackReporter_RateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSlackReporter(srv.URL, srv.Client(), discardLogger())
	if err := s.ReportAnalysis(sampleAnalysis()); err != nil {
		t.Fatalf("expected nil after retry, got %v", err)
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("expected 2 HTTP calls (initial + retry), got %d", c)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", 10)
	if got := truncate(long, 5); got != "éééé…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 5); got != "short" {
		t.Errorf("truncate = %q", got)
	}
}
