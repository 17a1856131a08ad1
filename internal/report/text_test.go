package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/amishk599/atsmatch/internal/model"
)

func TestTextReporter_Analysis(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextReporter(&buf).ReportAnalysis(sampleAnalysis()); err != nil {
		t.Fatalf("ReportAnalysis: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Missing Keywords: AWS, Docker",
		"Your Resume Match Percentage:",
		" 40%",
		"████████░░░░░░░░░░░░",
		"Analysis Complete!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Resume analysis") > strings.Index(out, "Analysis Complete!") {
		t.Error("analysis text should precede the completion line")
	}
}

func TestTextReporter_UnknownScore(t *testing.T) {
	a := sampleAnalysis()
	a.Score = model.MatchScore{}

	var buf bytes.Buffer
	if err := NewTextReporter(&buf).ReportAnalysis(a); err != nil {
		t.Fatalf("ReportAnalysis: %v", err)
	}
	if !strings.Contains(buf.String(), "unavailable") {
		t.Errorf("expected unavailable score:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "█") {
		t.Error("no bar should be drawn for an unknown score")
	}
}

func TestTextReporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextReporter(&buf).ReportAnalysis(model.Analysis{Empty: true}); err != nil {
		t.Fatalf("ReportAnalysis: %v", err)
	}
	if got := buf.String(); got != "No analysis was returned.\n" {
		t.Errorf("output = %q", got)
	}
}

func TestTextReporter_Rephrase(t *testing.T) {
	var buf bytes.Buffer
	r := model.Rephrasal{Fragments: []string{"Rephrased Text:", "Shipped X."}, Text: "Rephrased Text:\nShipped X."}
	if err := NewTextReporter(&buf).ReportRephrase(r); err != nil {
		t.Fatalf("ReportRephrase: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Rephrased Text:\nShipped X.\n") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Rephrasing Complete!") {
		t.Errorf("missing completion line:\n%s", out)
	}
}

func TestFilled(t *testing.T) {
	tests := []struct{ percent, want int }{
		{-5, 0}, {0, 0}, {40, 8}, {99, 19}, {100, 20}, {41100, 20},
	}
	for _, tt := range tests {
		if got := Filled(tt.percent, 20); got != tt.want {
			t.Errorf("Filled(%d, 20) = %d, want %d", tt.percent, got, tt.want)
		}
	}
}
