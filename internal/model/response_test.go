package model

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, body string) *Response {
	t.Helper()
	var r Response
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return &r
}

func TestTexts_MissingCandidates(t *testing.T) {
	texts, ok := decode(t, `{}`).Texts()
	if ok {
		t.Error("expected ok=false when candidates is missing")
	}
	if len(texts) != 0 {
		t.Errorf("texts = %v, want none", texts)
	}
}

func TestTexts_NilResponse(t *testing.T) {
	var r *Response
	if _, ok := r.Texts(); ok {
		t.Error("expected ok=false for nil response")
	}
}

func TestTexts_SkipsBranchesWithMissingKeys(t *testing.T) {
	body := `{"candidates":[
		{"finishReason":"SAFETY"},
		{"content":{"role":"model"}},
		{"content":{"parts":[{"inlineData":{}},{"text":"first"}]}},
		{"content":{"parts":[{"text":"second"}]}}
	]}`

	texts, ok := decode(t, body).Texts()
	if !ok {
		t.Fatal("expected ok=true")
	}
	if len(texts) != 2 || texts[0] != "first" || texts[1] != "second" {
		t.Errorf("texts = %q, want [first second]", texts)
	}
}

func TestTexts_EmptyStringIsPresent(t *testing.T) {
	texts, ok := decode(t, `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`).Texts()
	if !ok || len(texts) != 1 {
		t.Errorf("texts = %q ok = %v, want one empty fragment", texts, ok)
	}
}

func TestBlockReason(t *testing.T) {
	reason, ok := decode(t, `{"promptFeedback":{"blockReason":"SAFETY"}}`).BlockReason()
	if !ok || reason != "SAFETY" {
		t.Errorf("BlockReason = %q, %v", reason, ok)
	}
	if _, ok := decode(t, `{}`).BlockReason(); ok {
		t.Error("expected no block reason")
	}
}

func TestTextResponse_RoundTripsThroughTexts(t *testing.T) {
	texts, ok := TextResponse("a", "b").Texts()
	if !ok || len(texts) != 2 || texts[0] != "a" || texts[1] != "b" {
		t.Errorf("texts = %q", texts)
	}
}

func TestFormatFromFilename(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"resume.pdf", FormatPDF, false},
		{"Resume.PDF", FormatPDF, false},
		{"cv.final.DocX", FormatDOCX, false},
		{"notes.txt", "", true},
		{"resume.doc", "", true},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromFilename(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromFilename(%q) err = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFromFilename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestMatchScorePercent(t *testing.T) {
	if got := (MatchScore{Value: 82, Known: true}).Percent(); got != 82 {
		t.Errorf("Percent = %d, want 82", got)
	}
	if got := (MatchScore{Value: 82}).Percent(); got != 0 {
		t.Errorf("unknown Percent = %d, want 0", got)
	}
}
