package ai

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/amishk599/atsmatch/internal/model"
)

//go:embed prompts/analysis.md
var analysisPromptRaw string

//go:embed prompts/rephrase.md
var rephrasePromptRaw string

// AnalysisTemplate is the parsed prompt template for resume analysis.
// Parsed once at package init; reused on every Analyze call.
var AnalysisTemplate = template.Must(template.New("analysis").Parse(analysisPromptRaw))

// RephraseTemplate is the parsed prompt template for rephrasing resume text.
var RephraseTemplate = template.Must(template.New("rephrase").Parse(rephrasePromptRaw))

// BuildAnalysisPrompt renders the analysis prompt. Resume text and job
// description are inserted verbatim; identical inputs give identical output.
func BuildAnalysisPrompt(req model.AnalysisRequest) (string, error) {
	var buf bytes.Buffer
	if err := AnalysisTemplate.Execute(&buf, req); err != nil {
		return "", fmt.Errorf("render analysis prompt: %w", err)
	}
	return buf.String(), nil
}

// BuildRephrasePrompt renders the rephrase prompt for text.
func BuildRephrasePrompt(text string) (string, error) {
	var buf bytes.Buffer
	if err := RephraseTemplate.Execute(&buf, struct{ Text string }{Text: text}); err != nil {
		return "", fmt.Errorf("render rephrase prompt: %w", err)
	}
	return buf.String(), nil
}
