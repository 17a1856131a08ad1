package ai

import (
	"strings"

	"github.com/amishk599/atsmatch/internal/model"
)

// Interpret turns a generate response into an Analysis. A response with no
// text yields Empty=true and an unknown score rather than an error.
func Interpret(resp *model.Response, extractor ScoreExtractor) model.Analysis {
	if extractor == nil {
		extractor = DefaultScoreExtractor
	}

	fragments, ok := resp.Texts()
	if !ok {
		return model.Analysis{Empty: true}
	}
	return analysisFromText(fragments, extractor)
}

func analysisFromText(fragments []string, extractor ScoreExtractor) model.Analysis {
	text := strings.Join(fragments, "\n")
	score, known := extractor.ExtractScore(text)
	return model.Analysis{
		Fragments:       fragments,
		Text:            text,
		Score:           model.MatchScore{Value: score, Known: known},
		MissingKeywords: MissingKeywords(text),
	}
}

// InterpretRephrase turns a generate response into a Rephrasal. Rephrasing
// has no score.
func InterpretRephrase(resp *model.Response) model.Rephrasal {
	fragments, ok := resp.Texts()
	if !ok {
		return model.Rephrasal{Empty: true}
	}
	return model.Rephrasal{
		Fragments: fragments,
		Text:      strings.Join(fragments, "\n"),
	}
}

// MissingKeywords returns the comma-separated items on the first line that
// mentions "missing keywords", after its first ':'. Markdown emphasis and
// list bullets around items are dropped; a leading dot (".NET") is kept.
// Nil when there is no such line or it carries no items.
func MissingKeywords(text string) []string {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(strings.ToLower(line), "missing keywords") {
			continue
		}
		i := strings.Index(line, ":")
		if i < 0 {
			return nil
		}
		var out []string
		for _, item := range strings.Split(line[i+1:], ",") {
			item = strings.TrimRight(strings.TrimLeft(item, " \t*_-•"), " \t*_.")
			if item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	return nil
}
