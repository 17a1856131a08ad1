package ai

import (
	"strconv"
	"strings"
)

// ScoreExtractor pulls a match score out of free-form analysis text. ok is
// false when no score could be determined.
type ScoreExtractor interface {
	ExtractScore(text string) (score int, ok bool)
}

// LabelScoreExtractor finds the first line containing Label (case-insensitive),
// takes what follows the last ':' on that line (the whole line if it has no
// colon) and keeps only its decimal digits. This is tied to the model's
// phrasing: "Match Percentage: 82% (up from 70%)" reads as 8270.
type LabelScoreExtractor struct {
	Label string
}

// DefaultScoreExtractor matches the "Match Percentage: N%" line the analysis
// prompt asks for.
var DefaultScoreExtractor ScoreExtractor = LabelScoreExtractor{Label: "match percentage"}

// ExtractScore implements ScoreExtractor.
func (e LabelScoreExtractor) ExtractScore(text string) (int, bool) {
	label := strings.ToLower(e.Label)
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(strings.ToLower(line), label) {
			continue
		}
		// Only the first qualifying line counts.
		value := line
		if i := strings.LastIndex(line, ":"); i >= 0 {
			value = line[i+1:]
		}
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, value)
		if digits == "" {
			return 0, false
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
