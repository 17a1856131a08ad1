package report

import (
	"log/slog"

	"github.com/amishk599/atsmatch/internal/model"
)

var _ model.Reporter = (*LogReporter)(nil)

// LogReporter writes a one-line summary of each result to the logger. It is
// the sharing target when no Slack webhook is configured.
type LogReporter struct {
	logger *slog.Logger
}

func NewLogReporter(logger *slog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (l *LogReporter) ReportAnalysis(a model.Analysis) error {
	if a.Empty {
		l.logger.Warn("analysis returned no content")
		return nil
	}
	// score is always numeric for log parsers; 0 when unknown.
	args := []any{"score", a.Score.Percent(), "missing_keywords", len(a.MissingKeywords), "cached", a.Cached}
	if a.Score.Known {
		args = append(args, "match_percentage", a.Score.Value)
	} else {
		args = append(args, "match_percentage", "unavailable")
	}
	l.logger.Info("analysis", args...)
	return nil
}

func (l *LogReporter) ReportRephrase(r model.Rephrasal) error {
	if r.Empty {
		l.logger.Warn("rephrase returned no content")
		return nil
	}
	l.logger.Info("rephrase", "chars", len(r.Text), "cached", r.Cached)
	return nil
}
