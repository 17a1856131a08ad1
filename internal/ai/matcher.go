package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/atsmatch/internal/model"
)

// Matcher runs the analysis and rephrase use cases against a Generator.
type Matcher struct {
	generator model.Generator
	extractor ScoreExtractor
	history   model.HistoryStore
	reuse     bool
	logger    *slog.Logger
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithScoreExtractor replaces the default "match percentage" line parser.
func WithScoreExtractor(e ScoreExtractor) MatcherOption {
	return func(m *Matcher) { m.extractor = e }
}

// WithHistory records every result in store. When reuse is true, an analysis
// whose exact inputs were seen before is answered from the store without an
// API call.
func WithHistory(store model.HistoryStore, reuse bool) MatcherOption {
	return func(m *Matcher) {
		m.history = store
		m.reuse = reuse
	}
}

// NewMatcher creates a Matcher backed by generator.
func NewMatcher(generator model.Generator, logger *slog.Logger, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		generator: generator,
		extractor: DefaultScoreExtractor,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Analyze matches req.ResumeText against req.JobDescription. Transport, auth
// and remote failures are returned as errors; a reply with no text is an
// Analysis with Empty set.
func (m *Matcher) Analyze(ctx context.Context, req model.AnalysisRequest) (model.Analysis, error) {
	prompt, err := BuildAnalysisPrompt(req)
	if err != nil {
		return model.Analysis{}, err
	}

	hash := InputHash(req.ResumeText, req.JobDescription)
	if rec := m.lookup(model.KindAnalysis, hash); rec != nil {
		a := analysisFromText([]string{rec.Output}, m.extractor)
		a.Cached = true
		m.logger.Info("reusing stored analysis", "id", rec.ID, "created_at", rec.CreatedAt)
		return a, nil
	}

	resp, err := m.generator.Generate(ctx, prompt)
	if err != nil {
		return model.Analysis{}, fmt.Errorf("analyze: %w", err)
	}

	a := Interpret(resp, m.extractor)
	if a.Empty {
		m.logger.Warn("analysis response had no text")
		return a, nil
	}
	m.logger.Info("analysis complete", "score", a.Score.Value, "score_known", a.Score.Known, "missing_keywords", len(a.MissingKeywords))

	m.save(model.Record{Kind: model.KindAnalysis, InputHash: hash, Output: a.Text, Score: a.Score})
	return a, nil
}

// Rephrase rewrites text to ATS standards. No score is computed.
func (m *Matcher) Rephrase(ctx context.Context, text string) (model.Rephrasal, error) {
	prompt, err := BuildRephrasePrompt(text)
	if err != nil {
		return model.Rephrasal{}, err
	}

	resp, err := m.generator.Generate(ctx, prompt)
	if err != nil {
		return model.Rephrasal{}, fmt.Errorf("rephrase: %w", err)
	}

	r := InterpretRephrase(resp)
	if r.Empty {
		m.logger.Warn("rephrase response had no text")
		return r, nil
	}

	m.save(model.Record{Kind: model.KindRephrase, InputHash: InputHash(text), Output: r.Text})
	return r, nil
}

func (m *Matcher) lookup(kind model.RecordKind, hash string) *model.Record {
	if m.history == nil || !m.reuse {
		return nil
	}
	rec, err := m.history.Lookup(kind, hash)
	if err != nil {
		m.logger.Warn("history lookup failed", "error", err)
		return nil
	}
	return rec
}

// save is best effort: a history failure never fails the user's action.
func (m *Matcher) save(rec model.Record) {
	if m.history == nil {
		return
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	if err := m.history.Save(rec); err != nil {
		m.logger.Warn("history save failed", "kind", rec.Kind, "error", err)
	}
}

// InputHash fingerprints the inputs of an action for the history store.
func InputHash(inputs ...string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(inputs, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}
