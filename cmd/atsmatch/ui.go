package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/atsmatch/internal/ai"
	"github.com/amishk599/atsmatch/internal/config"
	"github.com/amishk599/atsmatch/internal/model"
	"github.com/amishk599/atsmatch/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Interactive resume analyzer (TUI)",
	Long:  "Shows the page picker (Resume Analyzer, Magic Write, ATS Templates) and runs the chosen page.",
	RunE:  runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The TUI owns the terminal; any log output corrupts the display.
	silentLogger := discardLogger()

	var matcher *ai.Matcher
	if err := cfg.AI.Validate(); err == nil {
		m, closeHistory, err := setupMatcher(cfg, silentLogger)
		if err != nil {
			fail(logger, "failed to set up matcher", err)
		}
		defer closeHistory()
		matcher = m
	} else {
		logger.Warn("analysis disabled", "error", err)
	}

	runPages(cfg, matcher)
	return nil
}

func runPages(cfg *config.Config, matcher *ai.Matcher) {
	silentLogger := discardLogger()
	for {
		page, err := tui.RunPagePicker()
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return
		}
		if page < 0 {
			return
		}

		var wantQuit bool
		switch page {
		case tui.PageAnalyzer:
			wantQuit, err = runAnalyzerPage(matcher, silentLogger)
		case tui.PageMagicWrite:
			wantQuit, err = runMagicWritePage(matcher)
		case tui.PageTemplates:
			wantQuit, err = tui.RunTemplatesView(cfg.Templates)
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		if wantQuit {
			return
		}
		// else: loop → back to picker
	}
}

var errNoAPIKey = errors.New("no API key configured: set GEMINI_API_KEY or ai.api_key")

func runAnalyzerPage(matcher *ai.Matcher, logger *slog.Logger) (bool, error) {
	in, ok, err := tui.RunAnalyzerForm()
	if err != nil || !ok {
		return false, err
	}

	resume, err := readResume(in.ResumePath, logger)
	if err != nil {
		return tui.RunResultView(tui.Result{Title: "Resume Analyzer", Err: err})
	}
	if matcher == nil {
		return tui.RunResultView(tui.Result{Title: "Resume Analyzer", ResumeText: resume, Err: errNoAPIKey})
	}

	a, err := tui.RunLoader(context.Background(), "Analyzing your resume", func(ctx context.Context) (model.Analysis, error) {
		return matcher.Analyze(ctx, model.AnalysisRequest{ResumeText: resume, JobDescription: in.JobDescription})
	})
	if errors.Is(err, tui.ErrCancelled) {
		return false, nil
	}
	res := tui.AnalysisResult(a, resume)
	res.Err = err
	return tui.RunResultView(res)
}

func runMagicWritePage(matcher *ai.Matcher) (bool, error) {
	text, ok, err := tui.RunRephraseForm()
	if err != nil || !ok {
		return false, err
	}
	if matcher == nil {
		return tui.RunResultView(tui.Result{Title: "Magic Write", Err: errNoAPIKey})
	}

	r, err := tui.RunLoader(context.Background(), "Rephrasing your text", func(ctx context.Context) (model.Rephrasal, error) {
		return matcher.Rephrase(ctx, text)
	})
	if errors.Is(err, tui.ErrCancelled) {
		return false, nil
	}
	res := tui.RephraseResult(r)
	res.Err = err
	return tui.RunResultView(res)
}
