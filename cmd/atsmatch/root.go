package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/amishk599/atsmatch/internal/ai"
	"github.com/amishk599/atsmatch/internal/config"
	"github.com/amishk599/atsmatch/internal/document"
	"github.com/amishk599/atsmatch/internal/model"
	"github.com/amishk599/atsmatch/internal/ratelimit"
	"github.com/amishk599/atsmatch/internal/report"
	"github.com/amishk599/atsmatch/internal/retry"
	"github.com/amishk599/atsmatch/internal/store"
)

var (
	cfgPath string
	envFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "atsmatch",
	Short: "ATS resume expert",
	Long:  "atsmatch compares a resume against a job description with a generative model, reports a match percentage and rewrites resume text.",
	// Without a subcommand, run the interactive three-page UI.
	RunE:          runUI,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: ATSMATCH_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the config")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig loads the dotenv file, resolves the config path and parses it.
// Priority: explicit path arg > ATSMATCH_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	resolved, explicit := config.ResolvePath(path)
	return config.LoadOrDefault(resolved, explicit)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupGenerator builds the provider chain: rate limit -> retry -> Gemini.
func setupGenerator(cfg *config.Config, logger *slog.Logger) (model.Generator, error) {
	if err := cfg.AI.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.AI.Timeout}
	var gen model.Generator = ai.NewGeminiProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient, logger)
	if cfg.AI.MaxRetries > 0 {
		gen = retry.NewRetryGenerator(gen, cfg.AI.MaxRetries, cfg.AI.RetryDelay, logger)
	}
	if cfg.AI.MinDelay > 0 {
		limiter := ratelimit.NewLimiter(cfg.AI.MinDelay)
		gen = ratelimit.NewRateLimitedGenerator(gen, limiter, cfg.AI.Model)
	}

	logger.Debug("generator configured",
		"model", cfg.AI.Model,
		"timeout", cfg.AI.Timeout.String(),
		"max_retries", cfg.AI.MaxRetries,
		"min_delay", cfg.AI.MinDelay.String(),
	)
	return gen, nil
}

// setupHistory opens the configured store. The returned close func is never nil.
func setupHistory(cfg *config.Config, logger *slog.Logger) (model.HistoryStore, func(), error) {
	if !cfg.History.Enabled {
		return store.NewNopStore(), func() {}, nil
	}
	sqlStore, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("history enabled", "path", cfg.History.Path, "reuse", cfg.History.Reuse)
	return sqlStore, func() { sqlStore.Close() }, nil
}

// setupMatcher wires generator and history into a Matcher.
func setupMatcher(cfg *config.Config, logger *slog.Logger) (*ai.Matcher, func(), error) {
	gen, err := setupGenerator(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	history, closeFn, err := setupHistory(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	var opts []ai.MatcherOption
	if cfg.History.Enabled {
		opts = append(opts, ai.WithHistory(history, cfg.History.Reuse))
	}
	return ai.NewMatcher(gen, logger, opts...), closeFn, nil
}

// setupShareReporter returns where --share sends results.
func setupShareReporter(cfg *config.Config, logger *slog.Logger) model.Reporter {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("sharing to slack")
		return report.NewSlackReporter(cfg.Notification.WebhookURL, &http.Client{Timeout: cfg.AI.Timeout}, logger)
	default:
		return report.NewLogReporter(logger)
	}
}

// readResume opens path and extracts its text. The format is checked before
// the file is opened.
func readResume(path string, logger *slog.Logger) (string, error) {
	name := filepath.Base(path)
	if _, err := model.FormatFromFilename(name); err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open resume: %w", err)
	}
	defer f.Close()

	doc, err := document.Open(name, f)
	if err != nil {
		return "", err
	}
	return document.NewExtractor(logger).Extract(doc)
}

// fail logs a fatal setup error and exits.
func fail(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
