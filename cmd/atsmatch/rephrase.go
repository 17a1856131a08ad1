package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/atsmatch/internal/model"
	"github.com/amishk599/atsmatch/internal/report"
)

var (
	rephraseText  string
	rephraseFile  string
	rephraseShare bool
)

var rephraseCmd = &cobra.Command{
	Use:     "rephrase",
	Aliases: []string{"magic-write"},
	Short:   "Rewrite resume text for ATS systems",
	RunE:    runRephrase,
}

func init() {
	rephraseCmd.Flags().StringVarP(&rephraseText, "text", "t", "", "text to rephrase")
	rephraseCmd.Flags().StringVarP(&rephraseFile, "file", "f", "", "file containing the text to rephrase")
	rephraseCmd.Flags().BoolVar(&rephraseShare, "share", false, "share the result via the configured notification channel")
	rephraseCmd.MarkFlagsMutuallyExclusive("text", "file")
	rootCmd.AddCommand(rephraseCmd)
}

func runRephrase(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	text := rephraseText
	if rephraseFile != "" {
		data, err := os.ReadFile(rephraseFile)
		if err != nil {
			return fmt.Errorf("read text: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("please enter some text to rephrase: %w", model.ErrMissingInput)
	}

	matcher, closeHistory, err := setupMatcher(cfg, logger)
	if err != nil {
		fail(logger, "failed to set up matcher", err)
	}
	defer closeHistory()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := matcher.Rephrase(ctx, text)
	if err != nil {
		return err
	}
	if err := report.NewTextReporter(cmd.OutOrStdout()).ReportRephrase(r); err != nil {
		return err
	}
	if rephraseShare {
		if err := setupShareReporter(cfg, logger).ReportRephrase(r); err != nil {
			logger.Error("sharing failed", "error", err)
		}
	}
	return nil
}
