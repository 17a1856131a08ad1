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
	analyzeResume     string
	analyzeJDFile     string
	analyzeJDText     string
	analyzeShowResume bool
	analyzeShare      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Match a resume against a job description",
	Long:  "Extracts the resume text, asks the model for a match analysis and prints it with the match percentage.",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "resume file (.pdf or .docx)")
	analyzeCmd.Flags().StringVar(&analyzeJDFile, "jd", "", "file containing the job description")
	analyzeCmd.Flags().StringVar(&analyzeJDText, "jd-text", "", "job description text")
	analyzeCmd.Flags().BoolVar(&analyzeShowResume, "show-resume", false, "print the parsed resume text first")
	analyzeCmd.Flags().BoolVar(&analyzeShare, "share", false, "share the result via the configured notification channel")
	analyzeCmd.MarkFlagsMutuallyExclusive("jd", "jd-text")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	jd, err := jobDescription(analyzeJDFile, analyzeJDText)
	if err != nil {
		return err
	}
	if analyzeResume == "" || strings.TrimSpace(jd) == "" {
		return fmt.Errorf("please upload your resume and provide a job description: %w", model.ErrMissingInput)
	}

	resume, err := readResume(analyzeResume, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeShowResume {
		fmt.Fprintf(out, "Parsed resume:\n%s\n\n", resume)
	}

	matcher, closeHistory, err := setupMatcher(cfg, logger)
	if err != nil {
		fail(logger, "failed to set up matcher", err)
	}
	defer closeHistory()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := matcher.Analyze(ctx, model.AnalysisRequest{ResumeText: resume, JobDescription: jd})
	if err != nil {
		return err
	}

	if err := report.NewTextReporter(out).ReportAnalysis(a); err != nil {
		return err
	}
	if analyzeShare {
		if err := setupShareReporter(cfg, logger).ReportAnalysis(a); err != nil {
			logger.Error("sharing failed", "error", err)
		}
	}
	return nil
}

// jobDescription returns the job description from a file or inline text.
func jobDescription(path, text string) (string, error) {
	if path == "" {
		return text, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	return string(data), nil
}
