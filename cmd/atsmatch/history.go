package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/atsmatch/internal/store"
)

var (
	historyLimit     int
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent analyses and rephrasings",
	RunE:  runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete history entries older than a duration",
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show (0 = all)")
	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 30*24*time.Hour, "delete entries older than this")
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

var errHistoryDisabled = errors.New("history is disabled: set history.enabled: true in config.yaml")

func openHistory() (*store.SQLiteStore, error) {
	logger := setupLogger(debug)
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if !cfg.History.Enabled {
		return nil, errHistoryDisabled
	}
	return store.NewSQLiteStore(cfg.History.Path)
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := openHistory()
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tKIND\tSCORE\tSUMMARY")
	for _, r := range records {
		score := "-"
		if r.Score.Known {
			score = fmt.Sprintf("%d%%", r.Score.Value)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Kind, score, summary(r.Output, 60))
	}
	return w.Flush()
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	s, err := openHistory()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Cleanup(historyOlderThan); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed entries older than %s.\n", historyOlderThan)
	return nil
}

// summary returns the first non-empty line of text, cut to n runes.
func summary(text string, n int) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > n {
			return string(r[:n-1]) + "…"
		}
		return line
	}
	return ""
}
