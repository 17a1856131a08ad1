package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List ATS-friendly resume templates",
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPREVIEW\tDOCUMENT")
	for _, t := range cfg.Templates {
		preview, err := t.Preview()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, preview, t.URL)
	}
	return w.Flush()
}
