package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var extractResume string

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the text parsed from a resume",
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractResume, "resume", "r", "", "resume file (.pdf or .docx)")
	extractCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	if _, err := loadConfig(cfgPath); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	text, err := readResume(extractResume, logger)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
