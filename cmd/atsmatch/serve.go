package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/atsmatch/internal/document"
	"github.com/amishk599/atsmatch/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long:  "Start the HTTP API; blocks until SIGINT/SIGTERM.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	matcher, closeHistory, err := setupMatcher(cfg, logger)
	if err != nil {
		fail(logger, "failed to set up matcher", err)
	}
	defer closeHistory()

	app := server.New(matcher, document.NewExtractor(logger), cfg.Templates, server.Options{
		BodyLimit: cfg.Server.BodyLimit << 20,
		Version:   version,
	}, logger)

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("server starting", "addr", addr, "model", cfg.AI.Model, "history", cfg.History.Enabled)
	if err := app.Listen(addr); err != nil {
		return err
	}
	logger.Info("goodbye")
	return nil
}
