// Package server exposes the matcher over an HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/amishk599/atsmatch/internal/document"
	"github.com/amishk599/atsmatch/internal/model"
	"github.com/amishk599/atsmatch/internal/templates"
)

// Matcher is the subset of ai.Matcher the handlers need.
type Matcher interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (model.Analysis, error)
	Rephrase(ctx context.Context, text string) (model.Rephrasal, error)
}

// Options configures the HTTP app.
type Options struct {
	BodyLimit int // bytes; 0 uses fiber's default
	Version   string
}

// Server holds the handler dependencies.
type Server struct {
	matcher   Matcher
	extractor *document.Extractor
	templates []templates.Template
	version   string
	logger    *slog.Logger
}

// New builds the fiber app with all routes registered under /api/v1.
func New(matcher Matcher, extractor *document.Extractor, tpls []templates.Template, opts Options, logger *slog.Logger) *fiber.App {
	s := &Server{
		matcher:   matcher,
		extractor: extractor,
		templates: tpls,
		version:   opts.Version,
		logger:    logger,
	}

	app := fiber.New(fiber.Config{
		AppName:               "atsmatch",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          2 * time.Minute,
		BodyLimit:             opts.BodyLimit,
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(s.logRequests)

	api := app.Group("/api/v1")
	api.Get("/health", s.handleHealth)
	api.Get("/templates", s.handleTemplates)
	api.Post("/extract", s.handleExtract)
	api.Post("/analyze", s.handleAnalyze)
	api.Post("/rephrase", s.handleRephrase)

	return app
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		// The error handler has not run yet; report the status it will choose.
		status = statusFor(err)
	}
	s.logger.Info("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency", time.Since(start),
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
	)
	return err
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, model.ErrUnsupportedFormat), errors.Is(err, model.ErrMissingInput):
		return fiber.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, model.ErrAuth), errors.Is(err, model.ErrTransport), errors.Is(err, model.ErrRemote):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
