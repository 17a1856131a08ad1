package server

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/amishk599/atsmatch/internal/document"
	"github.com/amishk599/atsmatch/internal/model"
)

type extractResponse struct {
	Filename string `json:"filename"`
	Format   string `json:"format"`
	Text     string `json:"text"`
}

type analyzeResponse struct {
	MatchPercentage *int     `json:"match_percentage"`
	Analysis        string   `json:"analysis"`
	Fragments       []string `json:"fragments"`
	MissingKeywords []string `json:"missing_keywords"`
	Empty           bool     `json:"empty"`
	Cached          bool     `json:"cached"`
	ResumeText      string   `json:"resume_text,omitempty"`
}

type rephraseRequest struct {
	Text string `json:"text"`
}

type rephraseResponse struct {
	Text      string   `json:"text"`
	Fragments []string `json:"fragments"`
	Empty     bool     `json:"empty"`
	Cached    bool     `json:"cached"`
}

type templateResponse struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"version": s.version,
	})
}

func (s *Server) handleTemplates(c *fiber.Ctx) error {
	out := make([]templateResponse, 0, len(s.templates))
	for _, t := range s.templates {
		preview, err := t.Preview()
		if err != nil {
			return fmt.Errorf("template %s: %w", t.Name, err)
		}
		out = append(out, templateResponse{Name: t.Name, URL: t.URL, PreviewURL: preview})
	}
	return c.JSON(out)
}

func (s *Server) handleExtract(c *fiber.Ctx) error {
	doc, text, err := s.resumeText(c)
	if err != nil {
		return err
	}
	return c.JSON(extractResponse{
		Filename: doc.Name,
		Format:   string(doc.Format),
		Text:     text,
	})
}

func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	jd := c.FormValue("job_description")
	if strings.TrimSpace(jd) == "" {
		return fmt.Errorf("job_description: %w", model.ErrMissingInput)
	}

	_, resume, err := s.resumeText(c)
	if err != nil {
		return err
	}

	a, err := s.matcher.Analyze(c.UserContext(), model.AnalysisRequest{
		ResumeText:     resume,
		JobDescription: jd,
	})
	if err != nil {
		return err
	}

	resp := analyzeResponse{
		Analysis:        a.Text,
		Fragments:       nonNil(a.Fragments),
		MissingKeywords: nonNil(a.MissingKeywords),
		Empty:           a.Empty,
		Cached:          a.Cached,
	}
	if a.Score.Known {
		v := a.Score.Value
		resp.MatchPercentage = &v
	}
	if c.QueryBool("show_resume") {
		resp.ResumeText = resume
	}
	return c.JSON(resp)
}

func (s *Server) handleRephrase(c *fiber.Ctx) error {
	var req rephraseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return fmt.Errorf("text: %w", model.ErrMissingInput)
	}

	r, err := s.matcher.Rephrase(c.UserContext(), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(rephraseResponse{
		Text:      r.Text,
		Fragments: nonNil(r.Fragments),
		Empty:     r.Empty,
		Cached:    r.Cached,
	})
}

// resumeText reads the "resume" multipart file and extracts its text. The
// format is checked before the upload is opened.
func (s *Server) resumeText(c *fiber.Ctx) (document.Document, string, error) {
	fh, err := c.FormFile("resume")
	if err != nil {
		return document.Document{}, "", fmt.Errorf("resume: %w", model.ErrMissingInput)
	}
	if _, err := model.FormatFromFilename(fh.Filename); err != nil {
		return document.Document{}, "", err
	}

	f, err := fh.Open()
	if err != nil {
		return document.Document{}, "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	doc, err := document.Open(fh.Filename, f)
	if err != nil {
		return document.Document{}, "", err
	}
	text, err := s.extractor.Extract(doc)
	if err != nil {
		return document.Document{}, "", fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return doc, text, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
