package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/atsmatch/internal/model"
)

var _ model.Reporter = (*SlackReporter)(nil)

// maxSlackText keeps section blocks under Slack's 3000 character limit.
const maxSlackText = 2900

// SlackReporter shares results to a Slack channel via Incoming Webhooks.
type SlackReporter struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackReporter returns a reporter that posts each result to Slack.
func NewSlackReporter(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackReporter {
	return &SlackReporter{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// ReportAnalysis posts the score, missing keywords and analysis text.
// Empty analyses are not shared.
func (s *SlackReporter) ReportAnalysis(a model.Analysis) error {
	if a.Empty {
		return nil
	}
	return s.send(buildAnalysisPayload(a))
}

// ReportRephrase posts the rewritten text.
func (s *SlackReporter) ReportRephrase(r model.Rephrasal) error {
	if r.Empty {
		return nil
	}
	return s.send(buildRephrasePayload(r))
}

func (s *SlackReporter) send(payload slackPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		resp2, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", resp2.StatusCode)
		}
		s.logger.Info("slack message sent", "retried", true)
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	s.logger.Info("slack message sent")
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func buildAnalysisPayload(a model.Analysis) slackPayload {
	score := "unavailable"
	if a.Score.Known {
		score = strconv.Itoa(a.Score.Value) + "%"
	}
	missing := "None reported"
	if len(a.MissingKeywords) > 0 {
		missing = strings.Join(a.MissingKeywords, ", ")
	}

	return slackPayload{Blocks: []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "📄 Resume analysis"},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Match Percentage:*\n" + score},
				{Type: "mrkdwn", Text: "*Missing Keywords:*\n" + missing},
			},
		},
		{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: truncate(a.Text, maxSlackText)},
		},
		{Type: "divider"},
	}}
}

func buildRephrasePayload(r model.Rephrasal) slackPayload {
	return slackPayload{Blocks: []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "✍️ Magic Write"},
		},
		{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: truncate(r.Text, maxSlackText)},
		},
		{Type: "divider"},
	}}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
