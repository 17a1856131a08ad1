package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/amishk599/atsmatch/internal/model"
)

// GeminiProvider calls the generateContent endpoint of the generative-language API.
type GeminiProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGeminiProvider creates a provider targeting baseURL (e.g.
// https://generativelanguage.googleapis.com/v1beta) and the given model.
func NewGeminiProvider(baseURL, apiKey, model string, httpClient *http.Client, logger *slog.Logger) *GeminiProvider {
	return &GeminiProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}
}

// generateRequest mirrors the generateContent request body. The shape is fixed
// by the remote schema: one user turn with one text part.
type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Role  string        `json:"role"`
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

// errorBody mirrors the error envelope returned on non-2xx responses.
type errorBody struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Reason string `json:"reason"`
		} `json:"details"`
	} `json:"error"`
}

// Generate sends prompt in a single POST and decodes the reply. It does not
// retry; wrap it with retry.NewRetryGenerator for that.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (*model.Response, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("generate: %w", model.ErrAuth)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []requestContent{{
			Role:  "user",
			Parts: []requestPart{{Text: prompt}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	endpoint, err := p.endpoint()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	p.logger.Debug("calling generative api", "model", p.model, "prompt_chars", len(prompt))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		// The *url.Error message embeds the request URL, key included.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("generate: %w: %w", model.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read generate response: %w: %w", model.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(resp, respBytes)
	}

	var out model.Response
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return nil, fmt.Errorf("parse generate response: %w: %w", model.ErrRemote, err)
	}

	if reason, blocked := out.BlockReason(); blocked {
		p.logger.Warn("prompt blocked by remote", "reason", reason)
	}
	return &out, nil
}

func (p *GeminiProvider) endpoint() (string, error) {
	u, err := url.Parse(p.baseURL + "/models/" + p.model + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	q := u.Query()
	q.Set("key", p.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// classifyStatus maps a non-2xx reply to ErrAuth or ErrRemote, wrapping an
// HTTPError so the retry decorator can see the status.
func classifyStatus(resp *http.Response, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Error != nil && eb.Error.Message != "" {
		msg = eb.Error.Message
	}
	httpErr := &model.HTTPError{
		StatusCode: resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		Err:        errors.New(msg),
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden ||
		(resp.StatusCode == http.StatusBadRequest && invalidKey(eb)) {
		return fmt.Errorf("generate: %w: %w", model.ErrAuth, httpErr)
	}
	return fmt.Errorf("generate: %w: %w", model.ErrRemote, httpErr)
}

// invalidKey reports whether a 400 body is the API's way of rejecting the key.
func invalidKey(eb errorBody) bool {
	if eb.Error == nil {
		return false
	}
	for _, d := range eb.Error.Details {
		if d.Reason == "API_KEY_INVALID" {
			return true
		}
	}
	return strings.Contains(strings.ToLower(eb.Error.Message), "api key not valid")
}
