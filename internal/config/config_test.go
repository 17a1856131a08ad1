package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "secret-from-env")
	path := writeConfig(t, `
ai:
  model: gemini-1.5-pro
  api_key: ${TEST_GEMINI_KEY}
  timeout: 30s
  max_retries: 2
  retry_delay: 500ms
  min_delay: 1s
history:
  enabled: true
  path: /tmp/history.db
  reuse: true
notification:
  type: slack
  webhook_url: https://hooks.slack.com/services/T/B/X
server:
  addr: 127.0.0.1:9000
  body_limit_mb: 4
templates:
  - name: Classic
    url: https://docs.google.com/document/d/abc123/edit
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.APIKey != "secret-from-env" {
		t.Errorf("APIKey not expanded from env")
	}
	if cfg.AI.Model != "gemini-1.5-pro" || cfg.AI.BaseURL != defaultBaseURL {
		t.Errorf("AI = %+v", cfg.AI)
	}
	if cfg.AI.Timeout != 30*time.Second || cfg.AI.MaxRetries != 2 ||
		cfg.AI.RetryDelay != 500*time.Millisecond || cfg.AI.MinDelay != time.Second {
		t.Errorf("AI timings = %+v", cfg.AI)
	}
	if !cfg.History.Enabled || !cfg.History.Reuse || cfg.History.Path != "/tmp/history.db" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Notification.Type != "slack" {
		t.Errorf("Notification = %+v", cfg.Notification)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.BodyLimit != 4 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if len(cfg.Templates) != 1 || cfg.Templates[0].Name != "Classic" {
		t.Errorf("Templates = %+v", cfg.Templates)
	}
}

func TestParse_Defaults(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.AI.BaseURL != "https://generativelanguage.googleapis.com/v1beta" {
		t.Errorf("BaseURL = %q", cfg.AI.BaseURL)
	}
	if cfg.AI.Model != "gemini-1.5-flash-latest" {
		t.Errorf("Model = %q", cfg.AI.Model)
	}
	if cfg.AI.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.AI.Timeout)
	}
	if cfg.AI.MaxRetries != 0 || cfg.AI.MinDelay != 0 {
		t.Errorf("expected single attempt without rate limiting, got %+v", cfg.AI)
	}
	if cfg.History.Enabled || cfg.History.Path != "atsmatch.db" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Notification.Type != "log" {
		t.Errorf("Notification.Type = %q, want log", cfg.Notification.Type)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.BodyLimit != 10 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if len(cfg.Templates) != 6 {
		t.Errorf("expected 6 default templates, got %d", len(cfg.Templates))
	}
	if err := cfg.AI.Validate(); err == nil {
		t.Error("Validate: expected error for empty api key")
	}
}

func TestParse_APIKeyFallsBackToEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")

	cfg, err := Parse([]byte("ai:\n  model: m\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.AI.APIKey != "env-key" {
		t.Errorf("APIKey not taken from %s", EnvAPIKey)
	}
	if err := cfg.AI.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate_ErrorDoesNotLeakKey(t *testing.T) {
	err := AIConfig{}.Validate()
	if err == nil || !strings.Contains(err.Error(), EnvAPIKey) {
		t.Errorf("Validate = %v, want hint naming %s", err, EnvAPIKey)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadOrDefault(missing, false)
	if err != nil {
		t.Fatalf("LoadOrDefault(implicit): %v", err)
	}
	if cfg.AI.Model != defaultModel {
		t.Errorf("expected defaults, got %+v", cfg.AI)
	}

	if _, err := LoadOrDefault(missing, true); err == nil {
		t.Error("LoadOrDefault(explicit): expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "ai: [broken")
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad timeout", "ai:\n  timeout: soon\n", "ai.timeout"},
		{"zero timeout", "ai:\n  timeout: 0s\n", "ai.timeout must be positive"},
		{"negative retries", "ai:\n  max_retries: -1\n", "ai.max_retries"},
		{"bad base url", "ai:\n  base_url: ftp://x\n", "ai.base_url"},
		{"reuse without history", "history:\n  reuse: true\n", "history.reuse"},
		{"slack without webhook", "notification:\n  type: slack\n", "webhook_url is required"},
		{"slack wrong host", "notification:\n  type: slack\n  webhook_url: https://example.com/hook\n", "must start with"},
		{"unknown notifier", "notification:\n  type: email\n", "notification.type"},
		{"template without id", "templates:\n  - name: x\n    url: nope\n", "templates[0]"},
		{"template without name", "templates:\n  - url: https://docs.google.com/document/d/a/edit\n", "templates[0].name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			if err == nil {
				t.Fatalf("Parse: expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	if p, explicit := ResolvePath(""); p != DefaultPath || explicit {
		t.Errorf("ResolvePath(\"\") = (%q, %v)", p, explicit)
	}

	t.Setenv(EnvConfigPath, "/etc/atsmatch.yaml")
	if p, explicit := ResolvePath(""); p != "/etc/atsmatch.yaml" || !explicit {
		t.Errorf("env path = (%q, %v)", p, explicit)
	}
	if p, explicit := ResolvePath("flag.yaml"); p != "flag.yaml" || !explicit {
		t.Errorf("flag path = (%q, %v)", p, explicit)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	if err := LoadEnvFile(filepath.Join(dir, ".env")); err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("ATSMATCH_TEST_DOTENV=from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ATSMATCH_TEST_DOTENV", "")
	os.Unsetenv("ATSMATCH_TEST_DOTENV")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("ATSMATCH_TEST_DOTENV"); got != "from-file" {
		t.Errorf("ATSMATCH_TEST_DOTENV = %q, want from-file", got)
	}
}
