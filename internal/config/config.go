package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/atsmatch/internal/templates"
)

// EnvConfigPath names the environment variable that overrides the default
// config file location.
const EnvConfigPath = "ATSMATCH_CONFIG"

// EnvAPIKey is read when no config file provides ai.api_key.
const EnvAPIKey = "GEMINI_API_KEY"

// DefaultPath is used when neither --config nor ATSMATCH_CONFIG is set.
const DefaultPath = "config.yaml"

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel       = "gemini-1.5-flash-latest"
	defaultTimeout     = 60 * time.Second
	defaultRetryDelay  = 2 * time.Second
	defaultHistoryDB   = "atsmatch.db"
	defaultAddr        = ":8080"
	defaultBodyLimit   = 10 // MiB
	slackWebhookPrefix = "https://hooks.slack.com/"
)

// Config is the root configuration for atsmatch.
type Config struct {
	AI           AIConfig
	History      HistoryConfig
	Notification NotificationConfig
	Server       ServerConfig
	Templates    []templates.Template
}

// AIConfig controls the generative-language API client.
type AIConfig struct {
	BaseURL    string
	Model      string
	APIKey     string        // expanded from env var by Load
	Timeout    time.Duration // per-request timeout
	MaxRetries int           // extra attempts after the first; 0 = single attempt
	RetryDelay time.Duration // base backoff delay
	MinDelay   time.Duration // minimum gap between calls; 0 = unlimited
}

// Validate reports whether the API client can be built. It is checked when an
// action needs the API, so commands like "templates" work without a key.
func (a AIConfig) Validate() error {
	if a.APIKey == "" {
		return fmt.Errorf("ai.api_key is empty: set %s or ai.api_key in the config file", EnvAPIKey)
	}
	return nil
}

// HistoryConfig controls the optional result store.
type HistoryConfig struct {
	Enabled bool
	Path    string
	Reuse   bool // answer identical inputs from the store
}

// NotificationConfig controls where shared results go.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr      string
	BodyLimit int // MiB
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	AI           rawAIConfig          `yaml:"ai"`
	History      rawHistoryConfig     `yaml:"history"`
	Notification NotificationConfig   `yaml:"notification"`
	Server       rawServerConfig      `yaml:"server"`
	Templates    []templates.Template `yaml:"templates"`
}

type rawAIConfig struct {
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"max_retries"`
	RetryDelay string `yaml:"retry_delay"`
	MinDelay   string `yaml:"min_delay"`
}

type rawHistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Reuse   bool   `yaml:"reuse"`
}

type rawServerConfig struct {
	Addr      string `yaml:"addr"`
	BodyLimit int    `yaml:"body_limit_mb"`
}

// ResolvePath picks the config file location: the flag value, then
// ATSMATCH_CONFIG, then DefaultPath. explicit is false only for DefaultPath.
func ResolvePath(flagValue string) (path string, explicit bool) {
	if flagValue != "" {
		return flagValue, true
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, true
	}
	return DefaultPath, false
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault behaves like Load, except that a missing file at a
// non-explicit path yields Default().
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
	}
	return Load(path)
}

// Default returns the built-in configuration with the API key taken from
// GEMINI_API_KEY.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		// Built-in defaults always validate.
		panic(err)
	}
	return cfg
}

// Parse expands environment variables in data, unmarshals it and applies
// defaults. Empty data yields the defaults.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	timeout, err := parseDuration("ai.timeout", raw.AI.Timeout, defaultTimeout)
	if err != nil {
		return nil, err
	}
	retryDelay, err := parseDuration("ai.retry_delay", raw.AI.RetryDelay, defaultRetryDelay)
	if err != nil {
		return nil, err
	}
	minDelay, err := parseDuration("ai.min_delay", raw.AI.MinDelay, 0)
	if err != nil {
		return nil, err
	}

	apiKey := raw.AI.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}

	cfg := &Config{
		AI: AIConfig{
			BaseURL:    orDefault(raw.AI.BaseURL, defaultBaseURL),
			Model:      orDefault(raw.AI.Model, defaultModel),
			APIKey:     apiKey,
			Timeout:    timeout,
			MaxRetries: raw.AI.MaxRetries,
			RetryDelay: retryDelay,
			MinDelay:   minDelay,
		},
		History: HistoryConfig{
			Enabled: raw.History.Enabled,
			Path:    orDefault(raw.History.Path, defaultHistoryDB),
			Reuse:   raw.History.Reuse,
		},
		Notification: NotificationConfig{
			Type:       orDefault(raw.Notification.Type, "log"),
			WebhookURL: raw.Notification.WebhookURL,
		},
		Server: ServerConfig{
			Addr:      orDefault(raw.Server.Addr, defaultAddr),
			BodyLimit: raw.Server.BodyLimit,
		},
		Templates: raw.Templates,
	}
	if cfg.Server.BodyLimit == 0 {
		cfg.Server.BodyLimit = defaultBodyLimit
	}
	if len(cfg.Templates) == 0 {
		cfg.Templates = templates.Defaults()
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive, got %v", cfg.AI.Timeout)
	}
	if cfg.AI.MaxRetries < 0 {
		return fmt.Errorf("ai.max_retries must not be negative, got %d", cfg.AI.MaxRetries)
	}
	if cfg.AI.RetryDelay < 0 || cfg.AI.MinDelay < 0 {
		return fmt.Errorf("ai.retry_delay and ai.min_delay must not be negative")
	}
	if !strings.HasPrefix(cfg.AI.BaseURL, "http://") && !strings.HasPrefix(cfg.AI.BaseURL, "https://") {
		return fmt.Errorf("ai.base_url must be an http(s) URL, got %q", cfg.AI.BaseURL)
	}

	if cfg.History.Reuse && !cfg.History.Enabled {
		return fmt.Errorf("history.reuse requires history.enabled")
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, slackWebhookPrefix) {
			return fmt.Errorf("notification.webhook_url must start with %s", slackWebhookPrefix)
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	if cfg.Server.BodyLimit < 0 {
		return fmt.Errorf("server.body_limit_mb must be positive, got %d", cfg.Server.BodyLimit)
	}

	for i, t := range cfg.Templates {
		if t.Name == "" {
			return fmt.Errorf("templates[%d].name is required", i)
		}
		if _, err := t.Preview(); err != nil {
			return fmt.Errorf("templates[%d] (%s): %w", i, t.Name, err)
		}
	}

	return nil
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
