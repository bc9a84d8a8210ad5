// Package config provides configuration for the chat relay.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds the relay configuration, loaded from environment variables.
type Config struct {
	// Server settings
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Upstream model
	LLMProvider   string `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash-001"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeoutMS  int    `env:"LLM_TIMEOUT_MS" envDefault:"120000"`

	// Storage. DATABASE_URL takes precedence; otherwise the SQLite file is
	// derived from DATABASE_NAME.
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"chatrelay"`

	// Context composition. Zero means no truncation of prior turns.
	ContextMaxTokens int `env:"CONTEXT_MAX_TOKENS" envDefault:"0"`

	// Message admission policy. Empty means the built-in default policy.
	PolicyPath string `env:"POLICY_PATH"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// DSN returns the SQLite data source name.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("file:%s.db?cache=shared&mode=rwc", c.DatabaseName)
}

// LLMTimeout returns the upstream call timeout as a duration.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutMS) * time.Millisecond
}
