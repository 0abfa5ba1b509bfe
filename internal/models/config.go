package models

import "time"

// ProjectConfig is the top-level configuration for medboard
type ProjectConfig struct {
	Source SourceConfig `yaml:"source" json:"source"`
	Retry  RetryConfig  `yaml:"retry" json:"retry"`
	Server ServerConfig `yaml:"server" json:"server"`
	Log    LogConfig    `yaml:"log" json:"log"`
}

// SourceConfig describes the upstream people directory
type SourceConfig struct {
	BaseURL        string `yaml:"base_url" json:"base_url"`
	Limit          int    `yaml:"limit" json:"limit"`                     // Number of users requested per fetch
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"` // Per-request timeout
}

// RetryConfig controls retry behavior for transient errors
type RetryConfig struct {
	MaxAttempts      int   `yaml:"max_attempts" json:"max_attempts"`
	InitialBackoffMs int64 `yaml:"initial_backoff_ms" json:"initial_backoff_ms"`
	MaxBackoffMs     int64 `yaml:"max_backoff_ms" json:"max_backoff_ms"`
}

// ServerConfig contains settings for the HTTP surface started by `medboard serve`
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level string `yaml:"level" json:"level"` // debug | info | warn | error
}

// Timeout returns the source request timeout as a duration
func (c SourceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		Source: SourceConfig{
			BaseURL:        "https://dummyjson.com",
			Limit:          50,
			TimeoutSeconds: 30,
		},
		Retry: RetryConfig{
			MaxAttempts:      3,
			InitialBackoffMs: 500,
			MaxBackoffMs:     5000,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
