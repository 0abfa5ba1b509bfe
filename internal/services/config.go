package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trobanga/medboard/internal/lib"
	"github.com/trobanga/medboard/internal/models"
)

// flagBindings maps CLI flag names to configuration keys
var flagBindings = map[string]string{
	"source":    "source.base_url",
	"limit":     "source.limit",
	"timeout":   "source.timeout_seconds",
	"addr":      "server.addr",
	"log-level": "log.level",
}

// LoadConfig loads configuration from file and merges with CLI flags
// Priority order (highest to lowest):
//  1. CLI flags (only flags that were set explicitly)
//  2. Environment variables (MEDBOARD_SOURCE_BASE_URL, ...)
//  3. Configuration file
//  4. Default values
func LoadConfig(configFile string, flags *pflag.FlagSet) (*models.ProjectConfig, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		// Search for config in standard locations
		v.SetConfigName("medboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/medboard")
	}

	setDefaults(v, models.DefaultConfig())

	v.SetEnvPrefix("MEDBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for flagName, key := range flagBindings {
			if f := flags.Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", flagName, err)
				}
			}
		}
	}

	// Read config file (optional - don't fail if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Build config manually from viper values
	config := models.ProjectConfig{
		Source: models.SourceConfig{
			BaseURL:        v.GetString("source.base_url"),
			Limit:          v.GetInt("source.limit"),
			TimeoutSeconds: v.GetInt("source.timeout_seconds"),
		},
		Retry: models.RetryConfig{
			MaxAttempts:      v.GetInt("retry.max_attempts"),
			InitialBackoffMs: v.GetInt64("retry.initial_backoff_ms"),
			MaxBackoffMs:     v.GetInt64("retry.max_backoff_ms"),
		},
		Server: models.ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		Log: models.LogConfig{
			Level: strings.ToLower(v.GetString("log.level")),
		},
	}

	if err := config.Validate(); err != nil {
		var cfgErr *models.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, lib.ErrInvalidConfig(cfgErr.Field, cfgErr.Reason)
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper, defaults models.ProjectConfig) {
	v.SetDefault("source.base_url", defaults.Source.BaseURL)
	v.SetDefault("source.limit", defaults.Source.Limit)
	v.SetDefault("source.timeout_seconds", defaults.Source.TimeoutSeconds)
	v.SetDefault("retry.max_attempts", defaults.Retry.MaxAttempts)
	v.SetDefault("retry.initial_backoff_ms", defaults.Retry.InitialBackoffMs)
	v.SetDefault("retry.max_backoff_ms", defaults.Retry.MaxBackoffMs)
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("log.level", defaults.Log.Level)
}
