package models

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that a patient carries every required field and that the
// categorical fields are members of their fixed sets. The ID is not checked;
// the store assigns it on add.
func (p *Patient) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"firstName", p.FirstName},
		{"lastName", p.LastName},
		{"email", p.Email},
		{"phone", p.Phone},
		{"birthDate", p.BirthDate},
		{"admissionDate", p.AdmissionDate},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s is required", field.name)
		}
	}

	if !IsValidGender(p.Gender) {
		return fmt.Errorf("invalid gender: %q", p.Gender)
	}
	if !IsValidDepartment(p.Department) {
		return fmt.Errorf("invalid department: %q", p.Department)
	}
	if !IsValidStatus(p.Status) {
		return fmt.Errorf("invalid status: %q", p.Status)
	}
	if !IsValidBloodGroup(p.BloodGroup) {
		return fmt.Errorf("invalid blood group: %q", p.BloodGroup)
	}

	return nil
}

// ConfigError names the configuration key that failed validation
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

func invalidConfig(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks if a ProjectConfig has valid fields.
// Failures are *ConfigError values.
func (c *ProjectConfig) Validate() error {
	if c.Source.BaseURL == "" {
		return invalidConfig("source.base_url", "source.base_url is required")
	}
	u, err := url.Parse(c.Source.BaseURL)
	if err != nil {
		return invalidConfig("source.base_url", "invalid source.base_url: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalidConfig("source.base_url", "source.base_url must use http or https, got %q", u.Scheme)
	}

	if c.Source.Limit < 1 || c.Source.Limit > 100 {
		return invalidConfig("source.limit", "source.limit must be between 1 and 100, got %d", c.Source.Limit)
	}
	if c.Source.TimeoutSeconds <= 0 {
		return invalidConfig("source.timeout_seconds", "source.timeout_seconds must be > 0, got %d", c.Source.TimeoutSeconds)
	}

	// Validate retry configuration
	if c.Retry.MaxAttempts < 1 || c.Retry.MaxAttempts > 10 {
		return invalidConfig("retry.max_attempts", "max_attempts must be between 1 and 10")
	}
	if c.Retry.InitialBackoffMs <= 0 {
		return invalidConfig("retry.initial_backoff_ms", "initial_backoff_ms must be positive")
	}
	if c.Retry.MaxBackoffMs <= 0 {
		return invalidConfig("retry.max_backoff_ms", "max_backoff_ms must be positive")
	}
	if c.Retry.InitialBackoffMs >= c.Retry.MaxBackoffMs {
		return invalidConfig("retry.initial_backoff_ms", "initial_backoff_ms must be less than max_backoff_ms")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalidConfig("log.level", "log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	return nil
}
