package lib

import (
	"errors"
	"fmt"
	"strings"
)

// AppError represents a user-friendly error with context and guidance
type AppError struct {
	Category    ErrorCategory
	Message     string   // Short description of what went wrong
	Cause       error    // Underlying error
	Guidance    []string // What the user can do to fix it
	HTTPStatus  int      // HTTP status code if applicable
	IsRetryable bool     // Can this error be automatically retried?
}

// ErrorCategory classifies errors for better UX
type ErrorCategory string

const (
	CategoryNetwork       ErrorCategory = "network"
	CategoryService       ErrorCategory = "service"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryState         ErrorCategory = "state"
)

// Error implements the error interface
func (e *AppError) Error() string {
	var sb strings.Builder

	// Category prefix for clarity
	sb.WriteString(fmt.Sprintf("[%s] ", strings.ToUpper(string(e.Category))))
	sb.WriteString(e.Message)

	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if e.HTTPStatus > 0 {
		sb.WriteString(fmt.Sprintf(" (HTTP %d)", e.HTTPStatus))
	}

	return sb.String()
}

// UserMessage returns a formatted message suitable for displaying to end users
func (e *AppError) UserMessage() string {
	var sb strings.Builder

	sb.WriteString("❌ Error: ")
	sb.WriteString(e.Message)
	sb.WriteString("\n")

	if len(e.Guidance) > 0 {
		sb.WriteString("\n💡 How to fix:\n")
		for i, guide := range e.Guidance {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, guide))
		}
	}

	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf("\nTechnical details: %v\n", e.Cause))
	}

	if e.IsRetryable {
		sb.WriteString("\n🔄 This error is transient; run the fetch again to retry.\n")
	}

	return sb.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Network Errors

// ErrNetworkUnreachable creates an error for network connectivity issues
func ErrNetworkUnreachable(url string, cause error) *AppError {
	return &AppError{
		Category: CategoryNetwork,
		Message:  fmt.Sprintf("Cannot reach patient directory at %s", url),
		Cause:    cause,
		Guidance: []string{
			"Check your network connection",
			fmt.Sprintf("Verify the URL is correct: %s", url),
			"Override the directory with --source or MEDBOARD_SOURCE_BASE_URL",
		},
		IsRetryable: true,
	}
}

// ErrNetworkTimeout creates an error for request timeouts
func ErrNetworkTimeout(url string, cause error) *AppError {
	return &AppError{
		Category: CategoryNetwork,
		Message:  fmt.Sprintf("Request to %s timed out", url),
		Cause:    cause,
		Guidance: []string{
			"The directory may be overloaded or slow to respond",
			"Wait a moment and try again",
			"Consider increasing source.timeout_seconds in configuration",
		},
		IsRetryable: true,
	}
}

// Service Errors

// ErrServiceUnavailable creates an error for 5xx service errors
func ErrServiceUnavailable(serviceName string, statusCode int, cause error) *AppError {
	return &AppError{
		Category:   CategoryService,
		Message:    "Failed to fetch patients",
		Cause:      cause,
		HTTPStatus: statusCode,
		Guidance: []string{
			fmt.Sprintf("The %s service is temporarily unavailable", serviceName),
			"Wait a moment and retry the fetch",
		},
		IsRetryable: true,
	}
}

// ErrServiceBadRequest creates an error for 4xx client errors
func ErrServiceBadRequest(serviceName string, statusCode int, message string) *AppError {
	var cause error
	if message != "" {
		cause = errors.New(message)
	}
	return &AppError{
		Category:   CategoryService,
		Message:    "Failed to fetch patients",
		Cause:      cause,
		HTTPStatus: statusCode,
		Guidance: []string{
			fmt.Sprintf("%s rejected the request", serviceName),
			"Check source.base_url and source.limit in your configuration",
			"This error requires manual investigation - automatic retry will not help",
		},
		IsRetryable: false,
	}
}

// Parse Errors

// ErrMalformedResponse creates an error for a response body that is not the expected JSON
func ErrMalformedResponse(serviceName string, cause error) *AppError {
	return &AppError{
		Category: CategoryParse,
		Message:  fmt.Sprintf("%s returned a response that could not be parsed", serviceName),
		Cause:    cause,
		Guidance: []string{
			"Verify source.base_url points at a users directory endpoint",
			"Expected a JSON object with a \"users\" array",
		},
		IsRetryable: false,
	}
}

// ErrMalformedRecord creates an error for a directory record missing required fields
func ErrMalformedRecord(index int, cause error) *AppError {
	return &AppError{
		Category: CategoryParse,
		Message:  fmt.Sprintf("Directory record %d is malformed", index),
		Cause:    cause,
		Guidance: []string{
			"Every record needs id, firstName, lastName, email, phone, birthDate and gender",
			"The whole fetch was aborted; no partial collection was loaded",
		},
		IsRetryable: false,
	}
}

// Configuration Errors

// ErrInvalidConfig creates an error for configuration validation failures
func ErrInvalidConfig(field string, reason string) *AppError {
	return &AppError{
		Category: CategoryConfiguration,
		Message:  fmt.Sprintf("Invalid configuration: %s", reason),
		Guidance: []string{
			fmt.Sprintf("Check the '%s' field in your config file", field),
			"Compare with medboard.example.yaml for correct format",
		},
		IsRetryable: false,
	}
}

// State Errors

// ErrPatientNotFound creates an error for an unknown patient id
func ErrPatientNotFound(id int) *AppError {
	return &AppError{
		Category: CategoryState,
		Message:  fmt.Sprintf("Patient %d not found", id),
		Guidance: []string{
			"Check the patient ID is correct",
			"Use 'list' to see the loaded patients",
		},
		IsRetryable: false,
	}
}

// Validation Errors

// ErrInvalidPatient creates an error for a patient record rejected at input
func ErrInvalidPatient(cause error) *AppError {
	return &AppError{
		Category: CategoryValidation,
		Message:  "Invalid patient record",
		Cause:    cause,
		Guidance: []string{
			"Fill in every required field",
			"Department, status and blood group must come from their fixed lists",
		},
		IsRetryable: false,
	}
}

// Helper Functions

// WrapError wraps a standard error with AppError context
func WrapError(category ErrorCategory, message string, cause error, guidance ...string) *AppError {
	return &AppError{
		Category:    category,
		Message:     message,
		Cause:       cause,
		Guidance:    guidance,
		IsRetryable: IsNetworkError(cause),
	}
}

// ClassifyError examines an error and returns appropriate user guidance
func ClassifyError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if IsNetworkError(err) {
		return &AppError{
			Category:    CategoryNetwork,
			Message:     "Network connectivity issue",
			Cause:       err,
			Guidance:    []string{"Check network connection", "Verify the directory is reachable", "Retry the fetch"},
			IsRetryable: true,
		}
	}

	// Generic fallback
	return &AppError{
		Category:    CategoryValidation,
		Message:     "An error occurred",
		Cause:       err,
		Guidance:    []string{"Check the technical details below", "Run with --verbose for more information"},
		IsRetryable: false,
	}
}

// FetchErrorMessage returns the human-readable description recorded in the
// store when a fetch fails
func FetchErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Cause != nil && appErr.Category != CategoryService {
			return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
		return appErr.Message
	}
	return err.Error()
}
