// Package errors provides the error types for the completion client and the
// conversion of those errors into chat transcript text.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrMissingAPIKey   = errors.New("API key not found")
	ErrNetwork         = errors.New("network error")
	ErrInvalidResponse = errors.New("invalid response format")
)

// Chat strings shown in place of a reply when a completion fails.
const (
	MissingKeyMessage = "❌ Error: API key not found. Set GROQ_API_KEY (or api_key in the config file) and restart."
	NetworkMessage    = "❌ Network error. Please check your internet connection and API key."
	APIMessagePrefix  = "❌ API Error: "
	FallbackMessage   = "❌ Sorry, I encountered an error. Please try again."
)

// NetworkError represents a transport failure, including a body that cannot be decoded
type NetworkError struct {
	Operation string
	Endpoint  string
	Cause     error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Cause)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// Is allows comparison with sentinel errors
func (e *NetworkError) Is(target error) bool {
	if target == ErrNetwork {
		return true
	}
	_, ok := target.(*NetworkError)
	return ok
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, cause error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Cause: cause}
}

// APIError represents an error payload returned by the upstream API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// ParseError represents a response body of unrecognized shape
type ParseError struct {
	Message    string
	StatusCode int
	Body       string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError. The body is kept for diagnostics
// and truncated to 4KB.
func NewParseError(message string, statusCode int, body string) *ParseError {
	if len(body) > 4096 {
		body = body[:4096]
	}
	return &ParseError{Message: message, StatusCode: statusCode, Body: body}
}

// IsMissingAPIKey reports whether err is the missing-secret error
func IsMissingAPIKey(err error) bool {
	return errors.Is(err, ErrMissingAPIKey)
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsAPIError reports whether err carries an upstream error payload
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsParseError reports whether err is an unrecognized response shape
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}

// GetHTTPStatus extracts the HTTP status code from an error, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint from an error, or ""
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// ChatMessage converts a completion error into the assistant text that
// replaces the reply. It never returns an empty string for a non-nil error.
func ChatMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	switch {
	case IsMissingAPIKey(err):
		return MissingKeyMessage
	case IsNetworkError(err):
		return NetworkMessage
	case errors.As(err, &apiErr):
		return APIMessagePrefix + apiErr.Message
	default:
		return FallbackMessage
	}
}
