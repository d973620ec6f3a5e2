package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("chat completion", "https://example.test/v1", cause)

	expected := "network error during chat completion at https://example.test/v1: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, ErrNetwork) {
		t.Error("Expected NetworkError to match ErrNetwork")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected NetworkError to unwrap to its cause")
	}

	noEndpoint := NewNetworkError("chat completion", "", cause)
	if noEndpoint.Error() != "network error during chat completion: connection refused" {
		t.Errorf("Error() without endpoint = %s", noEndpoint.Error())
	}
}

func TestAPIError(t *testing.T) {
	err := NewAPIError(401, "test-endpoint", "Invalid API Key")

	expected := "API error [401] at test-endpoint: Invalid API Key"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "test-endpoint", "boom")
	if noStatus.Error() != "API error at test-endpoint: boom" {
		t.Errorf("Error() without status = %s", noStatus.Error())
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("unrecognized response shape", 200, "{}")

	if err.Error() != "parse error: unrecognized response shape" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("Expected ParseError to match ErrInvalidResponse")
	}
	if errors.Is(err, ErrNetwork) {
		t.Error("ParseError should not match ErrNetwork")
	}
}

func TestParseError_TruncatesBody(t *testing.T) {
	body := make([]byte, 5000)
	for i := range body {
		body[i] = 'x'
	}
	err := NewParseError("too big", 500, string(body))
	if len(err.Body) != 4096 {
		t.Errorf("Body length = %d, want 4096", len(err.Body))
	}
}

func TestChatMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"missing key", ErrMissingAPIKey, MissingKeyMessage},
		{"wrapped missing key", fmt.Errorf("complete: %w", ErrMissingAPIKey), MissingKeyMessage},
		{"network", NewNetworkError("op", "", errors.New("dial tcp")), NetworkMessage},
		{"api", NewAPIError(400, "e", "x"), "❌ API Error: x"},
		{"wrapped api", fmt.Errorf("complete: %w", NewAPIError(429, "e", "rate limited")), "❌ API Error: rate limited"},
		{"parse", NewParseError("bad", 200, ""), FallbackMessage},
		{"unknown", errors.New("something else"), FallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChatMessage(tt.err); got != tt.want {
				t.Errorf("ChatMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	apiErr := NewAPIError(503, "https://x", "down")
	netErr := NewNetworkError("op", "https://y", errors.New("eof"))
	parseErr := NewParseError("bad", 502, "")

	if !IsAPIError(apiErr) || IsAPIError(netErr) {
		t.Error("IsAPIError mismatch")
	}
	if !IsNetworkError(netErr) || IsNetworkError(apiErr) {
		t.Error("IsNetworkError mismatch")
	}
	if !IsParseError(parseErr) || IsParseError(apiErr) {
		t.Error("IsParseError mismatch")
	}
	if GetHTTPStatus(apiErr) != 503 {
		t.Errorf("GetHTTPStatus(apiErr) = %d", GetHTTPStatus(apiErr))
	}
	if GetHTTPStatus(parseErr) != 502 {
		t.Errorf("GetHTTPStatus(parseErr) = %d", GetHTTPStatus(parseErr))
	}
	if GetHTTPStatus(netErr) != 0 {
		t.Errorf("GetHTTPStatus(netErr) = %d", GetHTTPStatus(netErr))
	}
	if GetEndpoint(apiErr) != "https://x" || GetEndpoint(netErr) != "https://y" {
		t.Error("GetEndpoint mismatch")
	}
	if GetEndpoint(parseErr) != "" {
		t.Error("GetEndpoint(parseErr) should be empty")
	}
}
