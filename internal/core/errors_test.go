package core

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGatewayError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *GatewayError
		expected string
	}{
		{
			name: "error with provider",
			err: &GatewayError{
				Type:     ErrorTypeProvider,
				Message:  "upstream error",
				Provider: "openrouter",
			},
			expected: "[openrouter] provider_error: upstream error",
		},
		{
			name: "error without provider",
			err: &GatewayError{
				Type:    ErrorTypeInvalidRequest,
				Message: "bad request",
			},
			expected: "invalid_request_error: bad request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestGatewayError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	gatewayErr := NewProviderError("openrouter", "wrapped error", originalErr)

	assert.ErrorIs(t, gatewayErr, originalErr)
}

func TestGatewayError_HTTPStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      *GatewayError
		expected int
	}{
		{"configuration", NewConfigurationError("no key"), http.StatusInternalServerError},
		{"provider", NewProviderError("openrouter", "boom", nil), http.StatusInternalServerError},
		{"invalid request", NewInvalidRequestError("empty", nil), http.StatusBadRequest},
		{"invalid request without explicit status", &GatewayError{Type: ErrorTypeInvalidRequest}, http.StatusBadRequest},
		{"unknown type without explicit status", &GatewayError{Type: "other"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.HTTPStatusCode())
		})
	}
}

func TestGatewayError_ToJSON(t *testing.T) {
	body := NewInvalidRequestError("No messages provided", nil).ToJSON()

	assert.Equal(t, "No messages provided", body["detail"])
	inner, ok := body["error"].(map[string]interface{})
	if assert.True(t, ok) {
		assert.Equal(t, ErrorTypeInvalidRequest, inner["type"])
		assert.Equal(t, "No messages provided", inner["message"])
	}
}

func TestParseProviderError(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		body        string
		wantMessage string
	}{
		{
			name:        "json error body",
			statusCode:  http.StatusUnauthorized,
			body:        `{"error":{"message":"No auth credentials found","code":401}}`,
			wantMessage: `HTTP error from openrouter API: 401 - {"error":{"message":"No auth credentials found","code":401}}`,
		},
		{
			name:        "indented json body",
			statusCode:  http.StatusBadRequest,
			body:        "{\n  \"error\": {\n    \"message\": \"bad model\"\n  }\n}\n",
			wantMessage: `HTTP error from openrouter API: 400 - {"error":{"message":"bad model"}}`,
		},
		{
			name:        "plain text body",
			statusCode:  http.StatusBadGateway,
			body:        "upstream unavailable\n",
			wantMessage: "HTTP error from openrouter API: 502 - upstream unavailable",
		},
		{
			name:        "json without error message",
			statusCode:  http.StatusTooManyRequests,
			body:        `{"error":{}}`,
			wantMessage: `HTTP error from openrouter API: 429 - {"error":{}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseProviderError("openrouter", tt.statusCode, []byte(tt.body), nil)
			assert.Equal(t, ErrorTypeProvider, err.Type)
			assert.Equal(t, tt.wantMessage, err.Message)
			assert.Equal(t, tt.statusCode, err.UpstreamStatus)
			assert.Equal(t, http.StatusInternalServerError, err.HTTPStatusCode())
		})
	}
}
