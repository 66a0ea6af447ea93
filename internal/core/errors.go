// Package core provides core types and interfaces for the chat relay.
package core

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrorType represents the type of error that occurred
type ErrorType string

const (
	// ErrorTypeConfiguration indicates missing or invalid service configuration (500)
	ErrorTypeConfiguration ErrorType = "configuration_error"
	// ErrorTypeProvider indicates an upstream provider failure (500)
	ErrorTypeProvider ErrorType = "provider_error"
	// ErrorTypeInvalidRequest indicates a client error (400)
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"
)

// GatewayError is the base error type for all relay errors
type GatewayError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Provider   string    `json:"provider,omitempty"`
	// UpstreamStatus is the HTTP status returned by the provider, if any
	UpstreamStatus int `json:"upstream_status,omitempty"`
	// Original error for debugging (not exposed to clients)
	Err error `json:"-"`
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Provider, e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the appropriate HTTP status code for this error
func (e *GatewayError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ToJSON converts the error to a JSON-compatible map.
// "detail" mirrors the message so clients can read a single top-level field.
func (e *GatewayError) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"detail": e.Message,
		"error": map[string]interface{}{
			"type":    e.Type,
			"message": e.Message,
		},
	}
}

// NewConfigurationError creates a new configuration error (500)
func NewConfigurationError(message string) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeConfiguration,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewProviderError creates a new provider error (500)
func NewProviderError(provider string, message string, err error) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeProvider,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Provider:   provider,
		Err:        err,
	}
}

// NewInvalidRequestError creates a new invalid request error (400)
func NewInvalidRequestError(message string, err error) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeInvalidRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// ParseProviderError builds a provider error from a non-success upstream response.
// The message carries the upstream status and the raw body; JSON bodies are compacted onto one line.
func ParseProviderError(provider string, statusCode int, body []byte, originalErr error) *GatewayError {
	detail := strings.TrimSpace(string(body))
	if gjson.ValidBytes(body) {
		detail = gjson.GetBytes(body, "@ugly").Raw
	}

	err := NewProviderError(provider,
		fmt.Sprintf("HTTP error from %s API: %d - %s", provider, statusCode, detail),
		originalErr)
	err.UpstreamStatus = statusCode
	return err
}
