package core

import "context"

// Provider defines the interface for the upstream LLM service
type Provider interface {
	// Name identifies the provider in errors and metrics
	Name() string

	// ChatCompletion executes a chat completion request
	ChatCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// CheckAvailability verifies the credential is configured and the provider is reachable.
	// Returns nil if available, error otherwise.
	CheckAvailability(ctx context.Context) error
}
