// Package openrouter provides OpenRouter chat-completion integration for the relay.
package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"nerachat/internal/core"
	"nerachat/internal/llmclient"
)

const (
	providerName = "openrouter"

	// DefaultBaseURL is the public OpenRouter API root
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// Referer identifies the calling application in OpenRouter's rankings
	Referer = "https://github.com/HenshawMike/nera"

	// Titles sent in X-Title for each call type
	TitleChat   = "NERA Real Estate Assistant"
	TitleUpload = "NERA AI Assistant"
	TitleHealth = "NERA Health Check"
)

type titleKey struct{}

// WithTitle sets the X-Title header used for requests made with ctx.
func WithTitle(ctx context.Context, title string) context.Context {
	return context.WithValue(ctx, titleKey{}, title)
}

// Provider implements the core.Provider interface for OpenRouter
type Provider struct {
	client *llmclient.Client
	apiKey string
}

// New creates a new OpenRouter provider.
// An empty apiKey is accepted; calls then fail with a configuration error.
func New(apiKey, baseURL string, hooks llmclient.Hooks) *Provider {
	return NewWithHTTPClient(apiKey, baseURL, nil, hooks)
}

// NewWithHTTPClient creates a new OpenRouter provider with a custom HTTP client.
// If httpClient is nil, the shared default client is used.
func NewWithHTTPClient(apiKey, baseURL string, httpClient *http.Client, hooks llmclient.Hooks) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	p := &Provider{apiKey: apiKey}
	cfg := llmclient.Config{
		ProviderName: providerName,
		BaseURL:      baseURL,
		Hooks:        hooks,
	}
	if httpClient == nil {
		p.client = llmclient.New(cfg, p.setHeaders)
	} else {
		p.client = llmclient.NewWithHTTPClient(httpClient, cfg, p.setHeaders)
	}
	return p
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return providerName
}

// setHeaders sets the required headers for OpenRouter API requests
func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("HTTP-Referer", Referer)
	title, _ := req.Context().Value(titleKey{}).(string)
	if title == "" {
		title = TitleChat
	}
	req.Header.Set("X-Title", title)
}

func (p *Provider) requireKey() error {
	if p.apiKey == "" {
		return core.NewConfigurationError("OPENROUTER_API_KEY is not configured in environment variables")
	}
	return nil
}

// ChatCompletion sends a chat completion request to OpenRouter.
// OpenRouter can answer 200 with an {"error": {...}} body; that is reported as a provider error.
func (p *Provider) ChatCompletion(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	if err := p.requireKey(); err != nil {
		return nil, err
	}

	resp, err := p.client.DoRaw(ctx, llmclient.Request{
		Method:   http.MethodPost,
		Endpoint: "/chat/completions",
		Body:     req,
	})
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(resp.Body) {
		return nil, core.NewProviderError(providerName, "provider returned malformed JSON", nil)
	}
	if errMsg := gjson.GetBytes(resp.Body, "error.message"); errMsg.Exists() {
		status := int(gjson.GetBytes(resp.Body, "error.code").Int())
		if status == 0 {
			status = resp.StatusCode
		}
		return nil, core.ParseProviderError(providerName, status, resp.Body, nil)
	}

	var chatResp core.ChatResponse
	if err := json.Unmarshal(resp.Body, &chatResp); err != nil {
		return nil, core.NewProviderError(providerName, "failed to unmarshal response: "+err.Error(), err)
	}
	// A choice is only usable when its message carries string content.
	for i := range chatResp.Choices {
		if gjson.GetBytes(resp.Body, fmt.Sprintf("choices.%d.message.content", i)).Type != gjson.String {
			chatResp.Choices[i].Message = nil
		}
	}
	if chatResp.Model == "" {
		chatResp.Model = req.Model
	}
	return &chatResp, nil
}

// CheckAvailability verifies the API key against OpenRouter's key endpoint.
func (p *Provider) CheckAvailability(ctx context.Context) error {
	if err := p.requireKey(); err != nil {
		return err
	}
	return p.client.Do(WithTitle(ctx, TitleHealth), llmclient.Request{
		Method:   http.MethodGet,
		Endpoint: "/auth/key",
	}, nil)
}
