// Package llmclient provides a base HTTP client for the LLM provider with:
// - Request marshaling/unmarshaling
// - Standardized error parsing for non-success responses
// - Transparent decoding of compressed response bodies
// - Request hooks for metrics
//
// Requests are sent exactly once; there is no retry or backoff layer.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"nerachat/internal/core"
	"nerachat/internal/httpclient"
)

// acceptEncoding is advertised on every request; bodies are decoded in decodeBody.
const acceptEncoding = "br, gzip, deflate"

// Config holds configuration for the LLM client
type Config struct {
	// ProviderName identifies the provider for error messages
	ProviderName string

	// BaseURL is the API base URL
	BaseURL string

	// Hooks observe every outbound request
	Hooks Hooks
}

// RequestInfo describes a finished outbound request
type RequestInfo struct {
	Provider   string
	Method     string
	Endpoint   string
	StatusCode int // 0 when no response was received
	Duration   time.Duration
	Err        error
}

// Hooks are optional callbacks invoked around outbound requests
type Hooks struct {
	OnRequestEnd func(ctx context.Context, info RequestInfo)
}

// HeaderSetter is a function that sets headers on an HTTP request
type HeaderSetter func(req *http.Request)

// Client is a base HTTP client for LLM providers
type Client struct {
	httpClient   *http.Client
	config       Config
	headerSetter HeaderSetter
}

// New creates a new LLM client with the given configuration
func New(config Config, headerSetter HeaderSetter) *Client {
	return NewWithHTTPClient(httpclient.NewHTTPClient(nil), config, headerSetter)
}

// NewWithHTTPClient creates a new LLM client with a custom HTTP client.
// If httpClient is nil, http.DefaultClient is used.
func NewWithHTTPClient(httpClient *http.Client, config Config, headerSetter HeaderSetter) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:   httpClient,
		config:       config,
		headerSetter: headerSetter,
	}
}

// Request represents an HTTP request to be made
type Request struct {
	Method   string
	Endpoint string
	Body     interface{} // Will be JSON marshaled if not nil
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
}

// Do executes a request and unmarshals the response into result
func (c *Client) Do(ctx context.Context, req Request, result interface{}) error {
	resp, err := c.DoRaw(ctx, req)
	if err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return core.NewProviderError(c.config.ProviderName, "failed to unmarshal response: "+err.Error(), err)
		}
	}

	return nil
}

// DoRaw executes a request, returning the decoded body of a 2xx response.
// Any other status becomes a provider error carrying the upstream status and body.
func (c *Client) DoRaw(ctx context.Context, req Request) (resp *Response, err error) {
	start := time.Now()
	statusCode := 0
	defer func() {
		if c.config.Hooks.OnRequestEnd != nil {
			c.config.Hooks.OnRequestEnd(ctx, RequestInfo{
				Provider:   c.config.ProviderName,
				Method:     req.Method,
				Endpoint:   req.Endpoint,
				StatusCode: statusCode,
				Duration:   time.Since(start),
				Err:        err,
			})
		}
	}()

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, core.NewProviderError(c.config.ProviderName, "failed to send request: "+err.Error(), err)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()
	statusCode = httpResp.StatusCode

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, core.NewProviderError(c.config.ProviderName, "failed to read response: "+err.Error(), err)
	}

	body, err := decodeBody(raw, httpResp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, core.NewProviderError(c.config.ProviderName, "failed to decode response: "+err.Error(), err)
	}

	if statusCode < 200 || statusCode >= 300 {
		return nil, core.ParseProviderError(c.config.ProviderName, statusCode, body, nil)
	}

	return &Response{
		StatusCode: statusCode,
		Body:       body,
	}, nil
}

// buildRequest creates an HTTP request from a Request
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := c.config.BaseURL + req.Endpoint

	var bodyReader io.Reader
	if req.Body != nil {
		bodyBytes, err := json.Marshal(req.Body)
		if err != nil {
			return nil, core.NewInvalidRequestError("failed to marshal request", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, bodyReader)
	if err != nil {
		return nil, core.NewInvalidRequestError("failed to create request", err)
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept-Encoding", acceptEncoding)

	if requestID := core.GetRequestID(ctx); requestID != "" {
		httpReq.Header.Set(core.RequestIDHeader, requestID)
	}

	// Apply provider-specific headers
	if c.headerSetter != nil {
		c.headerSetter(httpReq)
	}

	return httpReq, nil
}
