package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nerachat/internal/core"
	"nerachat/internal/llmclient"
)

func newTestProvider(t *testing.T, apiKey string, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewWithHTTPClient(apiKey, server.URL, server.Client(), llmclient.Hooks{})
}

func TestChatCompletion_Success(t *testing.T) {
	var (
		gotPath    string
		gotHeaders http.Header
		gotBody    core.ChatRequest
	)
	p := newTestProvider(t, "sk-or-test", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "gen-1",
			"model": "deepseek/deepseek-chat-v3.1:free",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "MARKET SUMMARY"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	})

	resp, err := p.ChatCompletion(context.Background(), &core.ChatRequest{
		Model:       "deepseek/deepseek-chat-v3.1:free",
		Messages:    []core.Message{{Role: core.RoleUser, Content: "Hi"}},
		Temperature: 0.7,
		MaxTokens:   1500,
	})
	require.NoError(t, err)

	content, ok := resp.FirstContent()
	assert.True(t, ok)
	assert.Equal(t, "MARKET SUMMARY", content)
	assert.Equal(t, 15, resp.TotalTokens())

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-or-test", gotHeaders.Get("Authorization"))
	assert.Equal(t, Referer, gotHeaders.Get("HTTP-Referer"))
	assert.Equal(t, TitleChat, gotHeaders.Get("X-Title"))
	assert.Equal(t, 1500, gotBody.MaxTokens)
	assert.InDelta(t, 0.7, gotBody.Temperature, 1e-9)
}

func TestChatCompletion_TitleFromContext(t *testing.T) {
	var title string
	p := newTestProvider(t, "key", func(w http.ResponseWriter, r *http.Request) {
		title = r.Header.Get("X-Title")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := p.ChatCompletion(WithTitle(context.Background(), TitleUpload), &core.ChatRequest{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, TitleUpload, title)
}

func TestChatCompletion_MissingKey(t *testing.T) {
	called := false
	p := newTestProvider(t, "", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := p.ChatCompletion(context.Background(), &core.ChatRequest{Model: "m"})

	var gwErr *core.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, core.ErrorTypeConfiguration, gwErr.Type)
	assert.False(t, called, "no request may be sent without a credential")
}

func TestChatCompletion_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantContain string
	}{
		{
			name:        "upstream status",
			status:      http.StatusPaymentRequired,
			body:        `{"error":{"message":"Insufficient credits","code":402}}`,
			wantContain: `402 - {"error":{"message":"Insufficient credits","code":402}}`,
		},
		{
			name:        "error object in 200 body",
			status:      http.StatusOK,
			body:        `{"error":{"message":"Rate limit exceeded","code":429}}`,
			wantContain: `429 - {"error":{"message":"Rate limit exceeded","code":429}}`,
		},
		{
			name:        "malformed json",
			status:      http.StatusOK,
			body:        `<html>gateway</html>`,
			wantContain: "malformed JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, "key", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := p.ChatCompletion(context.Background(), &core.ChatRequest{Model: "m"})

			var gwErr *core.GatewayError
			require.True(t, errors.As(err, &gwErr))
			assert.Equal(t, core.ErrorTypeProvider, gwErr.Type)
			assert.Contains(t, gwErr.Message, tt.wantContain)
		})
	}
}

func TestChatCompletion_ChoicesWithoutContent(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "choice without message", body: `{"choices":[{}]}`},
		{name: "message without content", body: `{"choices":[{"message":{}}]}`},
		{name: "null content", body: `{"choices":[{"message":{"content":null}}]}`},
		{name: "non-string content", body: `{"choices":[{"message":{"content":42}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, "key", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			resp, err := p.ChatCompletion(context.Background(), &core.ChatRequest{Model: "m"})
			require.NoError(t, err)
			_, ok := resp.FirstContent()
			assert.False(t, ok)
		})
	}
}

func TestChatCompletion_EmptyContentIsAnAnswer(t *testing.T) {
	p := newTestProvider(t, "key", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":""}}]}`))
	})

	resp, err := p.ChatCompletion(context.Background(), &core.ChatRequest{Model: "m"})
	require.NoError(t, err)
	content, ok := resp.FirstContent()
	assert.True(t, ok)
	assert.Equal(t, "", content)
}

func TestChatCompletion_ModelDefaultsToRequest(t *testing.T) {
	p := newTestProvider(t, "key", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	resp, err := p.ChatCompletion(context.Background(), &core.ChatRequest{Model: "requested/model"})
	require.NoError(t, err)
	assert.Equal(t, "requested/model", resp.Model)
	assert.Equal(t, 0, resp.TotalTokens())
}

func TestCheckAvailability(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		var path, title string
		p := newTestProvider(t, "key", func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			title = r.Header.Get("X-Title")
			_, _ = w.Write([]byte(`{"data":{"label":"sk-or-...","usage":0}}`))
		})

		require.NoError(t, p.CheckAvailability(context.Background()))
		assert.Equal(t, "/auth/key", path)
		assert.Equal(t, TitleHealth, title)
	})

	t.Run("rejected key", func(t *testing.T) {
		p := newTestProvider(t, "bad", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid API key"}}`))
		})

		err := p.CheckAvailability(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid API key")
	})

	t.Run("missing key", func(t *testing.T) {
		p := New("", "", llmclient.Hooks{})
		err := p.CheckAvailability(context.Background())

		var gwErr *core.GatewayError
		require.True(t, errors.As(err, &gwErr))
		assert.Equal(t, core.ErrorTypeConfiguration, gwErr.Type)
	})
}

func TestProvider_Name(t *testing.T) {
	assert.Equal(t, "openrouter", New("k", "", llmclient.Hooks{}).Name())
}
