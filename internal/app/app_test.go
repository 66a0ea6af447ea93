package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nerachat/config"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "0",
			BodySizeLimit:  config.DefaultBodySizeLimit,
			AllowedOrigins: config.DefaultAllowedOrigins,
		},
		OpenRouter: config.OpenRouterConfig{
			APIKey:  "test-key",
			Model:   "test/model",
			BaseURL: baseURL,
		},
		Extract: config.ExtractConfig{
			TempDir: filepath.Join(t.TempDir(), "uploads"),
		},
	}
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNew_CreatesTempDir(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")

	a, err := New(cfg)
	require.NoError(t, err)
	assert.DirExists(t, cfg.Extract.TempDir)
	assert.Equal(t, "test/model", a.Service().Model())
}

func TestApp_ChatRoundTrip(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"gen-1","model":"test/model","choices":[{"index":0,"message":{"role":"assistant","content":"HELLO"}}]}`))
	}))
	defer upstream.Close()

	a, err := New(testConfig(t, upstream.URL))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":{"role":"assistant","content":"HELLO"}}`, rec.Body.String())
}

func TestApp_ShutdownIdempotent(t *testing.T) {
	a, err := New(testConfig(t, "http://127.0.0.1:1"))
	require.NoError(t, err)

	require.NoError(t, a.Shutdown(context.Background()))
	require.NoError(t, a.Shutdown(context.Background()))
}
