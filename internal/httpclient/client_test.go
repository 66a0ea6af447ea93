package httpclient

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "unset uses default", value: "", want: 5 * time.Second},
		{name: "integer seconds", value: "45", want: 45 * time.Second},
		{name: "duration string", value: "2m", want: 2 * time.Minute},
		{name: "garbage uses default", value: "soon", want: 5 * time.Second},
		{name: "negative uses default", value: "-3", want: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HTTPCLIENT_TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, envDuration("HTTPCLIENT_TEST_DURATION", 5*time.Second))
		})
	}
}

func TestNewHTTPClient_UsesConfig(t *testing.T) {
	client := NewHTTPClient(&ClientConfig{
		Timeout:               7 * time.Second,
		ResponseHeaderTimeout: 3 * time.Second,
	})

	assert.Equal(t, 7*time.Second, client.Timeout)
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, transport.ResponseHeaderTimeout)
	assert.True(t, transport.DisableCompression)
}

func TestNewHTTPClient_DefaultsFromEnv(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "30")

	client := NewHTTPClient(nil)
	assert.Equal(t, 30*time.Second, client.Timeout)
}
