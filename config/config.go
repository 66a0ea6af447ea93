// Package config provides configuration management for the application.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultBodySizeLimit is the maximum request body size in bytes (25MB).
const DefaultBodySizeLimit int64 = 25 * 1024 * 1024

const (
	// DefaultModel is the OpenRouter model used when OPENROUTER_MODEL is unset
	DefaultModel = "deepseek/deepseek-chat-v3.1:free"
	// DefaultBaseURL is the OpenRouter API base URL
	DefaultBaseURL = "https://openrouter.ai/api/v1"
)

// DefaultAllowedOrigins lists the browser origins allowed by CORS when
// CORS_ALLOWED_ORIGINS is unset.
var DefaultAllowedOrigins = []string{
	"https://nera-ai.netlify.app",
	"http://localhost:5173",
	"http://localhost:3000",
}

// Config holds the application configuration
type Config struct {
	Server     ServerConfig
	OpenRouter OpenRouterConfig
	Extract    ExtractConfig
	Logging    LoggingConfig
	Metrics    MetricsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           string
	BodySizeLimit  int64
	AllowedOrigins []string
}

// OpenRouterConfig holds provider credentials and the model identifier.
// An empty APIKey does not prevent startup; requests fail with a configuration error instead.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// ExtractConfig holds file extraction settings
type ExtractConfig struct {
	// TempDir is where Word documents are staged during extraction.
	// Empty means the OS default temp directory.
	TempDir string
}

// LoggingConfig holds application log output settings
type LoggingConfig struct {
	Format string // "text" or "json"
	Level  string // "debug", "info", "warn", "error"
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled  bool
	Endpoint string
}

// Load reads configuration from an optional .env file and the environment
func Load() (*Config, error) {
	// Populate the process environment from .env (optional, won't fail if not found)
	// so that packages reading os.Getenv directly see the same values.
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8001")
	viper.SetDefault("OPENROUTER_MODEL", DefaultModel)
	viper.SetDefault("OPENROUTER_BASE_URL", DefaultBaseURL)
	viper.SetDefault("BODY_SIZE_LIMIT", DefaultBodySizeLimit)
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("METRICS_ENABLED", false)
	viper.SetDefault("METRICS_ENDPOINT", "/metrics")

	// Enable automatic environment variable reading
	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:           viper.GetString("PORT"),
			BodySizeLimit:  viper.GetInt64("BODY_SIZE_LIMIT"),
			AllowedOrigins: parseList(viper.GetString("CORS_ALLOWED_ORIGINS"), DefaultAllowedOrigins),
		},
		OpenRouter: OpenRouterConfig{
			APIKey:  strings.TrimSpace(viper.GetString("OPENROUTER_API_KEY")),
			Model:   viper.GetString("OPENROUTER_MODEL"),
			BaseURL: strings.TrimRight(viper.GetString("OPENROUTER_BASE_URL"), "/"),
		},
		Extract: ExtractConfig{
			TempDir: viper.GetString("EXTRACT_TEMP_DIR"),
		},
		Logging: LoggingConfig{
			Format: strings.ToLower(viper.GetString("LOG_FORMAT")),
			Level:  strings.ToLower(viper.GetString("LOG_LEVEL")),
		},
		Metrics: MetricsConfig{
			Enabled:  viper.GetBool("METRICS_ENABLED"),
			Endpoint: viper.GetString("METRICS_ENDPOINT"),
		},
	}

	if cfg.OpenRouter.Model == "" {
		cfg.OpenRouter.Model = DefaultModel
	}
	if cfg.Server.BodySizeLimit <= 0 {
		cfg.Server.BodySizeLimit = DefaultBodySizeLimit
	}

	return cfg, nil
}

// parseList splits a comma-separated value, falling back to def when nothing remains.
func parseList(raw string, def []string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), def...)
	}
	return out
}
