// Package config provides configuration management for the application.
package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultBodySizeLimit is the default maximum request body size (10 MiB).
// It leaves headroom above the 5 MiB decoded image limit for base64 overhead
// and the JSON envelope.
const DefaultBodySizeLimit int64 = 10 * 1024 * 1024

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
	Models   ModelsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port          string
	BodySizeLimit int64
	// MaxInflight bounds concurrent /chat requests; 0 means unlimited.
	MaxInflight int64
	CORSOrigins []string
}

// UpstreamConfig holds the inference provider configuration.
type UpstreamConfig struct {
	// APIKey is the provider secret. It must never be logged.
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// MetricsConfig holds prometheus exposure configuration.
type MetricsConfig struct {
	Enabled  bool
	Endpoint string
}

// LoggingConfig holds log output configuration.
type LoggingConfig struct {
	// Format is "json" or "text".
	Format string
}

// ModelsConfig holds the optional model table override.
type ModelsConfig struct {
	// File is a YAML model table loaded once at startup; empty uses the
	// built-in table.
	File string
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // .env file is optional

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("UPSTREAM_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("UPSTREAM_TIMEOUT", "30")
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("METRICS_ENDPOINT", "/metrics")
	viper.SetDefault("BODY_SIZE_LIMIT", DefaultBodySizeLimit)
	viper.SetDefault("MAX_INFLIGHT", 0)
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("LOG_FORMAT", "json")

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:          viper.GetString("PORT"),
			BodySizeLimit: viper.GetInt64("BODY_SIZE_LIMIT"),
			MaxInflight:   viper.GetInt64("MAX_INFLIGHT"),
			CORSOrigins:   splitOrigins(viper.GetString("CORS_ORIGINS")),
		},
		Upstream: UpstreamConfig{
			APIKey:  viper.GetString("UPSTREAM_API_KEY"),
			BaseURL: viper.GetString("UPSTREAM_BASE_URL"),
			Timeout: parseDuration(viper.GetString("UPSTREAM_TIMEOUT"), 30*time.Second),
		},
		Metrics: MetricsConfig{
			Enabled:  viper.GetBool("METRICS_ENABLED"),
			Endpoint: viper.GetString("METRICS_ENDPOINT"),
		},
		Logging: LoggingConfig{
			Format: viper.GetString("LOG_FORMAT"),
		},
		Models: ModelsConfig{
			File: viper.GetString("MODELS_FILE"),
		},
	}

	return cfg, nil
}

// parseDuration accepts either plain integers (interpreted as seconds) or Go
// duration strings (e.g. "30s", "1m30s").
func parseDuration(val string, defaultVal time.Duration) time.Duration {
	if val == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	return defaultVal
}

func splitOrigins(val string) []string {
	parts := strings.Split(val, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
