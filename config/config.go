// Package config provides configuration management for the application.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultPort            = "8080"
	DefaultModel           = "gemini-2.0-flash"
	DefaultMetricsEndpoint = "/metrics"
	// DefaultBodySizeLimit allows attachments inlined as data URIs.
	DefaultBodySizeLimit          = "25M"
	DefaultUploadPollIntervalSecs = 5
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig
	Gemini  GeminiConfig
	Metrics MetricsConfig
	Upload  UploadConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	// SecretKey is the shared secret callers must present as a bearer
	// credential. Required; an empty key rejects all traffic.
	SecretKey     string
	BodySizeLimit string
}

// GeminiConfig holds the upstream API configuration
type GeminiConfig struct {
	APIKey       string
	DefaultModel string
}

// MetricsConfig holds Prometheus exposition configuration
type MetricsConfig struct {
	Enabled  bool
	Endpoint string
}

// UploadConfig holds attachment resolution configuration
type UploadConfig struct {
	// PollInterval is the fixed wait between file-status checks.
	PollInterval time.Duration
}

// Load reads configuration from an optional .env file and the environment
func Load() (*Config, error) {
	// Load .env file using Viper (optional, won't fail if not found)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() //nolint:errcheck

	viper.SetDefault("PORT", DefaultPort)
	viper.SetDefault("GEMINI_DEFAULT_MODEL", DefaultModel)
	viper.SetDefault("METRICS_ENDPOINT", DefaultMetricsEndpoint)
	viper.SetDefault("BODY_SIZE_LIMIT", DefaultBodySizeLimit)
	viper.SetDefault("UPLOAD_POLL_INTERVAL", DefaultUploadPollIntervalSecs)

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:          viper.GetString("PORT"),
			SecretKey:     viper.GetString("PROXY_SECRET_KEY"),
			BodySizeLimit: viper.GetString("BODY_SIZE_LIMIT"),
		},
		Gemini: GeminiConfig{
			APIKey:       viper.GetString("GEMINI_API_KEY"),
			DefaultModel: viper.GetString("GEMINI_DEFAULT_MODEL"),
		},
		Metrics: MetricsConfig{
			Enabled:  viper.GetBool("METRICS_ENABLED"),
			Endpoint: viper.GetString("METRICS_ENDPOINT"),
		},
		Upload: UploadConfig{
			PollInterval: time.Duration(viper.GetInt("UPLOAD_POLL_INTERVAL")) * time.Second,
		},
	}

	return cfg, nil
}
