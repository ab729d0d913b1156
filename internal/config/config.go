// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppHost string `env:"APP_HOST" envDefault:"0.0.0.0"`
	AppPort int    `env:"APP_PORT" envDefault:"8000"`

	// LLM provider (OpenAI or an OpenAI-compatible endpoint)
	OpenAIAPIKey             string `env:"OPENAI_API_KEY,required,notEmpty"`
	OpenAIBaseURL            string `env:"OPENAI_BASE_URL"`
	OpenAIChatModel          string `env:"OPENAI_CHAT_MODEL" envDefault:"gpt-3.5-turbo"`
	OpenAITranscriptionModel string `env:"OPENAI_TRANSCRIPTION_MODEL" envDefault:"whisper-1"`

	// Identity service and REST datastore (Supabase)
	SupabaseURL            string `env:"SUPABASE_URL,required,notEmpty"`
	SupabaseServiceRoleKey string `env:"SUPABASE_SERVICE_ROLE_KEY,required,notEmpty"`

	// Optional direct Postgres connection. When set, practice history is
	// written through pgx instead of the REST API.
	DatabaseURL string `env:"DATABASE_URL"`
	// Role assumed per request on the direct connection so row-level
	// security policies apply. Empty keeps the connecting role.
	DatabaseUserRole string `env:"DATABASE_USER_ROLE"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts. WriteTimeout bounds the whole relay round trip, so it
	// is generous by default.
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// UpstreamTimeout bounds each call to the LLM provider and Supabase.
	// Zero means no timeout.
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"0s"`

	// CORS configuration
	// Comma-separated list of allowed origins; "*" allows any origin.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Multipart memory threshold in bytes (default 32MB); larger uploads
	// spill to temporary files.
	MaxUploadMemory int64 `env:"MAX_UPLOAD_MEMORY" envDefault:"33554432"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Addr returns the listen address, host:port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.AppHost, strconv.Itoa(c.AppPort))
}

// UsesDirectDatabase reports whether practice history goes through Postgres.
func (c *Config) UsesDirectDatabase() bool {
	return c.DatabaseURL != ""
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.MaxUploadMemory <= 0 {
		return nil, fmt.Errorf("failed to parse config: MAX_UPLOAD_MEMORY must be positive, got %d", cfg.MaxUploadMemory)
	}
	return cfg, nil
}
