// Package config provides centralized configuration management for the
// importer. Settings come from environment variables (optionally via a .env
// file loaded in main) and are validated on startup to fail fast on
// misconfiguration.
package config

import (
	"net/url"
	"time"
)

// Config holds all application configuration.
type Config struct {
	API     APIConfig
	Source  SourceConfig
	Logging LoggingConfig
}

// APIConfig holds the remote endpoint settings and credentials.
type APIConfig struct {
	// BaseURL is the HTTPS root of the remote API (required).
	// A trailing slash is trimmed during validation.
	BaseURL string `env:"BASE_URL" required:"true"`

	// Tenant selects the tenant on the token endpoint. May be empty.
	Tenant string `env:"TENANT"`

	// ClientID and ClientSecret are the client-credentials grant inputs.
	ClientID     string `env:"CLIENT_ID" required:"true"`
	ClientSecret string `env:"CLIENT_SECRET" required:"true"`

	// Timeout is the transport timeout for both endpoints (default: 30s).
	Timeout time.Duration `env:"HTTP_TIMEOUT" default:"30s"`

	// SubmitDelay is the fixed wait before each field-creation request
	// (default: 500ms). The remote rate limit assumes serialized calls.
	SubmitDelay time.Duration `env:"SUBMIT_DELAY" default:"500ms"`
}

// SourceConfig holds the CSV source settings.
type SourceConfig struct {
	// FileName is the path to the CSV of field definitions (required).
	FileName string `env:"SOURCE_FILE_NAME" required:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// Dir is where per-run log files are written (default: logs)
	Dir string `env:"LOG_DIR" default:"logs"`
}

// TokenURL returns the token endpoint, with the tenant query parameter when
// a tenant is configured.
func (c *APIConfig) TokenURL() string {
	if c.Tenant == "" {
		return c.BaseURL + "/auth/token"
	}
	return c.BaseURL + "/auth/token?tenant=" + url.QueryEscape(c.Tenant)
}

// FieldEndpoint returns the field-creation endpoint under the API root.
func (c *APIConfig) FieldEndpoint() string {
	return c.BaseURL + "/api/fieldinfo"
}
