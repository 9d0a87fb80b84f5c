package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// EnvPrefix is the prefix of every environment variable read by New.
const EnvPrefix = "FREIGHT_AGENT"

// Config holds the configuration for the freight agent service.
// Environment variables are parsed from the FREIGHT_AGENT_ prefix.
type Config struct {
	// Build target selects high-level environment: local, cloud-dev, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"cloud-dev"`

	// Derived or override driver (auto | postgres | sqlite)
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort        int    `envconfig:"HTTP_PORT" default:"8080"`
	CORSAllowOrigin string `envconfig:"CORS_ALLOW_ORIGIN" default:"*"`

	// Listing store
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`

	// Chat-completion upstream (OpenAI-compatible)
	OpenAIAPIKey           string  `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIBaseURL          string  `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	DefaultModel           string  `envconfig:"DEFAULT_MODEL" default:"gpt-5-2025-08-07"`
	DefaultTemperature     float64 `envconfig:"DEFAULT_TEMPERATURE" default:"0.7"`
	DefaultMaxTokens       int     `envconfig:"DEFAULT_MAX_TOKENS" default:"1500"`
	UpstreamTimeoutSeconds int     `envconfig:"UPSTREAM_TIMEOUT_SECONDS" default:"60"`

	// Auth service (GoTrue-compatible)
	AuthURL    string `envconfig:"AUTH_URL" default:""`
	AuthAPIKey string `envconfig:"AUTH_API_KEY" default:""`
	DevMode    bool   `envconfig:"DEV_MODE" default:"false"`

	// Health and startup
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthCheckTimeoutSeconds int `envconfig:"HEALTH_CHECK_TIMEOUT_SECONDS" default:"2"`
	BootstrapTimeoutSeconds   int `envconfig:"BOOTSTRAP_TIMEOUT_SECONDS" default:"5"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver when set to "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "cloud-dev", "cloud":
		defaultDB = "postgres"
	case "local":
		defaultDB = "sqlite"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}
	if c.DBDriver == "sqlite" && c.SQLitePath == "" {
		c.SQLitePath = "data/freight.db"
	}

	allowedDB := map[string]bool{"postgres": true, "sqlite": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DefaultMaxTokens <= 0 {
		return fmt.Errorf("DEFAULT_MAX_TOKENS must be > 0, got %d", c.DefaultMaxTokens)
	}
	return nil
}

// New creates a new Config by parsing environment variables
// Example: FREIGHT_AGENT_HTTP_PORT, FREIGHT_AGENT_POSTGRES_DSN
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("default_model", cfg.DefaultModel).
		Bool("openai_key_present", cfg.OpenAIAPIKey != "").
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Str("auth_url", cfg.AuthURL).
		Bool("dev_mode", cfg.DevMode).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		BuildTarget:               "local",
		DBDriver:                  "sqlite",
		Environment:               EnvTesting,
		HTTPPort:                  8080,
		CORSAllowOrigin:           "*",
		SQLitePath:                ":memory:",
		OpenAIBaseURL:             "http://localhost:0",
		DefaultModel:              "gpt-5-2025-08-07",
		DefaultTemperature:        0.7,
		DefaultMaxTokens:          1500,
		UpstreamTimeoutSeconds:    5,
		DevMode:                   true,
		HealthIntervalSeconds:     1,
		HealthCheckTimeoutSeconds: 1,
		BootstrapTimeoutSeconds:   1,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// IsDevMode reports whether the local development authenticator is enabled.
// Dev mode is never honored in production.
func (c *Config) IsDevMode() bool {
	return c.DevMode && !c.IsProduction()
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// UpstreamTimeout returns the chat-completion request timeout.
func (c *Config) UpstreamTimeout() time.Duration {
	if c.UpstreamTimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}
