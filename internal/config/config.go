// Package config handles configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the configuration for the HTTP API and the DynamoDB
// connection.
type Config struct {
	// DynamoDB connection. Static credentials are optional — when absent the
	// SDK default chain is used.
	AWSRegion          string
	AWSEndpoint        string // override for local stacks (e.g. localstack)
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSSessionToken    string

	// ConnectionTestTable is described by the health endpoint to verify
	// connectivity. Optional; no probe is made when unset.
	ConnectionTestTable string

	// DisplayTimeZone is the IANA zone date-time values are rendered in.
	// Empty means the process-local zone.
	DisplayTimeZone string

	ListenAddr string // HTTP listen address (default ":8080")
	LogLevel   string // log level: debug, info, warn, error (default "info")
	Env        string // environment: "development" (default) or "production"

	// Auth. With neither a secret nor API keys configured, the API is open
	// (development mode only).
	AuthSecret string   // HS256 shared secret for bearer tokens
	APIKeys    []string // accepted values for the X-API-Key header

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 50)
	RateLimitBurst int     // burst capacity (default 100)

	// CORS
	CORSAllowedOrigins []string // allowed origins (default: ["*"])

	// Warnings collects non-fatal warnings generated during loading.
	// They are logged by the caller once the logger exists.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// HasStaticCredentials returns true when a full static key pair is set.
func (c *Config) HasStaticCredentials() bool {
	return c.AWSAccessKeyID != "" && c.AWSSecretAccessKey != ""
}

// AuthEnabled returns true when any credential check is configured.
func (c *Config) AuthEnabled() bool {
	return c.AuthSecret != "" || len(c.APIKeys) > 0
}

// DisplayLocation resolves the configured display zone.
func (c *Config) DisplayLocation() (*time.Location, error) {
	if c.DisplayTimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.DisplayTimeZone)
	if err != nil {
		return nil, fmt.Errorf("load display time zone %q: %w", c.DisplayTimeZone, err)
	}
	return loc, nil
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		AWSRegion:           os.Getenv("AWS_REGION"),
		AWSEndpoint:         os.Getenv("AWS_ENDPOINT"),
		AWSAccessKeyID:      os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:  os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSSessionToken:     os.Getenv("AWS_SESSION_TOKEN"),
		ConnectionTestTable: os.Getenv("CONNECTION_TEST_TABLE"),
		DisplayTimeZone:     os.Getenv("DISPLAY_TIME_ZONE"),
		ListenAddr:          os.Getenv("LISTEN_ADDR"),
		LogLevel:            os.Getenv("LOG_LEVEL"),
		Env:                 os.Getenv("ENV"),
		AuthSecret:          os.Getenv("AUTH_SECRET"),
	}

	if v := os.Getenv("API_KEYS"); v != "" {
		cfg.APIKeys = splitTrimmed(v)
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitTrimmed(v)
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}

	// Defaults
	if cfg.AWSRegion == "" {
		return nil, fmt.Errorf("AWS_REGION must be set")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 50
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 100
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.ConnectionTestTable == "" {
		cfg.Warnings = append(cfg.Warnings, "CONNECTION_TEST_TABLE not set — health checks will not probe the store")
	}
	if !cfg.AuthEnabled() {
		cfg.Warnings = append(cfg.Warnings, "no AUTH_SECRET or API_KEYS configured — the API is unauthenticated")
	}

	// Production mode: insecure defaults are fatal.
	if cfg.IsProduction() {
		if !cfg.AuthEnabled() {
			return nil, fmt.Errorf("AUTH_SECRET or API_KEYS must be set in production (ENV=production)")
		}
		if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
			return nil, fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
		}
	}

	return cfg, nil
}

func splitTrimmed(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadDotEnv reads a .env file and sets any variables not already in the
// environment. Lines must be KEY=VALUE; comments (#) and blanks are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripQuotes(strings.TrimSpace(value))
		// Env vars take precedence over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
