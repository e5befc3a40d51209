package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultServerURL   = "http://localhost:8000"
	DefaultHTTPTimeout = 30 * time.Second
)

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Server ServerConfig

	// Credentials for non-interactive login
	Credentials CredentialsConfig

	// Logging Configuration
	Logging LoggingConfig
}

// ServerConfig holds backend connection settings
type ServerConfig struct {
	URL     string
	Timeout time.Duration
}

// CredentialsConfig holds credentials read from the environment (useful for CI/CD)
type CredentialsConfig struct {
	Username string
	Password string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Fallback carries values from the user config file. They apply only when
// the matching environment variable is unset.
type Fallback struct {
	ServerURL string
	LogLevel  string
}

// Load loads configuration from environment variables
func Load(fallback Fallback) (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	serverURL := firstNonEmpty(os.Getenv("LEXICON_SERVER_URL"), fallback.ServerURL, DefaultServerURL)
	serverURL, err := NormalizeServerURL(serverURL)
	if err != nil {
		return nil, err
	}

	timeout := DefaultHTTPTimeout
	if raw := os.Getenv("LEXICON_HTTP_TIMEOUT"); raw != "" {
		timeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid LEXICON_HTTP_TIMEOUT %q: %w", raw, err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("invalid LEXICON_HTTP_TIMEOUT %q: must be positive", raw)
		}
	}

	// Logging configuration - quiet by default, this is an interactive tool
	logLevel := firstNonEmpty(os.Getenv("LOG_LEVEL"), fallback.LogLevel, "warn")
	logFormat := firstNonEmpty(os.Getenv("LOG_FORMAT"), "console")

	return &Config{
		Server: ServerConfig{
			URL:     serverURL,
			Timeout: timeout,
		},
		Credentials: CredentialsConfig{
			Username: os.Getenv("LEXICON_USERNAME"),
			Password: os.Getenv("LEXICON_PASSWORD"),
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}

// NormalizeServerURL validates a backend base URL and strips any trailing slash
func NormalizeServerURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid server URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q: missing host", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
