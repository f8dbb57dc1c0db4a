// Package config loads ledger settings from the environment.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/damon-houk/ledger-form/internal/infrastructure/logger"
)

const (
	envHost          = "LEDGER_HOST"
	envPort          = "LEDGER_PORT"
	envDataDir       = "LEDGER_DATA_DIR"
	envLogLevel      = "LEDGER_LOG_LEVEL"
	envCORSOrigins   = "LEDGER_CORS_ORIGINS"
	envSyncWrites    = "LEDGER_SYNC_WRITES"
	envBaseURL       = "LEDGER_BASE_URL"
	envClientTimeout = "LEDGER_CLIENT_TIMEOUT"

	defaultHost          = "0.0.0.0"
	defaultPort          = "8000"
	defaultDataDir       = "./data"
	defaultLogLevel      = "INFO"
	defaultCORSOrigins   = "http://localhost:3000"
	defaultBaseURL       = "http://localhost:8000"
	defaultClientTimeout = "10s"
)

// Config holds the application configuration.
type Config struct {
	Server ServerConfig
	Client ClientConfig
	Log    LogConfig
}

// ServerConfig configures the ledger service.
type ServerConfig struct {
	Host        string
	Port        string
	DataDir     string
	SyncWrites  bool
	CORSOrigins []string
}

// Addr is the listen address.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// ClientConfig configures the remote ledger client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// LogConfig configures the logger.
type LogConfig struct {
	Level logger.Level
}

// Load reads the configuration from environment variables, falling back to defaults.
func Load() (*Config, error) {
	level, err := logger.ParseLevel(getEnv(envLogLevel, defaultLogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", envLogLevel, err)
	}

	timeout, err := time.ParseDuration(getEnv(envClientTimeout, defaultClientTimeout))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", envClientTimeout, err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid %s: must be positive", envClientTimeout)
	}

	baseURL := strings.TrimRight(getEnv(envBaseURL, defaultBaseURL), "/")
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid %s: %q is not an absolute URL", envBaseURL, baseURL)
	}

	return &Config{
		Server: ServerConfig{
			Host:        getEnv(envHost, defaultHost),
			Port:        getEnv(envPort, defaultPort),
			DataDir:     getEnv(envDataDir, defaultDataDir),
			SyncWrites:  getBoolEnv(envSyncWrites, true),
			CORSOrigins: splitList(getEnv(envCORSOrigins, defaultCORSOrigins)),
		},
		Client: ClientConfig{
			BaseURL: baseURL,
			Timeout: timeout,
		},
		Log: LogConfig{
			Level: level,
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
