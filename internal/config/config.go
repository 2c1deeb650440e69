package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"go-color-mood/pkg/validation"

	"github.com/joho/godotenv"
)

// Artifact source names accepted in ASSET_SOURCE
const (
	AssetSourceLocal = "local"
	AssetSourceHTTP  = "http"
	AssetSourceAzure = "azure"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	AssetFetchTimeout  time.Duration
	MaxRequestBodySize int64
	LogLevel           string

	AssetSource      string
	AssetDir         string
	AssetBaseURL     string
	AzureAccountName string
	AzureAccountKey  string
	AzureContainer   string

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// LoadFromEnv reads the configuration from the environment. Variables from
// ENV_FILE (default .env) are applied first without overriding ones that
// are already set.
func LoadFromEnv() (*Config, error) {
	if err := loadDotEnv(getEnvOrDefault("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	// Set defaults
	cfg := &Config{
		Host:                 getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                 getEnvOrDefault("PORT", "8080"),
		RequestTimeout:       parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		AssetFetchTimeout:    parseDurationOrDefault("ASSET_FETCH_TIMEOUT", 15*time.Second),
		MaxRequestBodySize:   parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 64*1024), // 64KB
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		AssetSource:          strings.ToLower(getEnvOrDefault("ASSET_SOURCE", AssetSourceLocal)),
		AssetDir:             getEnvOrDefault("ASSET_DIR", "."),
		AssetBaseURL:         os.Getenv("ASSET_BASE_URL"),
		AzureAccountName:     os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureAccountKey:      os.Getenv("AZURE_STORAGE_KEY"),
		AzureContainer:       os.Getenv("AZURE_STORAGE_CONTAINER"),
		SessionTTL:           parseDurationOrDefault("SESSION_TTL", 30*time.Minute),
		SessionSweepInterval: parseDurationOrDefault("SESSION_SWEEP_INTERVAL", time.Minute),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and the settings each asset source depends on
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.AssetFetchTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, asset fetch=%s)",
			c.RequestTimeout, c.AssetFetchTimeout)
	}
	if c.SessionTTL <= 0 || c.SessionSweepInterval <= 0 {
		return fmt.Errorf("session durations must be > 0 (got ttl=%s, sweep=%s)",
			c.SessionTTL, c.SessionSweepInterval)
	}

	switch c.AssetSource {
	case AssetSourceLocal:
		if strings.TrimSpace(c.AssetDir) == "" {
			return errors.New("ASSET_DIR must not be empty")
		}
	case AssetSourceHTTP:
		if err := validation.NewURLValidator().ValidateURL(c.AssetBaseURL); err != nil {
			return fmt.Errorf("invalid ASSET_BASE_URL %q: %w", c.AssetBaseURL, err)
		}
	case AssetSourceAzure:
		if c.AzureAccountName == "" || c.AzureAccountKey == "" || c.AzureContainer == "" {
			return errors.New("AZURE_STORAGE_ACCOUNT, AZURE_STORAGE_KEY and AZURE_STORAGE_CONTAINER are required for the azure asset source")
		}
	default:
		return fmt.Errorf("unsupported ASSET_SOURCE %q (want %s, %s or %s)",
			c.AssetSource, AssetSourceLocal, AssetSourceHTTP, AssetSourceAzure)
	}
	return nil
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
