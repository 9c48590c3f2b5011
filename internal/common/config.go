// Package common provides shared utilities for Newslens
package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/minwooahn/newslens/internal/interfaces"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Newslens
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Clients     ClientsConfig  `toml:"clients"`
	Pipeline    PipelineConfig `toml:"pipeline"`
	Schedule    ScheduleConfig `toml:"schedule"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the embedded store path.
type StorageConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Naver  NaverConfig  `toml:"naver"`
	DART   DARTConfig   `toml:"dart"`
	Gemini GeminiConfig `toml:"gemini"`
	Feeds  []string     `toml:"feeds"` // optional RSS feed URLs, secondary news source
}

// NaverConfig holds Naver news API configuration
type NaverConfig struct {
	BaseURL      string `toml:"base_url"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RateLimit    int    `toml:"rate_limit"`
	Timeout      string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *NaverConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// DARTConfig holds DART open API configuration
type DARTConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *DARTConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *GeminiConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// PipelineConfig holds analysis pipeline configuration
type PipelineConfig struct {
	MaxRetries int    `toml:"max_retries"` // per-stage generation attempt budget
	FailOpen   bool   `toml:"fail_open"`   // accept drafts when the judgment oracle is unavailable
	NewsQuery  string `toml:"news_query"`  // default collection query
	NewsLimit  int    `toml:"news_limit"`  // max articles per collection run
	Timeout    string `toml:"timeout"`     // overall invocation timeout
}

// GetTimeout parses and returns the overall pipeline timeout.
func (c *PipelineConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// ScheduleConfig holds the daily analysis schedule.
type ScheduleConfig struct {
	Enabled bool   `toml:"enabled"`
	Cron    string `toml:"cron"` // cron expression, e.g. "0 8 * * *"
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data/newslens",
		},
		Clients: ClientsConfig{
			Naver: NaverConfig{
				BaseURL:   "https://openapi.naver.com/v1",
				RateLimit: 5,
				Timeout:   "10s",
			},
			DART: DARTConfig{
				BaseURL:   "https://opendart.fss.or.kr/api",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model:   "gemini-2.5-flash",
				Timeout: "60s",
			},
		},
		Pipeline: PipelineConfig{
			MaxRetries: 3,
			FailOpen:   true,
			NewsQuery:  "주식",
			NewsLimit:  30,
			Timeout:    "10m",
		},
		Schedule: ScheduleConfig{
			Enabled: false,
			Cron:    "0 8 * * *",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("NEWSLENS_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("NEWSLENS_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("NEWSLENS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("NEWSLENS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("NEWSLENS_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if v := os.Getenv("NEWSLENS_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Pipeline.MaxRetries = n
		}
	}

	if v := os.Getenv("NEWSLENS_FAIL_OPEN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Pipeline.FailOpen = b
		}
	}

	if v := os.Getenv("NEWSLENS_SCHEDULE_CRON"); v != "" {
		config.Schedule.Cron = v
		config.Schedule.Enabled = true
	}

	if v := os.Getenv("NAVER_CLIENT_ID"); v != "" {
		config.Clients.Naver.ClientID = v
	}
	if v := os.Getenv("NAVER_CLIENT_SECRET"); v != "" {
		config.Clients.Naver.ClientSecret = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment, system KV store, or fallback
func ResolveAPIKey(ctx context.Context, store interfaces.KeyValueStorage, name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key": {"GEMINI_API_KEY", "NEWSLENS_GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"dart_api_key":   {"DART_API_KEY", "NEWSLENS_DART_API_KEY"},
	}

	// Check environment variables first (highest priority)
	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	// Try system KV (medium priority)
	if store != nil {
		apiKey, err := store.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	// Fallback (lowest priority)
	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or store", name)
}
