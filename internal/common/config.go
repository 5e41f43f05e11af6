package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the root application configuration, loaded from one or more TOML
// files and overridden by environment variables and CLI flags in that order.
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`       // arivu-mcp / future HTTP surface
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
	Pricing     PricingConfig `toml:"pricing"`
	Federated   FederatedConfig `toml:"federated"`
	Transport   TransportConfig `toml:"transport"`
	Connectors  map[string]ConnectorConfig `toml:"connectors"` // keyed by credential_provider
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "text" or "json"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"`
}

// AuthConfig locates the on-disk credential store.
type AuthConfig struct {
	Dir string `toml:"dir"` // default: $HOME/.arivu
}

// PricingConfig locates the pricing catalog and usage log.
type PricingConfig struct {
	CatalogPath  string `toml:"catalog_path"` // overridden by ARIVU_PRICING_PATH
	UsageLogPath string `toml:"usage_log_path"`
	RollupCron   string `toml:"rollup_cron"` // empty disables the periodic usage rollup
}

// FederatedConfig holds defaults applied when a search profile omits them.
type FederatedConfig struct {
	DefaultProfile   string `toml:"default_profile"`
	DefaultTimeoutMs int    `toml:"default_timeout_ms"`
}

// TransportConfig tunes the shared HTTP retry policy.
type TransportConfig struct {
	MaxAttempts       int           `toml:"max_attempts"`
	InitialBackoff    time.Duration `toml:"initial_backoff"`
	MaxBackoff        time.Duration `toml:"max_backoff"`
	BackoffMultiplier float64       `toml:"backoff_multiplier"`
	RetryAfter429Multiplier float64 `toml:"retry_after_429_multiplier"`
}

// ConnectorConfig is a generic credential-provider configuration block; a
// connector's config schema (internal/connector.ConfigSchema) dictates which
// keys are meaningful for a given provider.
type ConnectorConfig struct {
	Enabled  bool              `toml:"enabled"`
	Settings map[string]string `toml:"settings"`
}

// NewDefaultConfig returns a configuration with production-sane defaults.
func NewDefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	base := ".arivu"
	if home != "" {
		base = home + "/.arivu"
	}
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8090,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05.000",
		},
		Auth: AuthConfig{
			Dir: base,
		},
		Pricing: PricingConfig{
			CatalogPath:  "",
			UsageLogPath: base + "/usage.jsonl",
			RollupCron:   "0 * * * *",
		},
		Federated: FederatedConfig{
			DefaultProfile:   "research",
			DefaultTimeoutMs: 30_000,
		},
		Transport: TransportConfig{
			MaxAttempts:             4,
			InitialBackoff:          700 * time.Millisecond,
			MaxBackoff:              10 * time.Second,
			BackoffMultiplier:       1.6,
			RetryAfter429Multiplier: 1.8,
		},
		Connectors: map[string]ConnectorConfig{},
	}
}

// LoadFromFile loads configuration from a single file (or defaults if path
// is empty).
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration starting from defaults, merging each
// file in order (later files override earlier ones), then applying
// environment variable overrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)
	return config, nil
}

func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ARIVU_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("ARIVU_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("ARIVU_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if level := os.Getenv("ARIVU_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if dir := os.Getenv("ARIVU_AUTH_DIR"); dir != "" {
		config.Auth.Dir = dir
	}
	if path := os.Getenv("ARIVU_PRICING_PATH"); path != "" {
		config.Pricing.CatalogPath = path
	}
	if path := os.Getenv("ARIVU_USAGE_LOG_PATH"); path != "" {
		config.Pricing.UsageLogPath = path
	}
}

// ApplyFlagOverrides applies command-line flag overrides; zero values mean
// "not set" and are left untouched.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction reports whether the environment is configured as production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
