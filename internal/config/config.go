// ABOUTME: Configuration loading and parsing for the carebridge client
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when optional fields are absent
const (
	DefaultStaleAfter = 30 * time.Second
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config represents the complete carebridge client configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds backend address configuration
type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
}

// StorageConfig holds local state configuration
type StorageConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds the continuity-token secret
type AuthConfig struct {
	TokenSecret string `yaml:"token_secret"`
}

// CacheConfig holds cache timing configuration
type CacheConfig struct {
	StaleAfter time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	StaleAfterRaw string `yaml:"stale_after"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded, and
// duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// DefaultPath returns the path to the client config file.
// Priority: CAREBRIDGE_CONFIG env var > XDG_CONFIG_HOME/carebridge/config.yaml
// > ~/.config/carebridge/config.yaml
func DefaultPath() string {
	if envPath := os.Getenv("CAREBRIDGE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "carebridge", "config.yaml")
}

// DefaultStatePath returns the path to the local state database.
// Priority: XDG_DATA_HOME/carebridge/state.db > ~/.local/share/carebridge/state.db
func DefaultStatePath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "state.db" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "carebridge", "state.db")
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables expand to the empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills optional fields that were left empty.
func (c *Config) applyDefaults() {
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultStatePath()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}
	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("auth.token_secret is required")
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Cache.StaleAfterRaw == "" {
		cfg.Cache.StaleAfter = DefaultStaleAfter
		return nil
	}

	var err error
	cfg.Cache.StaleAfter, err = time.ParseDuration(cfg.Cache.StaleAfterRaw)
	if err != nil {
		return fmt.Errorf("parsing stale_after %q: %w", cfg.Cache.StaleAfterRaw, err)
	}
	if cfg.Cache.StaleAfter < 0 {
		return fmt.Errorf("stale_after must not be negative")
	}
	return nil
}
