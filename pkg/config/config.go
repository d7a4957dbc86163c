package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for igoauth
type Config struct {
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`
	HTTP      HTTPConfig      `yaml:"http" json:"http"`
	Storage   StorageConfig   `yaml:"storage" json:"storage"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// InstagramConfig holds the OAuth application settings
type InstagramConfig struct {
	ClientID     string   `yaml:"client_id" json:"client_id"`
	ClientSecret string   `yaml:"client_secret" json:"client_secret"`
	RedirectURI  string   `yaml:"redirect_uri" json:"redirect_uri"`
	Scopes       []string `yaml:"scopes" json:"scopes"`
}

// HTTPConfig holds settings for the HTTP transport
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
}

// StorageConfig selects where token sessions are persisted
type StorageConfig struct {
	// Backend is one of auto, keyring, file or env
	Backend string `yaml:"backend" json:"backend"`
	File    string `yaml:"file" json:"file"`
	Account string `yaml:"account" json:"account"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

const envPrefix = "IGOAUTH_"

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			Scopes: []string{"user_profile", "user_media"},
		},
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "igoauth/1.0",
		},
		Storage: StorageConfig{
			Backend: "auto",
			Account: "default",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv overrides fields from IGOAUTH_* environment variables
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv(envPrefix + "CLIENT_ID"); v != "" {
		c.Instagram.ClientID = v
	}
	if v := os.Getenv(envPrefix + "CLIENT_SECRET"); v != "" {
		c.Instagram.ClientSecret = v
	}
	if v := os.Getenv(envPrefix + "REDIRECT_URI"); v != "" {
		c.Instagram.RedirectURI = v
	}
	if v := os.Getenv(envPrefix + "SCOPES"); v != "" {
		c.Instagram.Scopes = SplitList(v)
	}
	if v := os.Getenv(envPrefix + "HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sHTTP_TIMEOUT: %w", envPrefix, err)
		}
		c.HTTP.Timeout = d
	}
	if v := os.Getenv(envPrefix + "STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv(envPrefix + "STORAGE_FILE"); v != "" {
		c.Storage.File = v
	}
	if v := os.Getenv(envPrefix + "ACCOUNT"); v != "" {
		c.Storage.Account = v
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(envPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file. An empty path searches
// the default locations; finding nothing there is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func findConfigFile() string {
	home, _ := os.UserHomeDir()
	locations := []string{
		"igoauth.yaml",
		"igoauth.yml",
		".igoauth.yaml",
		".igoauth.yml",
	}
	if home != "" {
		locations = append(locations,
			filepath.Join(home, ".config", "igoauth", "config.yaml"),
			filepath.Join(home, ".config", "igoauth", "config.yml"),
			filepath.Join(home, ".igoauth.yaml"),
		)
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// Validate checks the configuration and reports every problem at once.
// Credentials are not required here; commands that need them check on use.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("http timeout must be positive"))
	}

	switch strings.ToLower(c.Storage.Backend) {
	case "auto", "keyring", "file", "env":
	default:
		errs = append(errs, fmt.Errorf("invalid storage backend %q", c.Storage.Backend))
	}
	if c.Storage.Account == "" {
		errs = append(errs, errors.New("storage account is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Save writes the configuration as YAML, creating parent directories
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file may hold the client secret.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Flags carries command line overrides; empty values are ignored
type Flags struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Account      string
	LogLevel     string
}

// MergeFlags applies non-empty command line overrides
func (c *Config) MergeFlags(f Flags) {
	if f.ClientID != "" {
		c.Instagram.ClientID = f.ClientID
	}
	if f.ClientSecret != "" {
		c.Instagram.ClientSecret = f.ClientSecret
	}
	if f.RedirectURI != "" {
		c.Instagram.RedirectURI = f.RedirectURI
	}
	if f.Account != "" {
		c.Storage.Account = f.Account
	}
	if f.LogLevel != "" {
		c.Logging.Level = f.LogLevel
	}
}

// Load builds the configuration from every source.
// Precedence: flags > environment > .env files > config file > defaults.
func Load(configPath string, flags Flags) (*Config, error) {
	// godotenv.Load never overrides variables already set in the environment.
	_ = godotenv.Load(".env")
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".igoauth.env"))
	}

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg.MergeFlags(flags)
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// normalize lowercases the enumerated values so every consumer sees one spelling
func (c *Config) normalize() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
}

// SplitList splits a comma separated list, trimming blanks and dropping empties
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
