package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"habitquest/internal/storage"
)

// Config holds all habitquest configuration.
type Config struct {
	// SQLite snapshot store
	DatabasePath string `yaml:"database_path"`

	// IANA zone used to decide what "today" is (empty = system local)
	Timezone string `yaml:"timezone"`

	// Rows shown by the activity log
	ActivityLimit int `yaml:"activity_limit"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`   // empty = stderr
}

// DefaultConfigPath returns ~/.habitquest/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".habitquest", "config.yaml"), nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dbPath, err := storage.DefaultDBPath()
	if err != nil {
		dbPath = "habitquest.db"
	}
	return &Config{
		DatabasePath:  dbPath,
		ActivityLimit: 20,
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
// Variables from a .env file in the working directory are loaded before the
// environment overrides are applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("HABITQUEST_DB"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("HABITQUEST_TZ"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("HABITQUEST_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("HABITQUEST_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return errors.New("config: database_path is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.ActivityLimit <= 0 {
		c.ActivityLimit = DefaultConfig().ActivityLimit
	}
	return nil
}

// Location resolves Timezone. Empty means the system's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
