package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/existflow/tasktrack/internal/logger"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// StorageConfig selects the key-value backend
type StorageConfig struct {
	Driver       string        `yaml:"driver" json:"driver"`               // sqlite, postgres or memory
	Path         string        `yaml:"path" json:"path"`                   // SQLite file
	DSN          string        `yaml:"dsn,omitempty" json:"dsn,omitempty"` // Postgres connection string
	Key          string        `yaml:"key" json:"key"`                     // Key holding the task collection
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval"` // How often to look for changes by other processes
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Config holds user preferences
type Config struct {
	Storage           StorageConfig `yaml:"storage" json:"storage"`
	RecomputeInterval time.Duration `yaml:"recompute_interval" json:"recompute_interval"` // Status recompute period
	Debounce          time.Duration `yaml:"debounce" json:"debounce"`                     // Search input quiet period
	Collation         string        `yaml:"collation" json:"collation"`                   // BCP 47 tag for title sorting
	ConfirmDelete     bool          `yaml:"confirm_delete" json:"confirm_delete"`         // Require confirmation for delete

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging

	Server ServerConfig `yaml:"server" json:"server"`
}

// Dir returns the data directory: $TASKTRACK_HOME or ~/.tasktrack
func Dir() (string, error) {
	if dir := os.Getenv("TASKTRACK_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tasktrack"), nil
}

// Path returns the config file location
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dir, _ := Dir()
	dbPath, logPath := "", ""
	if dir != "" {
		dbPath = filepath.Join(dir, "tasks.db")
		logPath = filepath.Join(dir, "logs", "tasktrack.log")
	}

	cfg := &Config{
		Storage: StorageConfig{
			Driver:       DriverSQLite,
			Path:         dbPath,
			Key:          "tasks",
			PollInterval: 2 * time.Second,
		},
		RecomputeInterval: 60 * time.Second,
		Debounce:          300 * time.Millisecond,
		Collation:         "en",
		ConfirmDelete:     true,
		LogLevel:          "INFO",
		LogFile:           logPath,
		LogConsole:        false,
		Server:            ServerConfig{Addr: ":8080"},
	}
	cfg.applyEnv()
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// applyEnv lets the environment override file settings
func (c *Config) applyEnv() {
	c.LogLevel = getEnv("TASKTRACK_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("TASKTRACK_LOG_FILE", c.LogFile)
	if v := os.Getenv("TASKTRACK_LOG_CONSOLE"); v != "" {
		c.LogConsole = v == "true" || v == "1"
	}
	c.Storage.Driver = getEnv("TASKTRACK_STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.DSN = getEnv("TASKTRACK_DSN", c.Storage.DSN)
}

// Load loads config from the data directory, falling back to defaults
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads config from path. A missing file yields defaults.
func LoadFrom(path string) (*Config, error) {
	// Check if exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot run with
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.RecomputeInterval <= 0 {
		return fmt.Errorf("recompute_interval must be positive")
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative")
	}
	if _, err := language.Parse(c.Collation); err != nil {
		return fmt.Errorf("invalid collation %q: %w", c.Collation, err)
	}
	return nil
}

// Language returns the collation tag, English when unset or invalid
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Collation)
	if err != nil {
		return language.English
	}
	return tag
}

// Logger converts the logging settings
func (c *Config) Logger() logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = logger.ParseLevel(c.LogLevel)
	lc.FilePath = c.LogFile
	lc.Console = c.LogConsole
	return lc
}

// Save saves config to the data directory
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes config to path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// String renders the config as YAML with the DSN masked
func (c *Config) String() string {
	masked := *c
	if masked.Storage.DSN != "" {
		masked.Storage.DSN = "****"
	}
	data, err := yaml.Marshal(&masked)
	if err != nil {
		return err.Error()
	}
	return strings.TrimSpace(string(data))
}
