// Package config loads the optional regressoor configuration file. Analysis
// parameters always come from CLI flags; the config file only carries the
// ambient services: history database, report upload, and the history API.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"

	// DefaultHistoryDriver is the default history database driver.
	DefaultHistoryDriver = "sqlite"

	// DefaultHistorySQLitePath is the default history database location.
	DefaultHistorySQLitePath = "./regressoor-history.db"

	// DefaultAPIListen is the default API listen address.
	DefaultAPIListen = ":8080"
)

// Config is the root configuration for regressoor.
type Config struct {
	Global  GlobalConfig   `yaml:"global"`
	History *HistoryConfig `yaml:"history,omitempty"`
	Upload  *UploadConfig  `yaml:"upload,omitempty"`
	API     *APIConfig     `yaml:"api,omitempty"`
}

// GlobalConfig contains global application settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level"`
}

// HistoryConfig enables recording analysis runs to a database.
type HistoryConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig selects and configures the history database driver.
type DatabaseConfig struct {
	Driver   string          `yaml:"driver"`
	SQLite   *SQLiteConfig   `yaml:"sqlite,omitempty"`
	Postgres *PostgresConfig `yaml:"postgres,omitempty"`
}

// SQLiteConfig configures the sqlite driver.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig configures the postgres driver.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// UploadConfig enables uploading written reports.
type UploadConfig struct {
	S3 *S3UploadConfig `yaml:"s3,omitempty"`
}

// S3UploadConfig configures S3-compatible report upload.
type S3UploadConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix,omitempty"`
	Region          string `yaml:"region,omitempty"`
	EndpointURL     string `yaml:"endpoint_url,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
	StorageClass    string `yaml:"storage_class,omitempty"`
	ACL             string `yaml:"acl,omitempty"`
}

// APIConfig configures the history API server.
type APIConfig struct {
	Listen      string          `yaml:"listen"`
	CORSOrigins []string        `yaml:"cors_origins,omitempty"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig configures per-IP request rate limiting.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
}

// Load reads and parses a configuration file from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// Default returns a configuration with all defaults applied and no optional
// services enabled.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()

	return cfg
}

// applyDefaults sets default values for unspecified configuration options.
func (c *Config) applyDefaults() {
	if c.Global.LogLevel == "" {
		c.Global.LogLevel = DefaultLogLevel
	}

	if c.History != nil {
		if c.History.Database.Driver == "" {
			c.History.Database.Driver = DefaultHistoryDriver
		}

		if c.History.Database.Driver == DefaultHistoryDriver && c.History.Database.SQLite == nil {
			c.History.Database.SQLite = &SQLiteConfig{Path: DefaultHistorySQLitePath}
		}
	}

	if c.API != nil && c.API.Listen == "" {
		c.API.Listen = DefaultAPIListen
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.History != nil && c.History.Enabled {
		switch c.History.Database.Driver {
		case "sqlite":
			if c.History.Database.SQLite == nil || c.History.Database.SQLite.Path == "" {
				return fmt.Errorf("history: sqlite driver requires a path")
			}
		case "postgres":
			if c.History.Database.Postgres == nil {
				return fmt.Errorf("history: postgres driver requires connection settings")
			}
		default:
			return fmt.Errorf("history: unsupported database driver %q", c.History.Database.Driver)
		}
	}

	if c.Upload != nil && c.Upload.S3 != nil && c.Upload.S3.Enabled {
		if c.Upload.S3.Bucket == "" {
			return fmt.Errorf("upload: s3 bucket is required")
		}
	}

	if c.API != nil && c.API.RateLimit.Enabled && c.API.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("api: rate limit requires requests_per_minute > 0")
	}

	return nil
}
