// Package config loads cerealdex settings from a YAML (or JSON) file and
// CEREALDEX_* environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "CEREALDEX_"

// Config is the top-level configuration
type Config struct {
	Database DatabaseConfig `json:"database" yaml:"database"`
	Server   ServerConfig   `json:"server" yaml:"server"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// DatabaseConfig selects the storage backend
type DatabaseConfig struct {
	Backend string `json:"backend" yaml:"backend" validate:"oneof=sqlite postgres"`
	// Path of the SQLite database file
	Path string `json:"path" yaml:"path" validate:"required_if=Backend sqlite"`
	// Driver is the database/sql driver used for SQLite: "sqlite" (modernc) or "sqlite3" (cgo)
	Driver string `json:"driver" yaml:"driver" validate:"omitempty,oneof=sqlite sqlite3"`
	DSN    string `json:"dsn" yaml:"dsn" validate:"required_if=Backend postgres"`
	Schema string `json:"schema" yaml:"schema"`
}

type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr" validate:"required"`
	StaticDir       string        `json:"static_dir" yaml:"static_dir" validate:"required"`
	MaxUploadBytes  int64         `json:"max_upload_bytes" yaml:"max_upload_bytes" validate:"gt=0"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
	// RequireAuth guards mutating endpoints with HTTP basic auth
	RequireAuth bool `json:"require_auth" yaml:"require_auth"`
	Metrics     bool `json:"metrics" yaml:"metrics"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Backend: "sqlite",
			Path:    "cerealdex.db",
			Driver:  "sqlite",
			Schema:  "cerealdex",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			StaticDir:       "static",
			MaxUploadBytes:  8 << 20,
			ShutdownTimeout: 10 * time.Second,
			RequireAuth:     true,
			Metrics:         true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

var validate = validator.New()

// Load merges defaults, the file at path (optional) and the environment,
// then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	applyEnv(&cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	str("DB_BACKEND", &cfg.Database.Backend)
	str("DB_PATH", &cfg.Database.Path)
	str("DB_DRIVER", &cfg.Database.Driver)
	str("DB_DSN", &cfg.Database.DSN)
	str("DB_SCHEMA", &cfg.Database.Schema)

	str("ADDR", &cfg.Server.Addr)
	str("STATIC_DIR", &cfg.Server.StaticDir)
	if v, ok := lookup(EnvPrefix + "MAX_UPLOAD_BYTES"); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Server.MaxUploadBytes = n
		}
	}
	if v, ok := lookup(EnvPrefix + "SHUTDOWN_TIMEOUT"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	boolean("REQUIRE_AUTH", &cfg.Server.RequireAuth)
	boolean("METRICS", &cfg.Server.Metrics)

	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
}

// Validate checks struct tags
func (c Config) Validate() error {
	return validate.Struct(c)
}

// SlogLevel maps the configured level name to a slog level
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger
func NewLogger(l LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
