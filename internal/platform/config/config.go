// Package config loads and validates service configuration with koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	DefaultMaxRequestSize = 1 << 20 // 1048576 bytes

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28

	// DefaultDatabaseMaxOpenConns is the default size of the connection pool.
	DefaultDatabaseMaxOpenConns = 10

	// DefaultDatabaseMaxIdleConns is the default number of idle connections kept.
	DefaultDatabaseMaxIdleConns = 5
)

// Database drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"`
	Database  DatabaseConfig  `koanf:"database"  validate:"required"`
	Blog      BlogConfig      `koanf:"blog"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=100ms"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"       validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"   validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"    validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// AuthConfig contains gateway authentication settings. The gateway verifies
// credentials and forwards the username in a header; when Enabled, the
// mutating pages require the subject header.
type AuthConfig struct {
	Enabled       bool   `koanf:"enabled"`
	SubjectHeader string `koanf:"subject_header" validate:"required_if=Enabled true"`
}

// DatabaseConfig selects and tunes the post store.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"            validate:"required,oneof=memory postgres"`
	DSN             string        `koanf:"dsn"               validate:"required_if=Driver postgres"`
	MaxOpenConns    int           `koanf:"max_open_conns"    validate:"min=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns"    validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"   validate:"required,min=100ms"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// BlogConfig contains blog-specific settings.
type BlogConfig struct {
	// Authors are usernames registered at startup when missing.
	Authors []string `koanf:"authors" validate:"unique,dive,required,max=150"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "go-blog-service",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "15s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/app.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "go-blog-service",
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      true,

		"auth.enabled":        false,
		"auth.subject_header": "X-User-ID",

		"database.driver":            DriverMemory,
		"database.dsn":               "",
		"database.max_open_conns":    DefaultDatabaseMaxOpenConns,
		"database.max_idle_conns":    DefaultDatabaseMaxIdleConns,
		"database.conn_max_lifetime": "30m",
		"database.connect_timeout":   "5s",
		"database.auto_migrate":      false,

		"blog.authors": []string{},
	}
}

const (
	// envPrefix marks environment variables that override settings.
	envPrefix = "APP_"

	// configDir holds base.yaml and the per-profile files.
	configDir = "configs"
)

// listKeys are settings whose environment value is a comma-separated list.
var listKeys = map[string]bool{
	"blog.authors": true,
}

// Load layers configuration, later layers winning:
//  1. Default values
//  2. configs/base.yaml
//  3. configs/{profile}.yaml
//  4. Environment variables (APP_ prefix)
//
// Missing files are skipped.
func Load(profile string) (*Config, error) {
	k := koanf.New(".")
	defs := defaults()

	if err := k.Load(confmap.Provider(defs, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	files := []string{filepath.Join(configDir, "base.yaml")}
	if profile != "" {
		files = append(files, filepath.Join(configDir, profile+".yaml"))
	}

	for _, path := range files {
		if err := loadFileIfExists(k, path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envResolver(defs)), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envResolver maps APP_DATABASE_MAX_OPEN_CONNS to database.max_open_conns.
// Keys are matched against the defaults so underscores inside a key
// survive; unknown variables fall back to treating every underscore as a
// separator.
func envResolver(defs map[string]any) func(string, string) (string, any) {
	known := make(map[string]string, len(defs))
	for key := range defs {
		known[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(name, value string) (string, any) {
		flat := strings.ToLower(strings.TrimPrefix(name, envPrefix))

		key, ok := known[flat]
		if !ok {
			key = strings.ReplaceAll(flat, "_", ".")
		}

		if listKeys[key] {
			return key, splitList(value)
		}

		return key, value
	}
}

func splitList(value string) []string {
	items := []string{}

	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}

// loadFileIfExists loads a YAML file, returning nil when it does not exist.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
