package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "test-service",
			Version:     "1.0.0",
			Environment: "local",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  15 * time.Second,
			MaxRequestSize:  1048576,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Driver:         DriverMemory,
			ConnectTimeout: 5 * time.Second,
		},
		Blog: BlogConfig{
			Authors: []string{"alice"},
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		// want lists substrings of the error; empty means the config is valid.
		want []string
	}{
		{"missing app name", func(c *Config) { c.App.Name = "" }, []string{"app.name is required"}},
		{"invalid environment", func(c *Config) { c.App.Environment = "staging" }, []string{"app.environment must be one of"}},
		{"test environment", func(c *Config) { c.App.Environment = "test" }, nil},

		{"port zero", func(c *Config) { c.Server.Port = 0 }, []string{"server.port"}},
		{"port too high", func(c *Config) { c.Server.Port = 65536 }, []string{"server.port must be at most 65535"}},
		{"port at maximum", func(c *Config) { c.Server.Port = 65535 }, nil},
		{"read timeout below minimum", func(c *Config) { c.Server.ReadTimeout = 500 * time.Millisecond }, []string{"server.read_timeout"}},
		{"request timeout below minimum", func(c *Config) { c.Server.RequestTimeout = 10 * time.Millisecond }, []string{"server.request_timeout must be at least"}},
		{"max request size zero", func(c *Config) { c.Server.MaxRequestSize = 0 }, []string{"server.max_request_size"}},

		{"trace level", func(c *Config) { c.Log.Level = "trace" }, nil},
		{"uppercase level", func(c *Config) { c.Log.Level = "DEBUG" }, []string{"log.level must be one of"}},
		{"pretty format", func(c *Config) { c.Log.Format = "pretty" }, nil},
		{"xml format", func(c *Config) { c.Log.Format = "xml" }, []string{"log.format"}},
		{"file without path", func(c *Config) { c.Log.File = LogFileConfig{Enabled: true} }, []string{"log.file.path is required when enabled is true"}},
		{"file size over limit", func(c *Config) {
			c.Log.File = LogFileConfig{Enabled: true, Path: "/var/log/blog.log", MaxSizeMB: 1025}
		}, []string{"log.file.max_size must be at most 1024"}},

		{"telemetry without endpoint", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "blog"}
		}, []string{"telemetry.endpoint is required when enabled is true"}},
		{"telemetry without service name", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "localhost:4317"}
		}, []string{"telemetry.service_name"}},
		{"sampling rate above one", func(c *Config) { c.Telemetry.SamplingRate = 1.1 }, []string{"telemetry.sampling_rate"}},
		{"sampling rate below zero", func(c *Config) { c.Telemetry.SamplingRate = -0.1 }, []string{"telemetry.sampling_rate"}},

		{"auth without subject header", func(c *Config) { c.Auth.Enabled = true }, []string{"auth.subject_header is required when enabled is true"}},
		{"auth with subject header", func(c *Config) { c.Auth = AuthConfig{Enabled: true, SubjectHeader: "X-User-ID"} }, nil},

		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }, []string{"database.driver must be one of: memory postgres"}},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = DriverPostgres }, []string{"database.dsn is required when driver is postgres"}},
		{"postgres with dsn", func(c *Config) {
			c.Database.Driver = DriverPostgres
			c.Database.DSN = "postgres://blog@localhost/blog?sslmode=disable"
		}, nil},
		{"connect timeout below minimum", func(c *Config) { c.Database.ConnectTimeout = 10 * time.Millisecond }, []string{"database.connect_timeout"}},
		{"negative pool", func(c *Config) { c.Database.MaxOpenConns = -1 }, []string{"database.max_open_conns"}},

		{"no authors", func(c *Config) { c.Blog.Authors = nil }, nil},
		{"blank author", func(c *Config) { c.Blog.Authors = []string{"alice", ""} }, []string{"blog.authors[1] is required"}},
		{"duplicate author", func(c *Config) { c.Blog.Authors = []string{"alice", "alice"} }, []string{"blog.authors must not contain duplicates"}},

		{"request timeout not below write timeout", func(c *Config) {
			c.Server.RequestTimeout = c.Server.WriteTimeout
		}, []string{"server.request_timeout must be shorter than server.write_timeout"}},
		{"idle pool larger than open pool", func(c *Config) {
			c.Database.MaxOpenConns = 2
			c.Database.MaxIdleConns = 5
		}, []string{"database.max_idle_conns must not exceed database.max_open_conns"}},
		{"idle pool with unlimited open pool", func(c *Config) {
			c.Database.MaxOpenConns = 0
			c.Database.MaxIdleConns = 5
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if len(tt.want) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)

			for _, want := range tt.want {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestConfig_Validate_ReportsEveryFieldError(t *testing.T) {
	cfg := &Config{
		App:    AppConfig{Environment: "invalid"},
		Server: ServerConfig{Port: -1},
	}

	err := cfg.Validate()
	require.Error(t, err)

	for _, want := range []string{"app.name", "app.version", "app.environment", "server.port", "server.host"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestConfig_Validate_RelationsWaitForFieldErrors(t *testing.T) {
	cfg := validConfig()
	cfg.App.Name = ""
	cfg.Server.RequestTimeout = time.Hour

	err := cfg.Validate()
	require.Error(t, err)

	assert.Contains(t, err.Error(), "app.name")
	assert.NotContains(t, err.Error(), "shorter than")
}

func TestFormatFieldPath(t *testing.T) {
	tests := []struct {
		namespace string
		expected  string
	}{
		{"Config.server.port", "server.port"},
		{"Config.log.file.path", "log.file.path"},
		{"Config.blog.authors[0]", "blog.authors[0]"},
		{"port", "port"},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFieldPath(tt.namespace))
		})
	}
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "subject_header", toSnake("SubjectHeader"))
	assert.Equal(t, "enabled", toSnake("Enabled"))
	assert.Equal(t, "driver", toSnake("Driver"))
}
