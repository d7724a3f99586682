// Package config provides centralized configuration management for recordcheck.
// It loads configuration from struct defaults, an optional TOML file and
// environment variables, then validates all settings on startup to fail fast
// on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// Every setting can be configured via environment variables or a TOML file.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Batch   BatchConfig   `toml:"batch"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `toml:"host" env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `toml:"port" env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `toml:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `toml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `toml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `toml:"request_timeout" env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// MaxConcurrent is the maximum number of batches validated at once (default: 4)
	MaxConcurrent int `toml:"max_concurrent" env:"SERVER_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a request waits for a batch slot (default: 10s)
	MaxWaitTime time.Duration `toml:"max_wait_time" env:"SERVER_MAX_WAIT_TIME" default:"10s"`

	// HistorySize is the number of run summaries kept in memory (default: 50)
	HistorySize int `toml:"history_size" env:"SERVER_HISTORY_SIZE" default:"50"`
}

// BatchConfig holds batch processing settings shared by the CLI and server.
type BatchConfig struct {
	// Workers is the number of goroutines classifying records (default: 1)
	Workers int `toml:"workers" env:"BATCH_WORKERS" default:"1"`

	// DefaultSort is used when no sort key is given and no prompt can be shown (default: none)
	DefaultSort string `toml:"default_sort" env:"BATCH_DEFAULT_SORT" default:"none"`

	// MaxFileSize is the maximum input size in bytes (default: 100MB)
	MaxFileSize int64 `toml:"max_file_size" env:"BATCH_MAX_FILE_SIZE" default:"104857600"`

	// OutputFormat is blocks, json or yaml (default: blocks)
	OutputFormat string `toml:"output_format" env:"BATCH_OUTPUT_FORMAT" default:"blocks"`

	// Progress enables the progress bar when stderr is a terminal (default: true)
	Progress bool `toml:"progress" env:"BATCH_PROGRESS" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `toml:"level" env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `toml:"format" env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
