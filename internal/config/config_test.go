package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: time.Second,
			MaxConcurrent:   4,
			MaxWaitTime:     time.Second,
			HistorySize:     10,
		},
		Batch:   BatchConfig{Workers: 1, DefaultSort: "none", MaxFileSize: 1, OutputFormat: "blocks"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recordcheck.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Server.MaxConcurrent != 4 {
		t.Errorf("Server.MaxConcurrent = %d, want %d", cfg.Server.MaxConcurrent, 4)
	}
	if cfg.Batch.MaxFileSize != 104857600 {
		t.Errorf("Batch.MaxFileSize = %d, want %d", cfg.Batch.MaxFileSize, 104857600)
	}
	if cfg.Batch.DefaultSort != "none" {
		t.Errorf("Batch.DefaultSort = %q, want %q", cfg.Batch.DefaultSort, "none")
	}
	if !cfg.Batch.Progress {
		t.Error("Batch.Progress should default to true")
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BATCH_WORKERS", "8")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BATCH_PROGRESS", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Batch.Workers != 8 {
		t.Errorf("Batch.Workers = %d, want %d", cfg.Batch.Workers, 8)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Batch.Progress {
		t.Error("Batch.Progress should be false")
	}
}

func TestLoad_Duration(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "45s")
	t.Setenv("SERVER_MAX_WAIT_TIME", "1m30s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Server.MaxWaitTime != 90*time.Second {
		t.Errorf("Server.MaxWaitTime = %v, want %v", cfg.Server.MaxWaitTime, 90*time.Second)
	}
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("BATCH_WORKERS", "many")

	_, err := Load("")
	if err == nil {
		t.Fatal("Load() expected error for non-numeric BATCH_WORKERS")
	}
	if !strings.Contains(err.Error(), "BATCH_WORKERS") {
		t.Errorf("error should mention BATCH_WORKERS: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
[server]
port = 7070
max_wait_time = "2s"

[batch]
default_sort = "age"
output_format = "json"
progress = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 7070)
	}
	if cfg.Server.MaxWaitTime != 2*time.Second {
		t.Errorf("Server.MaxWaitTime = %v, want %v", cfg.Server.MaxWaitTime, 2*time.Second)
	}
	if cfg.Batch.DefaultSort != "age" {
		t.Errorf("Batch.DefaultSort = %q, want %q", cfg.Batch.DefaultSort, "age")
	}
	if cfg.Batch.Progress {
		t.Error("Batch.Progress should be false from file")
	}
	// Untouched keys keep their defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := writeFile(t, "[server]\nport = 7070\n")
	t.Setenv("SERVER_PORT", "6060")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 6060)
	}
}

func TestLoad_FileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[batch]\nshoe_size = 3\n", "unknown keys"},
		{"bad syntax", "[server\nport = 1\n", "config file"},
		{"invalid value", "[batch]\ndefault_sort = \"height\"\n", "BATCH_DEFAULT_SORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"zero concurrency", func(c *Config) { c.Server.MaxConcurrent = 0 }, "SERVER_MAX_CONCURRENT"},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }, "BATCH_WORKERS"},
		{"bad sort", func(c *Config) { c.Batch.DefaultSort = "height" }, "BATCH_DEFAULT_SORT"},
		{"bad format", func(c *Config) { c.Batch.OutputFormat = "xml" }, "BATCH_OUTPUT_FORMAT"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
	}

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("validConfig().Validate() = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %s: %v", tt.want, err)
			}
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"SERVER_PORT", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString(t *testing.T) {
	str := validConfig().String()
	for _, want := range []string{"Port: 8080", `DefaultSort: "none"`, `Level: "info"`} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %q, should contain %q", str, want)
		}
	}
}
