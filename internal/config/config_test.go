package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "default configuration is valid",
			mutate: func(c *Config) {},
		},
		{
			name:        "invalid http port",
			mutate:      func(c *Config) { c.HTTP.Port = 70000 },
			expectError: true,
			errorMsg:    "port must be between",
		},
		{
			name:        "empty http bind address",
			mutate:      func(c *Config) { c.HTTP.BindAddress = "" },
			expectError: true,
			errorMsg:    "bind_address cannot be empty",
		},
		{
			name:        "empty static dir",
			mutate:      func(c *Config) { c.HTTP.StaticDir = "" },
			expectError: true,
			errorMsg:    "static_dir cannot be empty",
		},
		{
			name:        "zero udp port",
			mutate:      func(c *Config) { c.UDP.Port = 0 },
			expectError: true,
			errorMsg:    "port must be between",
		},
		{
			name:        "udp buffer too small",
			mutate:      func(c *Config) { c.UDP.BufferSize = 512 },
			expectError: true,
			errorMsg:    "buffer_size must be at least 1024",
		},
		{
			name:        "zero udp read timeout",
			mutate:      func(c *Config) { c.UDP.ReadTimeout = 0 },
			expectError: true,
			errorMsg:    "read_timeout must be at least 1",
		},
		{
			name:        "empty storage path",
			mutate:      func(c *Config) { c.Storage.Path = "" },
			expectError: true,
			errorMsg:    "path cannot be empty",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.Logging.Level = "verbose" },
			expectError: true,
			errorMsg:    "level must be one of",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.Logging.Format = "xml" },
			expectError: true,
			errorMsg:    "format must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				} else if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error to contain '%s', got '%s'", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestDefaultCarriesReferenceConstants(t *testing.T) {
	cfg := Default()

	if got := cfg.HTTPAddr(); got != "127.0.0.1:5000" {
		t.Errorf("Expected HTTP address 127.0.0.1:5000, got %s", got)
	}
	if got := cfg.UDPAddr(); got != "127.0.0.1:3000" {
		t.Errorf("Expected UDP address 127.0.0.1:3000, got %s", got)
	}
	if cfg.Storage.Path != "storage/data.json" {
		t.Errorf("Expected storage path storage/data.json, got %s", cfg.Storage.Path)
	}
	if got := cfg.UDP.GetReadTimeoutDuration(); got != time.Second {
		t.Errorf("Expected 1s poll interval, got %s", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
http:
  bind_address: "0.0.0.0"
  port: 8080
udp:
  port: 9090
storage:
  path: "/var/lib/relay/data.json"
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.HTTPAddr(); got != "0.0.0.0:8080" {
		t.Errorf("Expected HTTP address 0.0.0.0:8080, got %s", got)
	}
	if cfg.UDP.Port != 9090 {
		t.Errorf("Expected UDP port 9090, got %d", cfg.UDP.Port)
	}
	if cfg.Storage.Path != "/var/lib/relay/data.json" {
		t.Errorf("Expected overridden storage path, got %s", cfg.Storage.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Logging.Level)
	}

	// Settings absent from the file keep their defaults.
	if cfg.UDP.BufferSize != 65536 {
		t.Errorf("Expected default buffer size, got %d", cfg.UDP.BufferSize)
	}
	if cfg.HTTP.StaticDir != "static" {
		t.Errorf("Expected default static dir, got %s", cfg.HTTP.StaticDir)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("Expected error but got none")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("http: [not a mapping"), 0o644); err != nil {
			t.Fatalf("Failed to write fixture: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Expected error but got none")
		}
	})

	t.Run("fails validation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("udp:\n  port: 99999\n"), 0o644); err != nil {
			t.Fatalf("Failed to write fixture: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Expected error but got none")
		}
	})
}
