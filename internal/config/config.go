package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	UDP     UDPConfig     `yaml:"udp"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig contains HTTP listener configuration
type HTTPConfig struct {
	BindAddress  string `yaml:"bind_address"`
	Port         int    `yaml:"port"`
	StaticDir    string `yaml:"static_dir"`
	ReadTimeout  int    `yaml:"read_timeout"`  // seconds
	WriteTimeout int    `yaml:"write_timeout"` // seconds
	IdleTimeout  int    `yaml:"idle_timeout"`  // seconds
}

// UDPConfig contains datagram server configuration
type UDPConfig struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
	BufferSize  int    `yaml:"buffer_size"`  // bytes, also the datagram size bound
	ReadTimeout int    `yaml:"read_timeout"` // seconds, cancellation poll interval
}

// StorageConfig contains log file configuration
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns the configuration used when no config file is present:
// both listeners on loopback, HTTP on port 5000, UDP on port 3000, storing
// to storage/data.json.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			BindAddress:  "127.0.0.1",
			Port:         5000,
			StaticDir:    "static",
			ReadTimeout:  10,
			WriteTimeout: 10,
			IdleTimeout:  60,
		},
		UDP: UDPConfig{
			BindAddress: "127.0.0.1",
			Port:        3000,
			BufferSize:  65536,
			ReadTimeout: 1,
		},
		Storage: StorageConfig{
			Path: "storage/data.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// Load reads and parses the configuration file. Settings missing from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.UDP.Validate(); err != nil {
		return fmt.Errorf("udp config: %w", err)
	}

	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates HTTP listener configuration
func (h *HTTPConfig) Validate() error {
	if h.Port < 1 || h.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", h.Port)
	}

	if h.BindAddress == "" {
		return fmt.Errorf("bind_address cannot be empty")
	}

	if h.StaticDir == "" {
		return fmt.Errorf("static_dir cannot be empty")
	}

	if h.ReadTimeout < 1 {
		return fmt.Errorf("read_timeout must be at least 1 second, got %d", h.ReadTimeout)
	}

	if h.WriteTimeout < 1 {
		return fmt.Errorf("write_timeout must be at least 1 second, got %d", h.WriteTimeout)
	}

	if h.IdleTimeout < 1 {
		return fmt.Errorf("idle_timeout must be at least 1 second, got %d", h.IdleTimeout)
	}

	return nil
}

// Validate validates datagram server configuration
func (u *UDPConfig) Validate() error {
	if u.Port < 1 || u.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", u.Port)
	}

	if u.BindAddress == "" {
		return fmt.Errorf("bind_address cannot be empty")
	}

	if u.BufferSize < 1024 {
		return fmt.Errorf("buffer_size must be at least 1024 bytes, got %d", u.BufferSize)
	}

	if u.ReadTimeout < 1 {
		return fmt.Errorf("read_timeout must be at least 1 second, got %d", u.ReadTimeout)
	}

	return nil
}

// Validate validates storage configuration
func (s *StorageConfig) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	// Output accepts stdout, stderr, or a file path.
	return nil
}

// HTTPAddr returns the HTTP listener's host:port string
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.BindAddress, c.HTTP.Port)
}

// UDPAddr returns the datagram server's host:port string
func (c *Config) UDPAddr() string {
	return fmt.Sprintf("%s:%d", c.UDP.BindAddress, c.UDP.Port)
}

// GetReadTimeoutDuration returns the HTTP read timeout as a time.Duration
func (h *HTTPConfig) GetReadTimeoutDuration() time.Duration {
	return time.Duration(h.ReadTimeout) * time.Second
}

// GetWriteTimeoutDuration returns the HTTP write timeout as a time.Duration
func (h *HTTPConfig) GetWriteTimeoutDuration() time.Duration {
	return time.Duration(h.WriteTimeout) * time.Second
}

// GetIdleTimeoutDuration returns the HTTP idle timeout as a time.Duration
func (h *HTTPConfig) GetIdleTimeoutDuration() time.Duration {
	return time.Duration(h.IdleTimeout) * time.Second
}

// GetReadTimeoutDuration returns the receive loop's poll interval as a time.Duration
func (u *UDPConfig) GetReadTimeoutDuration() time.Duration {
	return time.Duration(u.ReadTimeout) * time.Second
}
