package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the report builder
type Config struct {
	// Output format (text, json)
	Format string `mapstructure:"format"`

	// Verbose output
	Verbose bool `mapstructure:"verbose"`

	// Debug mode
	Debug bool `mapstructure:"debug"`

	// Policy file for the check command (empty searches upward from cwd)
	PolicyFile string `mapstructure:"policy_file"`

	Server ServerConfig `mapstructure:"server"`
	Render RenderConfig `mapstructure:"render"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	ListenAddr        string        `mapstructure:"listen_addr"`
	AllowOrigins      []string      `mapstructure:"allow_origins"`
	BodyLimitBytes    int64         `mapstructure:"body_limit_bytes"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
	// MetricsPath serves Prometheus metrics; empty disables the endpoint
	MetricsPath     string        `mapstructure:"metrics_path"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RenderConfig configures PDF output
type RenderConfig struct {
	Filename    string `mapstructure:"filename"`
	Compress    bool   `mapstructure:"compress"`
	Concurrency int    `mapstructure:"concurrency"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Format: "text",
		Server: ServerConfig{
			ListenAddr:        "127.0.0.1:5000",
			AllowOrigins:      []string{"*"},
			BodyLimitBytes:    2 << 20,
			RateLimitRequests: 60,
			RateLimitWindow:   time.Minute,
			MetricsPath:       "/metrics",
			ShutdownTimeout:   10 * time.Second,
		},
		Render: RenderConfig{
			Filename:    "CyBrain_Report.pdf",
			Compress:    true,
			Concurrency: 4,
		},
	}
}

// Load loads configuration with the following precedence (lowest to highest):
// 1. Default values
// 2. Config file (./cybrain.yaml, ~/cybrain.yaml, $XDG_CONFIG_HOME/cybrain/cybrain.yaml)
// 3. Environment variables (CYBRAIN_*, dots become underscores)
// 4. CLI flags (handled by caller)
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile loads configuration from a specific file path
// If path is empty, it searches for config in standard locations
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("format", defaults.Format)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("policy_file", "")
	v.SetDefault("server.listen_addr", defaults.Server.ListenAddr)
	v.SetDefault("server.allow_origins", defaults.Server.AllowOrigins)
	v.SetDefault("server.body_limit_bytes", defaults.Server.BodyLimitBytes)
	v.SetDefault("server.rate_limit_requests", defaults.Server.RateLimitRequests)
	v.SetDefault("server.rate_limit_window", defaults.Server.RateLimitWindow)
	v.SetDefault("server.metrics_path", defaults.Server.MetricsPath)
	v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
	v.SetDefault("render.filename", defaults.Render.Filename)
	v.SetDefault("render.compress", defaults.Render.Compress)
	v.SetDefault("render.concurrency", defaults.Render.Concurrency)

	v.SetConfigName("cybrain")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}

		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			v.AddConfigPath(filepath.Join(xdgConfig, "cybrain"))
		}
	}

	v.SetEnvPrefix("CYBRAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format: %s (must be text or json)", c.Format)
	}

	if err := c.Server.Validate(); err != nil {
		return err
	}

	if c.Render.Filename == "" {
		return fmt.Errorf("render.filename cannot be empty")
	}
	if filepath.Ext(c.Render.Filename) != ".pdf" {
		return fmt.Errorf("render.filename must end in .pdf")
	}
	if c.Render.Concurrency <= 0 {
		return fmt.Errorf("render.concurrency must be positive")
	}

	return nil
}

// Validate checks the server settings
func (s ServerConfig) Validate() error {
	if _, _, err := net.SplitHostPort(s.ListenAddr); err != nil {
		return fmt.Errorf("invalid server.listen_addr %q: %w", s.ListenAddr, err)
	}
	if s.BodyLimitBytes <= 0 {
		return fmt.Errorf("server.body_limit_bytes must be positive")
	}
	if s.RateLimitRequests < 0 {
		return fmt.Errorf("server.rate_limit_requests cannot be negative")
	}
	if s.RateLimitRequests > 0 && s.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive")
	}
	if s.MetricsPath != "" && !strings.HasPrefix(s.MetricsPath, "/") {
		return fmt.Errorf("server.metrics_path must start with /")
	}
	if strings.HasPrefix(s.MetricsPath, "/api/") {
		return fmt.Errorf("server.metrics_path cannot be under /api/")
	}
	if s.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	return nil
}

// ConfigPath returns the per-user config file location used by init.
func ConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "cybrain", "cybrain.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "cybrain.yaml")
	}
	return "cybrain.yaml"
}

// WriteSampleConfig writes the sample config to path, creating parent
// directories. An existing file is left untouched unless force is set.
func WriteSampleConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateSampleConfig()), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// GenerateSampleConfig generates a sample configuration file content
func GenerateSampleConfig() string {
	return `# CyBrain Report Builder Configuration
# Save this file as ./cybrain.yaml, ~/cybrain.yaml or $XDG_CONFIG_HOME/cybrain/cybrain.yaml
# Every key can also be set via CYBRAIN_* env vars, e.g. CYBRAIN_SERVER_LISTEN_ADDR

# Output format for summarize: text or json
format: text

# Enable verbose output
verbose: false

# Enable debug mode
debug: false

# Policy file for the check command (default: search for .cybrain-policy.yaml)
# policy_file: .cybrain-policy.yaml

server:
  # Address the API listens on
  listen_addr: 127.0.0.1:5000

  # CORS origins allowed to call /api/*
  allow_origins:
    - "*"

  # Maximum request body size in bytes
  body_limit_bytes: 2097152

  # Requests allowed per client IP per window (0 disables rate limiting)
  rate_limit_requests: 60
  rate_limit_window: 1m

  # Prometheus metrics endpoint (empty disables)
  metrics_path: /metrics

  # Grace period for in-flight requests on shutdown
  shutdown_timeout: 10s

render:
  # Default output file name
  filename: CyBrain_Report.pdf

  # Compress PDF streams
  compress: true

  # Reports rendered in parallel when rendering a directory
  concurrency: 4
`
}
