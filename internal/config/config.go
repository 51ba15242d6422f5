package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Remote        RemoteConfig       `yaml:"remote"`
	Notifications NotificationConfig `yaml:"notifications"`
	Form          FormConfig         `yaml:"form"`
	Controller    ControllerConfig   `yaml:"controller"`
	Log           LogConfig          `yaml:"log"`

	// ConfigPath is the path to the config file (not serialized)
	ConfigPath string `yaml:"-"`
}

// ServerConfig represents the local server configuration
type ServerConfig struct {
	Port               int           `yaml:"port"`
	Host               string        `yaml:"host"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	WSPingInterval     time.Duration `yaml:"ws_ping_interval"`
	HistorySize        int           `yaml:"history_size"`
}

// RemoteConfig represents the generation service connection configuration
type RemoteConfig struct {
	Endpoint      string        `yaml:"endpoint"`
	Timeout       time.Duration `yaml:"timeout"`
	ProbeSchedule string        `yaml:"probe_schedule"`
}

// NotificationConfig holds how long each notification kind stays visible
type NotificationConfig struct {
	InfoTTL  time.Duration `yaml:"info_ttl"`
	ErrorTTL time.Duration `yaml:"error_ttl"`
}

// Range is an inclusive integer range with a default value
type Range struct {
	Min     int `yaml:"min"`
	Max     int `yaml:"max"`
	Default int `yaml:"default"`
}

// FormConfig declares the accepted ranges and defaults of the rendering options
type FormConfig struct {
	BoxSize   Range  `yaml:"box_size"`
	Border    Range  `yaml:"border"`
	FillColor string `yaml:"fill_color"`
	BackColor string `yaml:"back_color"`
}

// ControllerConfig tunes the request lifecycle controller
type ControllerConfig struct {
	// AbortOnReset cancels the in-flight request when the page is reset.
	// When false a late response still lands on the page.
	AbortOnReset bool `yaml:"abort_on_reset"`
}

// LogConfig selects log level and output format ("text" or "json")
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			Host:           "127.0.0.1",
			WSPingInterval: 30 * time.Second,
			HistorySize:    50,
		},
		Remote: RemoteConfig{
			Endpoint:      "http://localhost:5000",
			Timeout:       30 * time.Second,
			ProbeSchedule: "@every 1m",
		},
		Notifications: NotificationConfig{
			InfoTTL:  6 * time.Second,
			ErrorTTL: 12 * time.Second,
		},
		Form: FormConfig{
			BoxSize:   Range{Min: 1, Max: 40, Default: 10},
			Border:    Range{Min: 0, Max: 20, Default: 4},
			FillColor: "#000000",
			BackColor: "#ffffff",
		},
		Controller: ControllerConfig{
			AbortOnReset: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from the config file, then applies .env and
// environment overrides. A missing config file is not an error.
func Load() (*Config, error) {
	// Try to find config file in common locations
	configPaths := []string{
		"config.yaml",
		"configs/config.yaml",
		"/etc/qrstudio/config.yaml",
	}

	cfg := Default()
	for _, path := range configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.ConfigPath = path
		break
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads configuration from an explicit path without env overrides
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ConfigPath = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("QRSTUDIO_ENDPOINT"); v != "" {
		c.Remote.Endpoint = v
	}
	if v := os.Getenv("QRSTUDIO_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QRSTUDIO_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	return nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Remote.Endpoint) == "" {
		return fmt.Errorf("remote.endpoint is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	for name, r := range map[string]Range{"box_size": c.Form.BoxSize, "border": c.Form.Border} {
		if r.Min > r.Max {
			return fmt.Errorf("form.%s: min %d greater than max %d", name, r.Min, r.Max)
		}
		if r.Default < r.Min || r.Default > r.Max {
			return fmt.Errorf("form.%s: default %d outside [%d,%d]", name, r.Default, r.Min, r.Max)
		}
	}
	if c.Server.WSPingInterval <= 0 {
		return fmt.Errorf("server.ws_ping_interval must be positive")
	}
	if c.Notifications.InfoTTL <= 0 || c.Notifications.ErrorTTL <= 0 {
		return fmt.Errorf("notification ttl must be positive")
	}
	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
