package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Notifications.InfoTTL != 6*time.Second {
		t.Errorf("expected info ttl 6s, got %v", cfg.Notifications.InfoTTL)
	}
	if cfg.Notifications.ErrorTTL != 12*time.Second {
		t.Errorf("expected error ttl 12s, got %v", cfg.Notifications.ErrorTTL)
	}
	if !cfg.Controller.AbortOnReset {
		t.Error("expected abort_on_reset to default to true")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
remote:
  endpoint: https://qr.example.com
  timeout: 5s
notifications:
  info_ttl: 2s
form:
  box_size:
    min: 2
    max: 20
    default: 8
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Remote.Endpoint != "https://qr.example.com" {
		t.Errorf("unexpected endpoint %q", cfg.Remote.Endpoint)
	}
	if cfg.Remote.Timeout != 5*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Remote.Timeout)
	}
	if cfg.Notifications.InfoTTL != 2*time.Second {
		t.Errorf("unexpected info ttl %v", cfg.Notifications.InfoTTL)
	}
	// untouched keys keep their defaults
	if cfg.Notifications.ErrorTTL != 12*time.Second {
		t.Errorf("unexpected error ttl %v", cfg.Notifications.ErrorTTL)
	}
	if cfg.Form.BoxSize.Default != 8 {
		t.Errorf("unexpected box size default %d", cfg.Form.BoxSize.Default)
	}
	if cfg.ConfigPath != path {
		t.Errorf("expected ConfigPath %q, got %q", path, cfg.ConfigPath)
	}
}

func TestValidateRejectsBadRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty endpoint", func(c *Config) { c.Remote.Endpoint = " " }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"inverted range", func(c *Config) { c.Form.Border = Range{Min: 5, Max: 1, Default: 3} }},
		{"default outside range", func(c *Config) { c.Form.BoxSize.Default = 100 }},
		{"zero ttl", func(c *Config) { c.Notifications.ErrorTTL = 0 }},
		{"zero ping interval", func(c *Config) { c.Server.WSPingInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("QRSTUDIO_ENDPOINT", "http://remote:9000")
	t.Setenv("QRSTUDIO_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		t.Fatalf("applyEnv failed: %v", err)
	}
	if cfg.Remote.Endpoint != "http://remote:9000" {
		t.Errorf("unexpected endpoint %q", cfg.Remote.Endpoint)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("unexpected port %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("unexpected log level %q", cfg.Log.Level)
	}

	t.Setenv("QRSTUDIO_PORT", "not-a-number")
	if err := Default().applyEnv(); err == nil {
		t.Error("expected error for non-numeric port")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Remote.Endpoint = "https://saved.example.com"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.Remote.Endpoint != cfg.Remote.Endpoint {
		t.Errorf("expected %q, got %q", cfg.Remote.Endpoint, loaded.Remote.Endpoint)
	}
}
