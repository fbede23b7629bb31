package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_MODE", "")
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080 for invalid value, got %d", cfg.Server.Port)
	}
	if cfg.JWT.AccessTokenExpiry != 15*time.Minute {
		t.Errorf("expected access expiry 15m, got %v", cfg.JWT.AccessTokenExpiry)
	}
}

func TestLoad_ModeIsNormalized(t *testing.T) {
	t.Setenv("STORAGE_MODE", "CLOUD")

	cfg := Load()

	if cfg.Storage.Mode != StorageModeCloud {
		t.Errorf("expected mode %q, got %q", StorageModeCloud, cfg.Storage.Mode)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:   "local with path",
			mutate: func(c *Config) { c.Storage.Mode = StorageModeLocal; c.Storage.Local.Path = "x.db" },
		},
		{
			name:    "local without path",
			mutate:  func(c *Config) { c.Storage.Mode = StorageModeLocal; c.Storage.Local.Path = "" },
			wantErr: true,
		},
		{
			name: "cloud without redis",
			mutate: func(c *Config) {
				c.Storage.Mode = StorageModeCloud
				c.Storage.Cloud.URL = "https://example.supabase.co"
				c.Storage.Cloud.ServiceKey = "key"
				c.Redis.URL = ""
			},
			wantErr: true,
		},
		{
			name: "cloud complete",
			mutate: func(c *Config) {
				c.Storage.Mode = StorageModeCloud
				c.Storage.Cloud.URL = "https://example.supabase.co"
				c.Storage.Cloud.ServiceKey = "key"
				c.Redis.URL = "redis://localhost:6379/0"
			},
		},
		{
			name:    "unknown mode",
			mutate:  func(c *Config) { c.Storage.Mode = "mongo" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_RateLimitToggle(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	if Load().Server.RateLimitEnabled {
		t.Error("expected rate limiting to be disabled")
	}

	t.Setenv("RATE_LIMIT_ENABLED", "maybe")
	if !Load().Server.RateLimitEnabled {
		t.Error("expected unparsable value to fall back to enabled")
	}
}
