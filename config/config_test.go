package config

import (
	"os"
	"testing"
	"time"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("os.Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("os.Chdir(%q) error = %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("NUTRITIONRX_USDA_API_KEY", "test-key")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.USDA.BaseURL != "https://api.nal.usda.gov/fdc" {
			t.Errorf("USDA.BaseURL = %s, want https://api.nal.usda.gov/fdc", cfg.USDA.BaseURL)
		}
		if cfg.USDA.Timeout != 15*time.Second {
			t.Errorf("USDA.Timeout = %v, want 15s", cfg.USDA.Timeout)
		}
		if cfg.USDA.SortOrder != "asc" {
			t.Errorf("USDA.SortOrder = %s, want asc", cfg.USDA.SortOrder)
		}
		if cfg.Cache.SearchTTL != 24*time.Hour {
			t.Errorf("Cache.SearchTTL = %v, want 24h", cfg.Cache.SearchTTL)
		}
		if cfg.Cache.DetailTTL != 720*time.Hour {
			t.Errorf("Cache.DetailTTL = %v, want 720h", cfg.Cache.DetailTTL)
		}
		if cfg.RateLimit.PerIP != 60 {
			t.Errorf("RateLimit.PerIP = %d, want 60", cfg.RateLimit.PerIP)
		}
		if cfg.RateLimit.USDAHourly != 1000 {
			t.Errorf("RateLimit.USDAHourly = %d, want 1000", cfg.RateLimit.USDAHourly)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("NUTRITIONRX_SERVER_PORT", "9090")
		t.Setenv("NUTRITIONRX_SERVER_ENVIRONMENT", "production")
		t.Setenv("NUTRITIONRX_USDA_API_KEY", "custom-api-key")
		t.Setenv("NUTRITIONRX_USDA_BASE_URL", "https://custom.api.com")
		t.Setenv("NUTRITIONRX_USDA_TIMEOUT", "5s")
		t.Setenv("NUTRITIONRX_CACHE_SEARCH_TTL", "1h")
		t.Setenv("NUTRITIONRX_CACHE_DETAIL_TTL", "48h")
		t.Setenv("NUTRITIONRX_RATELIMIT_PER_IP", "0")
		t.Setenv("NUTRITIONRX_RATELIMIT_USDA_HOURLY", "3600")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.USDA.APIKey != "custom-api-key" {
			t.Errorf("USDA.APIKey = %s, want custom-api-key", cfg.USDA.APIKey)
		}
		if cfg.USDA.BaseURL != "https://custom.api.com" {
			t.Errorf("USDA.BaseURL = %s, want https://custom.api.com", cfg.USDA.BaseURL)
		}
		if cfg.USDA.Timeout != 5*time.Second {
			t.Errorf("USDA.Timeout = %v, want 5s", cfg.USDA.Timeout)
		}
		if cfg.Cache.SearchTTL != time.Hour {
			t.Errorf("Cache.SearchTTL = %v, want 1h", cfg.Cache.SearchTTL)
		}
		if cfg.Cache.DetailTTL != 48*time.Hour {
			t.Errorf("Cache.DetailTTL = %v, want 48h", cfg.Cache.DetailTTL)
		}
		if cfg.RateLimit.PerIP != 0 {
			t.Errorf("RateLimit.PerIP = %d, want 0", cfg.RateLimit.PerIP)
		}
		if cfg.RateLimit.USDAHourly != 3600 {
			t.Errorf("RateLimit.USDAHourly = %d, want 3600", cfg.RateLimit.USDAHourly)
		}
	})

	t.Run("fails validation when API key is missing", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("NUTRITIONRX_USDA_API_KEY", "")

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing API key")
		}
		if err.Error() != "invalid configuration: USDA API key is required (set NUTRITIONRX_USDA_API_KEY)" {
			t.Errorf("Load() error = %v, want 'USDA API key is required'", err)
		}
	})

	t.Run("fails validation for zero quota", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("NUTRITIONRX_USDA_API_KEY", "test-key")
		t.Setenv("NUTRITIONRX_RATELIMIT_USDA_HOURLY", "0")

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for zero quota")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			USDA: USDAConfig{
				APIKey:    "test-key",
				BaseURL:   "https://api.nal.usda.gov/fdc",
				Timeout:   15 * time.Second,
				SortOrder: "asc",
			},
			Cache: CacheConfig{
				SearchTTL: 24 * time.Hour,
				DetailTTL: 720 * time.Hour,
			},
			RateLimit: RateLimitConfig{
				PerIP:      60,
				USDAHourly: 1000,
			},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty API key", func(c *Config) { c.USDA.APIKey = "" }},
		{"zero timeout", func(c *Config) { c.USDA.Timeout = 0 }},
		{"bad sort order", func(c *Config) { c.USDA.SortOrder = "sideways" }},
		{"zero search TTL", func(c *Config) { c.Cache.SearchTTL = 0 }},
		{"negative detail TTL", func(c *Config) { c.Cache.DetailTTL = -time.Hour }},
		{"zero quota", func(c *Config) { c.RateLimit.USDAHourly = 0 }},
		{"negative per-IP limit", func(c *Config) { c.RateLimit.PerIP = -1 }},
	}

	for _, tt := range tests {
		t.Run("fails for "+tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := validate(cfg); err == nil {
				t.Errorf("validate() error = nil, want error for %s", tt.name)
			}
		})
	}
}
