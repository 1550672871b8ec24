package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	USDA      USDAConfig      `mapstructure:"usda"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// USDAConfig holds FoodData Central API configuration
type USDAConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	SortBy    string        `mapstructure:"sort_by"`
	SortOrder string        `mapstructure:"sort_order"`
}

// CacheConfig holds the TTLs of the two catalog caches
type CacheConfig struct {
	SearchTTL time.Duration `mapstructure:"search_ttl"`
	DetailTTL time.Duration `mapstructure:"detail_ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP      int `mapstructure:"per_ip"`      // requests per minute per client IP, 0 disables
	USDAHourly int `mapstructure:"usda_hourly"` // upstream calls per hour
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nutritionrx/")

	// NUTRITIONRX_USDA_API_KEY -> usda.api_key
	v.SetEnvPrefix("NUTRITIONRX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv can bind it on Unmarshal
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// USDA defaults
	v.SetDefault("usda.api_key", "")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")
	v.SetDefault("usda.timeout", "15s")
	v.SetDefault("usda.sort_by", "dataType.keyword")
	v.SetDefault("usda.sort_order", "asc")

	// Cache defaults
	v.SetDefault("cache.search_ttl", "24h")
	v.SetDefault("cache.detail_ttl", "720h") // 30 days

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.usda_hourly", 1000)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.USDA.APIKey == "" {
		return fmt.Errorf("USDA API key is required (set NUTRITIONRX_USDA_API_KEY)")
	}

	if config.USDA.Timeout <= 0 {
		return fmt.Errorf("USDA timeout must be positive, got: %s", config.USDA.Timeout)
	}

	if config.USDA.SortOrder != "asc" && config.USDA.SortOrder != "desc" {
		return fmt.Errorf("USDA sort order must be 'asc' or 'desc', got: %s", config.USDA.SortOrder)
	}

	if config.Cache.SearchTTL <= 0 || config.Cache.DetailTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive, got search=%s detail=%s",
			config.Cache.SearchTTL, config.Cache.DetailTTL)
	}

	if config.RateLimit.USDAHourly <= 0 {
		return fmt.Errorf("USDA hourly quota must be positive, got: %d", config.RateLimit.USDAHourly)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit cannot be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
