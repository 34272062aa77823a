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
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds external product catalog configuration
type CatalogConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Path          string        `mapstructure:"path"`
	InMemory      bool          `mapstructure:"in_memory"`
	Capacity      int           `mapstructure:"capacity"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// MatchingConfig holds matching pipeline configuration
type MatchingConfig struct {
	MinScore            float64 `mapstructure:"min_score"`
	SubstituteMinScore  float64 `mapstructure:"substitute_min_score"`
	MaxResults          int     `mapstructure:"max_results"`
	BatchGroupSize      int     `mapstructure:"batch_group_size"`
	EnableFuzzyMatching bool    `mapstructure:"enable_fuzzy_matching"`
	FuzzyEditDistance   int     `mapstructure:"fuzzy_edit_distance"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pantryport/")

	// Environment variable settings
	v.SetEnvPrefix("PANTRYPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
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
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Catalog defaults
	v.SetDefault("catalog.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.max_retries", 2)
	v.SetDefault("catalog.rate_per_second", 10)

	// Cache defaults
	v.SetDefault("cache.path", "./data/cache")
	v.SetDefault("cache.in_memory", false)
	v.SetDefault("cache.capacity", 100)
	v.SetDefault("cache.sweep_interval", "1h")

	// Matching defaults
	v.SetDefault("matching.min_score", 0.3)
	v.SetDefault("matching.substitute_min_score", 0.2)
	v.SetDefault("matching.max_results", 10)
	v.SetDefault("matching.batch_group_size", 5)
	v.SetDefault("matching.enable_fuzzy_matching", false)
	v.SetDefault("matching.fuzzy_edit_distance", 1)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL is required (set PANTRYPORT_CATALOG_BASE_URL)")
	}

	if config.Cache.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be positive, got: %d", config.Cache.Capacity)
	}

	if config.Matching.MinScore < 0 || config.Matching.MinScore > 1 {
		return fmt.Errorf("matching min_score must be in [0,1], got: %v", config.Matching.MinScore)
	}

	if config.Matching.BatchGroupSize <= 0 {
		return fmt.Errorf("matching batch_group_size must be positive, got: %d", config.Matching.BatchGroupSize)
	}

	return nil
}
