package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Search  SearchConfig  `mapstructure:"search"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds Polymarket Gamma API configuration
type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// CacheConfig holds catalog cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// SearchConfig holds matching and classification thresholds
type SearchConfig struct {
	MinQueryLength int     `mapstructure:"min_query_length"`
	ScoreFloor     float64 `mapstructure:"score_floor"`
	HighConfidence float64 `mapstructure:"high_confidence"`
	MaxCandidates  int     `mapstructure:"max_candidates"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigFile(path)

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("POLYSEEK")
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration populated entirely from defaults, for
// callers that run without a config file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults are static; this can only fail on a programming error.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", "https://gamma-api.polymarket.com")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.max_retries", 3)
	v.SetDefault("api.retry_delay_base", "1s")

	// Cache defaults
	v.SetDefault("cache.ttl", "300s")

	// Search defaults
	v.SetDefault("search.min_query_length", 3)
	v.SetDefault("search.score_floor", 60.0)
	v.SetDefault("search.high_confidence", 85.0)
	v.SetDefault("search.max_candidates", 5)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate API config
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout < 1*time.Second {
		return fmt.Errorf("api.timeout must be at least 1 second")
	}
	if c.API.MaxRetries < 1 {
		return fmt.Errorf("api.max_retries must be at least 1")
	}
	if c.API.RetryDelayBase <= 0 {
		return fmt.Errorf("api.retry_delay_base must be positive")
	}

	// Validate Cache config
	if c.Cache.TTL < 1*time.Second {
		return fmt.Errorf("cache.ttl must be at least 1 second")
	}

	// Validate Search config
	if c.Search.MinQueryLength < 1 {
		return fmt.Errorf("search.min_query_length must be at least 1")
	}
	if c.Search.ScoreFloor < 0 || c.Search.ScoreFloor > 100 {
		return fmt.Errorf("search.score_floor must be between 0 and 100")
	}
	if c.Search.HighConfidence < c.Search.ScoreFloor || c.Search.HighConfidence > 100 {
		return fmt.Errorf("search.high_confidence must be between score_floor and 100")
	}
	if c.Search.MaxCandidates < 1 {
		return fmt.Errorf("search.max_candidates must be at least 1")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
