// Package config loads service configuration from the environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultAgentModel is the Gemini model used by the coach when none is configured
const DefaultAgentModel = "gemini-2.0-flash"

// Config is the full service configuration.
// Every key can be set through the upper-cased environment variable of the
// same name (rate_limit.enabled -> RATE_LIMIT_ENABLED).
type Config struct {
	DatabaseURL  string `mapstructure:"database_url"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	AgentModel   string `mapstructure:"agent_model"`
	Port         int    `mapstructure:"port"`

	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`

	RedisURL      string        `mapstructure:"redis_url"` // empty disables the stats cache
	StatsCacheTTL time.Duration `mapstructure:"stats_cache_ttl"`

	SearchMaxLimit int           `mapstructure:"search_max_limit"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`

	LogJSON  bool `mapstructure:"log_json"`
	LogDebug bool `mapstructure:"log_debug"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig configures the HTTP rate limiter
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_url", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("agent_model", DefaultAgentModel)
	v.SetDefault("port", 8080)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expiration_hours", 24)
	v.SetDefault("redis_url", "")
	v.SetDefault("stats_cache_ttl", 5*time.Minute)
	v.SetDefault("search_max_limit", 50)
	v.SetDefault("session_ttl", 2*time.Hour)
	v.SetDefault("log_json", false)
	v.SetDefault("log_debug", false)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 1000)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.blacklist", []string{})
}

// Load reads configuration from the environment, overlaid on the file at
// path when one is given (JSON, YAML or TOML by extension).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.AgentModel = strings.TrimPrefix(cfg.AgentModel, "google-gla:")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. Required secrets are checked by the
// commands that need them.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port))
	}
	if c.SearchMaxLimit < 1 {
		errs = append(errs, fmt.Errorf("config error: 'search_max_limit' must be at least 1, got %d", c.SearchMaxLimit))
	}
	if c.StatsCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("config error: 'stats_cache_ttl' must be positive, got %s", c.StatsCacheTTL))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, fmt.Errorf("config error: 'session_ttl' must be non-negative"))
	}
	if c.RateLimit.Enabled && c.RateLimit.DefaultLimit < 0 {
		errs = append(errs, fmt.Errorf("config error: 'rate_limit.default_limit' must be non-negative"))
	}
	return errors.Join(errs...)
}
