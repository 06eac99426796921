// Package config loads application configuration.
//
// Priority: defaults < TOML file (CONFIG_FILE) < .env < environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config is the root configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Market MarketConfig `toml:"market"`
	Redis  RedisConfig  `toml:"redis"`
	Cache  CacheConfig  `toml:"cache"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int      `toml:"port" validate:"min=1,max=65535"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" validate:"gt=0"`
	AllowedOrigins  []string `toml:"allowed_origins"`
}

// MarketConfig selects and configures the price provider.
type MarketConfig struct {
	Provider          string   `toml:"provider" validate:"oneof=yahoo twelvedata"`
	TwelveDataAPIKey  string   `toml:"twelvedata_api_key" validate:"required_if=Provider twelvedata"`
	TwelveDataBaseURL string   `toml:"twelvedata_base_url" validate:"omitempty,url"`
	Timeout           Duration `toml:"timeout" validate:"gt=0"`
	RequestsPerMinute int      `toml:"requests_per_minute" validate:"min=0"`
}

// RedisConfig holds the optional Redis connection. An empty Host disables caching in Redis.
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port" validate:"omitempty,min=1,max=65535"`
	Password string `toml:"password"`
	DB       int    `toml:"db" validate:"min=0"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Enabled reports whether a Redis host is configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// CacheConfig sets when cached prices expire each day.
type CacheConfig struct {
	RefreshHour int    `toml:"refresh_hour" validate:"min=0,max=23"`
	Timezone    string `toml:"timezone" validate:"required"`
}

// Location resolves Timezone.
func (c CacheConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
	Env   string `toml:"env" validate:"oneof=dev prod"`
}

// Duration is a time.Duration written as a string such as "10s" in TOML and env.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Market: MarketConfig{
			Provider:          "yahoo",
			Timeout:           Duration(10 * time.Second),
			RequestsPerMinute: 60,
		},
		Redis: RedisConfig{
			Port: 6379,
		},
		Cache: CacheConfig{
			RefreshHour: 8,
			Timezone:    "Asia/Tokyo",
		},
		Log: LogConfig{
			Level: "info",
			Env:   "prod",
		},
	}
}

// Load builds the configuration from defaults, the optional TOML file named by
// CONFIG_FILE, a .env file in the working directory and environment variables.
func Load() (*Config, error) {
	// .env が無い場合はシステムの環境変数のみを使用
	_ = godotenv.Load(".env")
	return LoadFrom(os.Getenv("CONFIG_FILE"))
}

// LoadFrom is Load with an explicit config file path. An empty path skips the file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Cache.Location(); err != nil {
		return fmt.Errorf("invalid config: cache timezone: %w", err)
	}
	return nil
}

func applyEnvOverrides(c *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("env %s: %w", key, err)
			}
			*dst = n
		}
		return nil
	}
	dur := func(key string, dst *Duration) error {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("env %s: %w", key, err)
			}
		}
		return nil
	}

	str("APP_ENV", &c.Log.Env)
	str("LOG_LEVEL", &c.Log.Level)
	str("MARKET_PROVIDER", &c.Market.Provider)
	str("TWELVE_DATA_API_KEY", &c.Market.TwelveDataAPIKey)
	str("TWELVE_DATA_BASE_URL", &c.Market.TwelveDataBaseURL)
	str("REDIS_HOST", &c.Redis.Host)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("CACHE_TIMEZONE", &c.Cache.Timezone)

	for key, dst := range map[string]*int{
		"PORT":                &c.Server.Port,
		"REDIS_PORT":          &c.Redis.Port,
		"REDIS_DB":            &c.Redis.DB,
		"CACHE_REFRESH_HOUR":  &c.Cache.RefreshHour,
		"MARKET_RATE_PER_MIN": &c.Market.RequestsPerMinute,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	if err := dur("MARKET_TIMEOUT", &c.Market.Timeout); err != nil {
		return err
	}
	return dur("SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)
}
