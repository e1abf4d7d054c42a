// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :3000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN; when empty the in-memory user store is used.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// RedisAddr is the Redis host:port; when empty the in-memory banned-token and
	// two-factor stores are used.
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	// JWTSecret signs session tokens. Required; the process refuses to start without it.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// TokenTTLRaw is the session token validity window (e.g. "10m"). Ban entries
	// in Redis live exactly this long.
	TokenTTLRaw string `mapstructure:"TOKEN_TTL"`
	// TwoFATTLRaw is how long a pending two-factor challenge survives in Redis (e.g. "10m").
	TwoFATTLRaw string `mapstructure:"TWO_FA_CODE_TTL"`
	// Argon2Memory is the argon2id memory cost in KiB.
	Argon2Memory uint32 `mapstructure:"ARGON2_MEMORY"`
	// Argon2Time is the argon2id iteration count.
	Argon2Time uint32 `mapstructure:"ARGON2_TIME"`
	// Argon2Parallelism is the argon2id lane count.
	Argon2Parallelism uint8 `mapstructure:"ARGON2_PARALLELISM"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint; empty disables telemetry export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment via Viper. Missing .env is ignored (e.g. in CI); env vars
// override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":3000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "10m")
	v.SetDefault("TWO_FA_CODE_TTL", "10m")
	v.SetDefault("ARGON2_MEMORY", 15000)
	v.SetDefault("ARGON2_TIME", 2)
	v.SetDefault("ARGON2_PARALLELISM", 1)
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET must be set")
	}

	return &cfg, nil
}

// TokenTTL parses TOKEN_TTL as a time.Duration. Returns 10m if unset or invalid.
func (c *Config) TokenTTL() time.Duration {
	d, err := time.ParseDuration(c.TokenTTLRaw)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

// TwoFATTL parses TWO_FA_CODE_TTL as a time.Duration. Returns 10m if unset or invalid.
func (c *Config) TwoFATTL() time.Duration {
	d, err := time.ParseDuration(c.TwoFATTLRaw)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}
