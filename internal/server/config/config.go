// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables, and
// command-line flags.
package config

import (
	"encoding/base64"
	"errors"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the authcore server.
//
// Fields:
//   - Addr: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory
//     account store.
//   - JWTSecret: base64-encoded HMAC key material for signing JWTs (HS256).
//     Required; the server refuses to start without it.
//   - AccessTokenTTL / RefreshTokenTTL: token lifetimes.
type Config struct {
	Addr            string
	DatabaseDSN     string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// LoadDefaults populates Config with development defaults. The JWT secret
// has no default on purpose.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabaseDSN = ""
	c.AccessTokenTTL = 900 * time.Second
	c.RefreshTokenTTL = 604800 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and finally command-line
// flags. A .env file in the working directory is loaded first if present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// SigningKey decodes the configured base64 JWT secret into raw key bytes.
func (c *Config) SigningKey() ([]byte, error) {
	if c.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	key, err := base64.StdEncoding.DecodeString(c.JWTSecret)
	if err != nil {
		return nil, errors.New("jwt secret is not valid base64")
	}
	if len(key) == 0 {
		return nil, errors.New("jwt secret decodes to empty key")
	}
	return key, nil
}
