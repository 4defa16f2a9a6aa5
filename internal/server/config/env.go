package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variable names recognized by parseEnv.
const (
	EnvAddr            = "AUTHCORE_ADDRESS"
	EnvDatabaseDSN     = "AUTHCORE_DATABASE_DSN"
	EnvJWTSecret       = "AUTHCORE_JWT_SECRET"
	EnvAccessTokenTTL  = "AUTHCORE_ACCESS_TOKEN_TTL"
	EnvRefreshTokenTTL = "AUTHCORE_REFRESH_TOKEN_TTL"
)

// parseEnv overlays Config fields from environment variables. Lifetimes are
// integers in seconds. Unset variables leave the current value untouched;
// unparsable numeric values panic, matching the JSON overlay behavior.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv(EnvAddr); ok {
		config.Addr = v
	}
	if v, ok := os.LookupEnv(EnvDatabaseDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(EnvJWTSecret); ok {
		config.JWTSecret = v
	}
	if v, ok := os.LookupEnv(EnvAccessTokenTTL); ok {
		config.AccessTokenTTL = secondsFromEnv(EnvAccessTokenTTL, v)
	}
	if v, ok := os.LookupEnv(EnvRefreshTokenTTL); ok {
		config.RefreshTokenTTL = secondsFromEnv(EnvRefreshTokenTTL, v)
	}
}

func secondsFromEnv(name, value string) time.Duration {
	n, err := strconv.Atoi(value)
	if err != nil {
		panic(name + ": " + err.Error())
	}
	return time.Duration(n) * time.Second
}
