package config

import (
	"flag"
	"os"
	"time"

	"github.com/avoronkov/authcore/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   base64-encoded JWT HMAC secret
//	-t int      access token lifetime, seconds
//	-r int      refresh token lifetime, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "base64-encoded jwt secret")

	accessTokenTTL := fs.Int("t", int(config.AccessTokenTTL.Seconds()), "access token lifetime (in seconds)")
	refreshTokenTTL := fs.Int("r", int(config.RefreshTokenTTL.Seconds()), "refresh token lifetime (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenTTL = time.Duration(*accessTokenTTL) * time.Second
	config.RefreshTokenTTL = time.Duration(*refreshTokenTTL) * time.Second
}
