package config

import (
	"flag"
	"os"
)

// parseEnv overlays Config fields from environment variables.
func parseEnv(config *Config) {
	setString(&config.HTTPAddr, os.Getenv("HTTP_ADDR"))
	setString(&config.DatabaseDSN, os.Getenv("DATABASE_DSN"))
	setString(&config.SecretKey, os.Getenv("SECRET_KEY"))
	setString(&config.Issuer, os.Getenv("JWT_ISSUER"))
	setString(&config.AuthScheme, os.Getenv("AUTH_SCHEME"))
	setDuration(&config.AccessTokenTTL, os.Getenv("ACCESS_TOKEN_TTL"))
	setDuration(&config.RefreshTokenTTL, os.Getenv("REFRESH_TOKEN_TTL"))
}

// parseFlags populates Config fields from command-line flags. Flags
// win over every other source.
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("server", flag.ExitOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT HMAC secret key")
	fs.StringVar(&config.Issuer, "i", config.Issuer, "JWT issuer")

	accessTTL := fs.Duration("t", config.AccessTokenTTL, "access token lifetime")
	refreshTTL := fs.Duration("r", config.RefreshTokenTTL, "refresh token lifetime")

	if err := fs.Parse(os.Args[1:]); err != nil {
		panic(err)
	}

	config.AccessTokenTTL = *accessTTL
	config.RefreshTokenTTL = *refreshTTL
}
