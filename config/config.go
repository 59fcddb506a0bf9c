// Package config handles runtime configuration for the server:
// defaults, an optional JSON file overlay, environment variables, and
// command-line flags, in that order of precedence.
package config

import "time"

// Config holds runtime settings for the innotter server.
type Config struct {
	HTTPAddr        string
	DatabaseDSN     string
	SecretKey       string
	Issuer          string
	AuthScheme      string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// LoadDefaults populates Config with development defaults. These are
// insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.DatabaseDSN = "file:innotter.db?cache=shared&_pragma=foreign_keys(1)"
	c.SecretKey = "secretKey"
	c.Issuer = "innotter"
	c.AuthScheme = "Token"
	c.AccessTokenTTL = 10 * time.Minute
	c.RefreshTokenTTL = 24 * time.Hour
}

// LoadConfig builds a Config by applying defaults, then overlaying
// values from an optional JSON file, environment variables, and
// finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
