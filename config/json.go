package config

import (
	"encoding/json"
	"os"
	"time"
)

// jsonConfig is the file-facing shape of Config. Durations are
// accepted as strings in time.ParseDuration syntax ("10m", "24h").
type jsonConfig struct {
	HTTPAddr        string `json:"http_addr"`
	DatabaseDSN     string `json:"database_dsn"`
	SecretKey       string `json:"secret_key"`
	Issuer          string `json:"issuer"`
	AuthScheme      string `json:"auth_scheme"`
	AccessTokenTTL  string `json:"access_token_ttl"`
	RefreshTokenTTL string `json:"refresh_token_ttl"`
}

// parseJSON overlays values from the file named by the CONFIG env var.
// Missing env var means no file is loaded; an unreadable or invalid
// file panics, since running with half a config is worse than not
// starting.
func parseJSON(config *Config) {
	path := os.Getenv("CONFIG")
	if path == "" {
		return
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(raw, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Issuer, c.Issuer)
	setString(&config.AuthScheme, c.AuthScheme)
	setDuration(&config.AccessTokenTTL, c.AccessTokenTTL)
	setDuration(&config.RefreshTokenTTL, c.RefreshTokenTTL)
}

func setString(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

func setDuration(dst *time.Duration, val string) {
	if val == "" {
		return
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		panic(err)
	}
	*dst = d
}
