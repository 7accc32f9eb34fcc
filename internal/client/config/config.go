// Package config loads runtime configuration for the CatClub CLI.
//
// Sources and precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
package config

import "time"

// Config holds runtime settings for the CatClub client.
type Config struct {
	// BaseURL is the root of the platform API, including the version
	// prefix, e.g. "http://localhost:8000/api/v1".
	BaseURL string

	// CredentialsDSN is the sqlite DSN of the local database holding the
	// persisted access token.
	CredentialsDSN string

	// RequestTimeout bounds every single HTTP attempt.
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8000/api/v1"
	c.CredentialsDSN = "catclub.db"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig builds a Config from defaults, then the JSON file (if any),
// then flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
