package config

import "time"

// Config holds runtime settings for the CorporateSaathi terminal client.
//
// Fields:
//   - APIURL: base URL of the backend REST API.
//   - GoogleClientID: OAuth client id; empty disables Google sign-in.
//   - DBPath: SQLite file holding the session token and theme.
//   - RequestTimeout: per-request HTTP timeout.
//   - BootstrapRetries: retries of the startup profile fetch on network errors.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIURL           string
	GoogleClientID   string
	DBPath           string
	RequestTimeout   time.Duration
	BootstrapRetries int
	LogLevel         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://localhost:3000"
	c.GoogleClientID = ""
	c.DBPath = "saathi.db"
	c.RequestTimeout = 15 * time.Second
	c.BootstrapRetries = 2
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and a .env file), JSON (if present) and command-line
// flags (if present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
