// Package config handles configuration for the development backend:
// defaults overlaid with DEVSERVER_* environment variables.
package config

import (
	"os"
	"time"
)

// Environment variables read by LoadConfig.
const (
	EnvAddr           = "DEVSERVER_ADDR"
	EnvJWTSecret      = "DEVSERVER_JWT_SECRET"
	EnvGoogleClientID = "DEVSERVER_GOOGLE_CLIENT_ID"
	EnvOTPTTL         = "DEVSERVER_OTP_TTL"
	EnvLogLevel       = "DEVSERVER_LOG_LEVEL"
)

// Config holds runtime settings for the development backend.
//
// Fields:
//   - Addr: HTTP bind address.
//   - JWTSecret: HMAC secret for signing session tokens (HS256). Do not use the default outside development.
//   - GoogleClientID: audience required of Google ID tokens. Empty accepts any audience.
//   - OTPValidityDuration / TokenValidityDuration: lifetimes of one-time passwords and session tokens.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Addr                  string
	JWTSecret             string
	GoogleClientID        string
	OTPValidityDuration   time.Duration
	TokenValidityDuration time.Duration
	LogLevel              string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":3000"
	c.JWTSecret = "dev-secret"
	c.GoogleClientID = ""
	c.OTPValidityDuration = 10 * time.Minute
	c.TokenValidityDuration = 24 * time.Hour
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults and then the environment.
// An unparsable DEVSERVER_OTP_TTL keeps the default.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()

	cfg.Addr = loadEnv(EnvAddr, cfg.Addr)
	cfg.JWTSecret = loadEnv(EnvJWTSecret, cfg.JWTSecret)
	cfg.GoogleClientID = loadEnv(EnvGoogleClientID, cfg.GoogleClientID)
	cfg.LogLevel = loadEnv(EnvLogLevel, cfg.LogLevel)
	cfg.OTPValidityDuration = loadEnvAsDuration(EnvOTPTTL, cfg.OTPValidityDuration)
	return cfg
}

func loadEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func loadEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}
