// Package config loads runtime configuration for the CorporateSaathi
// terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally seeded from a .env file selected
//     with -e or -env (./.env when present otherwise).
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend API
//	-g string   Google OAuth client id
//	-d string   path of the local SQLite database
//	-t int      request timeout (seconds)
//	-r int      bootstrap retries on network errors
//	-l string   log level
//
// Environment
//
//	SAATHI_API_URL, SAATHI_GOOGLE_CLIENT_ID, SAATHI_DB_PATH,
//	SAATHI_REQUEST_TIMEOUT (seconds), SAATHI_BOOTSTRAP_RETRIES,
//	SAATHI_LOG_LEVEL
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "15s" or integer nanoseconds:
//
//	{
//	  "api_url": "https://api.corporatesaathi.in",
//	  "google_client_id": "123.apps.googleusercontent.com",
//	  "db_path": "saathi.db",
//	  "request_timeout": "15s",
//	  "bootstrap_retries": 2,
//	  "log_level": "info"
//	}
package config
