package config

import (
	"encoding/json"
	"os"

	"github.com/corporatesaathi/saathi/internal/flagx"
	"github.com/corporatesaathi/saathi/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// RequestTimeout relies on timex.Duration so JSON can give it either as a
// string like "15s" or as integer nanoseconds. Pointers distinguish absent
// keys from zero values; absent keys leave Config untouched.
type JsonConfig struct {
	APIURL           *string         `json:"api_url"`
	GoogleClientID   *string         `json:"google_client_id"`
	DBPath           *string         `json:"db_path"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	BootstrapRetries *int            `json:"bootstrap_retries"`
	LogLevel         *string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file whose path
// is given with -c or -config. Without the flag nothing is loaded.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIURL != nil {
		cfg.APIURL = *jc.APIURL
	}
	if jc.GoogleClientID != nil {
		cfg.GoogleClientID = *jc.GoogleClientID
	}
	if jc.DBPath != nil {
		cfg.DBPath = *jc.DBPath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.BootstrapRetries != nil {
		cfg.BootstrapRetries = *jc.BootstrapRetries
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
