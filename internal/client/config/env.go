package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/corporatesaathi/saathi/internal/flagx"
)

// Environment variables read by parseEnv.
const (
	EnvAPIURL         = "SAATHI_API_URL"
	EnvGoogleClientID = "SAATHI_GOOGLE_CLIENT_ID"
	EnvDBPath         = "SAATHI_DB_PATH"
	EnvLogLevel       = "SAATHI_LOG_LEVEL"
	EnvTimeout        = "SAATHI_REQUEST_TIMEOUT"
	EnvRetries        = "SAATHI_BOOTSTRAP_RETRIES"
)

const defaultEnvFile = ".env"

// parseEnv loads a dotenv file into the process environment and overlays
// the SAATHI_* variables onto cfg. Variables already set in the environment
// win over the file. The file comes from -e/-env; otherwise ./.env is used
// when it exists. A named file that cannot be read panics, like a bad JSON
// config does.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	cfg.APIURL = loadEnv(EnvAPIURL, cfg.APIURL)
	cfg.GoogleClientID = loadEnv(EnvGoogleClientID, cfg.GoogleClientID)
	cfg.DBPath = loadEnv(EnvDBPath, cfg.DBPath)
	cfg.LogLevel = loadEnv(EnvLogLevel, cfg.LogLevel)
	cfg.BootstrapRetries = loadEnvAsInt(EnvRetries, cfg.BootstrapRetries)
	if v, ok := os.LookupEnv(EnvTimeout); ok {
		if d, err := parseSeconds(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}

func loadEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func loadEnvAsInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
