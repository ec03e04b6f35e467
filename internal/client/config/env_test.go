package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_Variables(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv(EnvAPIURL, "https://api.example")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvTimeout, "7")
	t.Setenv(EnvRetries, "5")

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	assert.Equal(t, "https://api.example", cfg.APIURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.BootstrapRetries)
	assert.Equal(t, "saathi.db", cfg.DBPath)
}

func TestParseEnv_BadNumbersKeepDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv(EnvTimeout, "soon")
	t.Setenv(EnvRetries, "x")

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2, cfg.BootstrapRetries)
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "client.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"SAATHI_GOOGLE_CLIENT_ID=file-client\nSAATHI_DB_PATH=file.db\n"), 0o600))

	// Real environment wins over the file.
	t.Setenv(EnvDBPath, "env.db")
	// t.Setenv restores the variable afterwards; godotenv sets it directly.
	t.Setenv(EnvGoogleClientID, "")
	require.NoError(t, os.Unsetenv(EnvGoogleClientID))

	os.Args = []string{"testbin", "-env", path}

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	assert.Equal(t, "file-client", cfg.GoogleClientID)
	assert.Equal(t, "env.db", cfg.DBPath)
}

func TestParseEnv_MissingNamedFilePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-e", filepath.Join(t.TempDir(), "nope.env")}

	var cfg Config
	require.Panics(t, func() { parseEnv(&cfg) })
}
