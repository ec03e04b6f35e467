package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-a", "http://api:8080", "-g", "cid", "-d", "x.db", "-t", "5", "-r", "4", "-l", "debug"},
			expected: &Config{
				APIURL: "http://api:8080", GoogleClientID: "cid", DBPath: "x.db",
				RequestTimeout: 5 * time.Second, BootstrapRetries: 4, LogLevel: "debug",
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"cmd", "-config", "x.json", "-a", "http://api:8080"},
			expected: &Config{APIURL: "http://api:8080"},
		},
		{name: "incorrect timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true, expected: &Config{}},
		{name: "incorrect retries", args: []string{"cmd", "-r", "many"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
