package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_CONN", "postgres://localhost:5432/negotiation?sslmode=disable")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.ServerAddress)
	assert.Equal(t, 48*time.Hour, c.Negotiation.ResponseWindow)
	assert.Equal(t, 1000, c.Negotiation.MessageMaxLength)
	assert.Equal(t, 1024, c.Negotiation.GigCacheSize)
	assert.Equal(t, 20, c.Postgres.MaxOpenConns)
	assert.Equal(t, 30*time.Second, c.ShutdownTimeout)
	assert.True(t, c.MigrateOnStart)
	assert.Equal(t, "/metrics", c.MetricsPath)
}

func TestLoad_RequiresConnection(t *testing.T) {
	t.Setenv("POSTGRES_CONN", "")
	require.NoError(t, os.Unsetenv("POSTGRES_CONN"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("POSTGRES_CONN", "postgres://db")
	t.Setenv("RESPONSE_WINDOW", "2h")
	t.Setenv("MESSAGE_MAX_LENGTH", "50")
	t.Setenv("LOG_FORMAT", "json")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, c.Negotiation.ResponseWindow)
	assert.Equal(t, 50, c.Negotiation.MessageMaxLength)
	assert.Equal(t, "json", c.LogFormat)
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("POSTGRES_CONN", "postgres://db")
	t.Setenv("SERVER_ADDRESS", "")
	require.NoError(t, os.Unsetenv("SERVER_ADDRESS"))
	t.Cleanup(func() { _ = os.Unsetenv("SERVER_ADDRESS") })

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("SERVER_ADDRESS=:9090\n"), 0o600))

	c, err := Load(file, filepath.Join(t.TempDir(), ".env.local"))
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.ServerAddress)
}

func TestLoadEnv_MissingFilesAreSkipped(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadEnv(nil))
	require.NoError(t, LoadEnv([]string{filepath.Join(dir, ".env"), filepath.Join(dir, ".env.local")}))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Negotiation: NegotiationOptions{
				ResponseWindow:   time.Hour,
				MessageMaxLength: 10,
				GigCacheSize:     1,
			},
			ShutdownTimeout: time.Second,
			LogLevel:        "info",
			LogFormat:       "text",
			MetricsPath:     "/metrics",
		}
	}

	require.NoError(t, valid().Validate())

	tests := map[string]func(c *Config){
		"zero window":      func(c *Config) { c.Negotiation.ResponseWindow = 0 },
		"negative message": func(c *Config) { c.Negotiation.MessageMaxLength = -1 },
		"zero cache":       func(c *Config) { c.Negotiation.GigCacheSize = 0 },
		"zero shutdown":    func(c *Config) { c.ShutdownTimeout = 0 },
		"unknown format":   func(c *Config) { c.LogFormat = "xml" },
		"unknown level":    func(c *Config) { c.LogLevel = "trace" },
		"relative metrics": func(c *Config) { c.MetricsPath = "metrics" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
