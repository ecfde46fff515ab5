package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// Empty directory: no config file, defaults apply.
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "trading_journal.db", cfg.Database.DSN)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "gemini-3-flash-preview", cfg.Gemini.TextModel)
	assert.Equal(t, 30, cfg.Gemini.TimeoutSeconds)
	assert.Equal(t, "demo@example.com", cfg.Journal.DemoEmail)
	assert.Equal(t, float64(100000), cfg.Journal.DemoCapital)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	// Env overrides must reach Unmarshal even without a config file,
	// including the API key, which has no meaningful file default.
	t.Setenv("GEMINI_API_KEY", "key-from-env")
	t.Setenv("SERVER_PORT", "8080")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "key-from-env", cfg.Gemini.APIKey)
	assert.Equal(t, 8080, cfg.Server.Port)
}
