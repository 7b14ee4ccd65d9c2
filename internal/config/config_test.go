package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `{
		"gemini_api_key": "gem-key",
		"places_api_key": "places-key",
		"listen_addr": ":9000",
		"max_local_results": 5,
		"use_browser": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gem-key", cfg.GeminiAPIKey)
	assert.Equal(t, "places-key", cfg.PlacesAPIKey)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 5, cfg.MaxLocalResults)
	assert.True(t, cfg.UseBrowser)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestValidate_RequiresGeminiKey(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini_api_key")

	cfg.GeminiAPIKey = "gem-key"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_NegativeMaxLocalResults(t *testing.T) {
	cfg := &Config{GeminiAPIKey: "gem-key", MaxLocalResults: -1}
	assert.Error(t, cfg.Validate())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-gem")
	t.Setenv("PLACES_API_KEY", "env-places")
	t.Setenv("SEARCH_API_KEY", "env-search")
	t.Setenv("ETHICART_AUTH_TOKEN", "env-token")
	t.Setenv("ETHICART_ADDR", ":7070")

	cfg := FromEnv()
	assert.Equal(t, "env-gem", cfg.GeminiAPIKey)
	assert.Equal(t, "env-places", cfg.PlacesAPIKey)
	assert.Equal(t, "env-search", cfg.SearchAPIKey)
	assert.Equal(t, "env-token", cfg.AuthToken)
	assert.Equal(t, ":7070", cfg.ListenAddr)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{GeminiAPIKey: "env-gem"}
	merged := cfg.MergeWithDefaults(Config{
		GeminiAPIKey:    "file-gem",
		PlacesAPIKey:    "file-places",
		MaxLocalResults: 4,
	})

	// Environment wins over the file; file fills the gaps.
	assert.Equal(t, "env-gem", merged.GeminiAPIKey)
	assert.Equal(t, "file-places", merged.PlacesAPIKey)
	assert.Equal(t, 4, merged.MaxLocalResults)
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultMaxLocalResults, cfg.MaxLocalResults)

	custom := Config{ListenAddr: ":9999", MaxLocalResults: 7}.WithDefaults()
	assert.Equal(t, ":9999", custom.ListenAddr)
	assert.Equal(t, 7, custom.MaxLocalResults)
}
