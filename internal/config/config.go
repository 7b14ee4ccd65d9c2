// Package config provides configuration loading and validation for the CLI
// and server. Values come from a JSON file, the environment, and flags, in
// that order of increasing precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Default server and result limits.
const (
	DefaultListenAddr      = ":8090"
	DefaultMaxLocalResults = 3
)

// Config represents the application configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must be
// provided via environment variables or CLI flags.
type Config struct {
	// Provider credentials
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Gemini API key (required)
	PlacesAPIKey string `json:"places_api_key,omitempty"` // Places API key; local alternatives disabled without it
	SearchAPIKey string `json:"search_api_key,omitempty"` // Web search API key; online alternatives disabled without it

	// Server
	AuthToken  string `json:"auth_token,omitempty"`  // Static bearer token for the HTTP API
	ListenAddr string `json:"listen_addr,omitempty"` // Address for the HTTP server

	// Behavior
	MaxLocalResults int  `json:"max_local_results,omitempty"` // Cap on local alternatives returned
	UseBrowser      bool `json:"use_browser,omitempty"`       // Use headless browser for SPA retail pages
	Verbose         bool `json:"verbose,omitempty"`           // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv returns a Config populated from environment variables. godotenv
// loading in main makes .env files visible here.
func FromEnv() Config {
	return Config{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		PlacesAPIKey: os.Getenv("PLACES_API_KEY"),
		SearchAPIKey: os.Getenv("SEARCH_API_KEY"),
		AuthToken:    os.Getenv("ETHICART_AUTH_TOKEN"),
		ListenAddr:   os.Getenv("ETHICART_ADDR"),
	}
}

// Validate checks that the configuration has valid values. The Gemini key
// is the only hard requirement; missing secondary provider keys degrade
// the corresponding features instead of failing.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: 'gemini_api_key' is required (set GEMINI_API_KEY)")
	}
	if c.MaxLocalResults < 0 {
		return fmt.Errorf("config error: 'max_local_results' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to layer file values under environment values.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.PlacesAPIKey == "" {
		result.PlacesAPIKey = defaults.PlacesAPIKey
	}
	if result.SearchAPIKey == "" {
		result.SearchAPIKey = defaults.SearchAPIKey
	}
	if result.AuthToken == "" {
		result.AuthToken = defaults.AuthToken
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}

	// Int fields: use default if zero
	if result.MaxLocalResults == 0 {
		result.MaxLocalResults = defaults.MaxLocalResults
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// WithDefaults fills any remaining empty fields with the package defaults.
func (c Config) WithDefaults() Config {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.MaxLocalResults == 0 {
		c.MaxLocalResults = DefaultMaxLocalResults
	}
	return c
}
