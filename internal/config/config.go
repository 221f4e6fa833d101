package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration
type Config struct {
	// API endpoint settings
	API APIConfig `json:"api"`

	// UI Preferences
	UI UIConfig `json:"ui"`

	// Cache settings for offline browsing
	Cache CacheConfig `json:"cache"`
}

// APIConfig holds endpoint settings
type APIConfig struct {
	BaseURL           string `json:"base_url"`
	DefaultCollection string `json:"default_collection"`
	PageSize          int    `json:"page_size"`
	TimeoutSeconds    int    `json:"timeout_seconds"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	DensityMode string            `json:"density_mode"` // "comfortable" or "compact"
	TagColors   map[string]string `json:"tag_colors"`   // tag (lowercase) -> hex color override
}

// CacheConfig holds offline cache settings
type CacheConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"` // empty = ~/.plusview/cache.db
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://localhost:3000",
			DefaultCollection: "news",
			PageSize:          10,
			TimeoutSeconds:    15,
		},
		UI: UIConfig{
			DensityMode: "comfortable",
			TagColors:   map[string]string{},
		},
		Cache: CacheConfig{
			Enabled: true,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".plusview", "config.json")
}

// CachePath resolves the offline cache location.
func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".plusview", "cache.db")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		// A corrupt config falls back to defaults rather than refusing
		// to start.
		return DefaultConfig(), nil
	}

	cfg.fillZeroes()
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// fillZeroes replaces missing fields with defaults so a hand-edited
// partial config still works.
func (c *Config) fillZeroes() {
	def := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.DefaultCollection == "" {
		c.API.DefaultCollection = def.API.DefaultCollection
	}
	if c.API.PageSize < 1 {
		c.API.PageSize = def.API.PageSize
	}
	if c.API.TimeoutSeconds < 1 {
		c.API.TimeoutSeconds = def.API.TimeoutSeconds
	}
	if c.UI.DensityMode == "" {
		c.UI.DensityMode = def.UI.DensityMode
	}
	if c.UI.TagColors == nil {
		c.UI.TagColors = map[string]string{}
	}
}
