// Package settings manages persistent user settings for the netherd CLI.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds persistent user preferences
type Settings struct {
	// NetBoxURL is the NetBox base URL used when NETBOX_URL is not set
	NetBoxURL string `json:"netbox_url,omitempty"`

	// DefaultSite filters collection and sync when --site is not specified
	DefaultSite string `json:"default_site,omitempty"`

	// DefaultRole filters collection and sync when --role is not specified
	DefaultRole string `json:"default_role,omitempty"`

	// Parallel is the device fan-out cap (0 = built-in default)
	Parallel int `json:"parallel,omitempty"`

	// CommandTimeoutSec is the per-command timeout in seconds (0 = built-in default)
	CommandTimeoutSec int `json:"command_timeout_sec,omitempty"`

	// TemplatesDir holds project-local parser template overrides
	TemplatesDir string `json:"templates_dir,omitempty"`

	// HistoryBackend selects the run history store: "file" (default) or "redis"
	HistoryBackend string `json:"history_backend,omitempty"`

	// HistoryPath overrides the default history file location
	HistoryPath string `json:"history_path,omitempty"`

	// HistoryLimit caps the number of retained run records (0 = built-in default)
	HistoryLimit int `json:"history_limit,omitempty"`

	// RedisAddr is the redis host:port for the redis history backend
	RedisAddr string `json:"redis_addr,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "netherd_settings.json"
	}
	return filepath.Join(home, ".netherd", "settings.json")
}

// DefaultHistoryPath returns the default path for the run history file
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "netherd_history.jsonl"
	}
	return filepath.Join(home, ".netherd", "history.jsonl")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty settings if file doesn't exist
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetParallel returns the configured fan-out cap with fallback
func (s *Settings) GetParallel() int {
	if s.Parallel > 0 {
		return s.Parallel
	}
	return 10
}

// GetHistoryLimit returns the history cap with fallback
func (s *Settings) GetHistoryLimit() int {
	if s.HistoryLimit > 0 {
		return s.HistoryLimit
	}
	return 50
}

// GetHistoryPath returns the history file path with fallback
func (s *Settings) GetHistoryPath() string {
	if s.HistoryPath != "" {
		return s.HistoryPath
	}
	return DefaultHistoryPath()
}

// GetHistoryBackend returns the history backend with fallback
func (s *Settings) GetHistoryBackend() string {
	if s.HistoryBackend != "" {
		return s.HistoryBackend
	}
	return "file"
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
