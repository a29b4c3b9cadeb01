package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".notionsnapshot"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file format. All fields are optional;
// CLI flags take precedence over file values.
//
// Example:
//
//	timeout: 30s
//	dark_mode: true
//	cache_assets: false
//	output: ./mirrors
type File struct {
	// Timeout overrides the per-wait deadline.
	Timeout time.Duration `yaml:"timeout"`

	// DarkMode selects the dark presentation theme.
	DarkMode *bool `yaml:"dark_mode"`

	// CacheAssets toggles the cross-run asset cache.
	CacheAssets *bool `yaml:"cache_assets"`

	// Output overrides the snapshots root directory.
	Output string `yaml:"output"`

	// BrowserURL is the DevTools WebSocket URL of an external browser.
	BrowserURL string `yaml:"browser_url"`
}

// LoadConfigFile loads run configuration from a YAML file. If the file
// does not exist it returns ErrConfigNotFound; callers decide whether
// that is an error based on whether the path was explicitly specified.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Apply copies the file's values onto cfg. Only set fields are applied,
// and only where cfg still holds the default, so flag values win.
func (f *File) Apply(cfg *Config) {
	if f.Timeout > 0 && cfg.Timeout == DefaultTimeout {
		cfg.Timeout = f.Timeout
	}
	if f.DarkMode != nil && !cfg.DarkMode {
		cfg.DarkMode = *f.DarkMode
	}
	if f.CacheAssets != nil && cfg.CacheAssets {
		cfg.CacheAssets = *f.CacheAssets
	}
	if f.Output != "" && cfg.OutputRoot == DefaultOutputRoot {
		cfg.OutputRoot = f.Output
	}
	if f.BrowserURL != "" && cfg.BrowserURL == "" {
		cfg.BrowserURL = f.BrowserURL
	}
}

// FindConfigFile searches for the configuration file:
// an explicit path is used as-is, otherwise the current directory and
// then the home directory are checked for DefaultConfigFile.
// Returns the path if found, or empty string.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
