package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout bounds every wait: page readiness polling and
	// per-widget expansion. Notion pages hydrate in well under ten
	// seconds on a typical connection; pages that take longer are
	// captured best-effort.
	DefaultTimeout = 10 * time.Second

	// DefaultPollInterval is the sleep between readiness polls. The
	// rendering backend only supports pull-based DOM queries, so the
	// detector busy-waits with this pause.
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultOutputRoot is the directory snapshots are written under,
	// one subdirectory per workspace.
	DefaultOutputRoot = "snapshots"

	// DefaultFetchTimeout is the timeout for a single asset download.
	DefaultFetchTimeout = 60 * time.Second

	// DefaultAssetConcurrency bounds parallel asset downloads within one
	// page. The dedup check in the asset store is atomic per target
	// filename, so concurrent references to the same resource collapse
	// into one download.
	DefaultAssetConcurrency = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "notionsnapshot"
)

// Config holds all options for a snapshot run. It is populated from CLI
// flags (and optionally a YAML config file) and passed through the
// application by injection rather than global state.
type Config struct {
	// RootURL is the public Notion page the crawl is seeded with,
	// e.g. https://workspace.notion.site/Page-abc123.
	RootURL string

	// Timeout is the deadline for each wait: page readiness after
	// navigation and each disclosure-widget expansion.
	Timeout time.Duration

	// PollInterval is the pause between readiness polls.
	PollInterval time.Duration

	// DarkMode selects the dark presentation theme for captured pages.
	DarkMode bool

	// CacheAssets enables the cross-run asset cache. When enabled,
	// assets from a previous run are folded into the cache and reused
	// instead of re-downloaded. Cache entries never expire.
	CacheAssets bool

	// OutputRoot is the directory snapshots are written under.
	OutputRoot string

	// BrowserURL is the DevTools WebSocket URL of an already-running
	// browser. Empty means launch a local headless browser.
	BrowserURL string

	// FetchTimeout bounds a single asset download.
	FetchTimeout time.Duration

	// AssetConcurrency bounds parallel asset downloads within one page.
	AssetConcurrency int

	// Verbose enables debug-level log output.
	Verbose bool

	// ConfigFilePath is an explicit path to the YAML config file. Empty
	// means search the working directory and then the home directory.
	ConfigFilePath string
}

// NewConfig creates a Config with default values. Many defaults are
// non-zero, so relying on zero values would be error-prone; the
// constructor also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:          DefaultTimeout,
		PollInterval:     DefaultPollInterval,
		CacheAssets:      true,
		OutputRoot:       DefaultOutputRoot,
		FetchTimeout:     DefaultFetchTimeout,
		AssetConcurrency: DefaultAssetConcurrency,
	}
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag parsing, before the browser is launched.
func (c *Config) Validate() error {
	if c.RootURL == "" {
		return ErrNoRootURL
	}
	u, err := url.Parse(c.RootURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidRootURL
	}
	if !strings.HasSuffix(u.Hostname(), "notion.site") && !strings.HasSuffix(u.Hostname(), "notion.so") {
		return ErrNotNotionURL
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}
	if c.AssetConcurrency <= 0 {
		return ErrInvalidConcurrency
	}
	return nil
}

// XDGCacheDir returns the cross-run asset cache directory for a
// workspace. On Linux: ~/.cache/notionsnapshot/<workspace>.
func XDGCacheDir(workspace string) string {
	return filepath.Join(xdg.CacheHome, AppName, workspace)
}

// XDGDataDir returns the data directory holding the run database.
// On Linux: ~/.local/share/notionsnapshot.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
