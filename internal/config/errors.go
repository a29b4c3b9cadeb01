package config

import "errors"

// Configuration validation errors returned by Config.Validate().
// Package-level sentinels allow callers to use errors.Is() while still
// carrying a human-readable message.
var (
	// ErrNoRootURL is returned when no page URL was provided.
	ErrNoRootURL = errors.New("no root URL specified: provide a public notion.site page URL")

	// ErrInvalidRootURL is returned when the root URL cannot be parsed
	// as an absolute URL.
	ErrInvalidRootURL = errors.New("invalid root URL: must be an absolute http(s) URL")

	// ErrNotNotionURL is returned when the root URL does not point at a
	// Notion-hosted workspace. The crawler's readiness and expansion
	// logic is specific to Notion's markup conventions.
	ErrNotNotionURL = errors.New("root URL is not a notion.site or notion.so page")

	// ErrInvalidTimeout is returned when the wait timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidPollInterval is returned when the poll interval is not positive.
	ErrInvalidPollInterval = errors.New("invalid poll interval: must be positive")

	// ErrInvalidConcurrency is returned when the asset concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid asset concurrency: must be positive")
)
