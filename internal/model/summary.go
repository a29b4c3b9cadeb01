package model

import "time"

// RunSummary aggregates the outcome of one snapshot run. It is populated
// by the crawler as pages are processed and consumed by the report writer
// and the run database.
type RunSummary struct {
	// RootURL is the URL the crawl was seeded with.
	RootURL string `json:"root_url"`

	// Workspace is the derived workspace name (also the output directory
	// name under the snapshots root).
	Workspace string `json:"workspace"`

	// Pages lists every persisted page in visit order.
	Pages []Page `json:"pages"`

	// AssetsDownloaded counts assets fetched from the network this run.
	AssetsDownloaded int `json:"assets_downloaded"`

	// AssetsFromCache counts assets reused from the cross-run cache or
	// deduplicated within the run.
	AssetsFromCache int `json:"assets_from_cache"`

	// Warnings lists every degraded-continue event observed.
	Warnings []Warning `json:"warnings,omitempty"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns the wall-clock duration of the run.
func (s *RunSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// AddWarning appends a degraded-continue event.
func (s *RunSummary) AddWarning(kind WarningKind, url, detail string) {
	s.Warnings = append(s.Warnings, Warning{Kind: kind, URL: url, Detail: detail})
}

// PageCount returns the number of persisted pages.
func (s *RunSummary) PageCount() int { return len(s.Pages) }
