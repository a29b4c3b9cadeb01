package model

import "time"

// Page records one visited workspace page after it has been captured,
// localized, rewritten, and persisted.
type Page struct {
	// URL is the absolute URL the page was captured from.
	URL string `json:"url"`

	// Filename is the local file the page was persisted to, relative to
	// the output directory. The root page is always "index.html".
	Filename string `json:"filename"`

	// Title is the page title at capture time, if any.
	Title string `json:"title,omitempty"`

	// LinksDiscovered is the number of internal subpage URLs this page
	// contributed to the frontier.
	LinksDiscovered int `json:"links_discovered"`

	// TimedOut reports that the readiness deadline elapsed and the page
	// was captured best-effort.
	TimedOut bool `json:"timed_out,omitempty"`

	// CapturedAt is when the page snapshot was persisted.
	CapturedAt time.Time `json:"captured_at"`
}

// WarningKind classifies a degraded-continue event.
type WarningKind string

// Degraded-continue event kinds. Each corresponds to a situation where the
// run proceeds with reduced fidelity instead of aborting.
const (
	// WarnReadinessTimeout: the page readiness deadline elapsed and the
	// currently rendered content was captured as-is.
	WarnReadinessTimeout WarningKind = "readiness-timeout"

	// WarnExpandTimeout: a disclosure widget did not finish expanding
	// within its per-widget deadline and was skipped.
	WarnExpandTimeout WarningKind = "expand-timeout"

	// WarnAssetFetch: an asset could not be downloaded; the document keeps
	// a live hyperlink to the remote URL instead of a local path.
	WarnAssetFetch WarningKind = "asset-fetch"
)

// Warning is one degraded-continue event observed during a run.
type Warning struct {
	Kind WarningKind `json:"kind"`

	// URL is the page or asset URL the event relates to.
	URL string `json:"url"`

	// Detail is a human-readable description of the degradation.
	Detail string `json:"detail,omitempty"`
}
