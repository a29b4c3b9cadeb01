// Package crawler drives the crawl of one workspace: it visits every
// internal page exactly once, waits for each page to finish rendering,
// forces collapsed content to render, and hands the captured markup to
// the sanitizing, localizing, and rewriting stages before persisting it.
//
// # Architecture
//
// The package is designed around the Crawler type, which coordinates one
// run over a single live browser page. A Frontier tracks discovered and
// visited URLs, a Detector implements the polling readiness predicate,
// and an Expander forces disclosure widgets open before capture.
//
// Design decision: We poll the live page rather than subscribing to
// mutation events because:
//  1. The rendering backend exposes only pull-based DOM queries
//  2. Polling with a markup-stability check debounces ongoing hydration
//  3. A deadline converts a stuck page into a best-effort capture
//     instead of an aborted run
//
// # Components
//
//   - Crawler: orchestrates the per-page pipeline and the overall run
//   - Frontier: pending/visited URL sets with exactly-once semantics
//   - Detector: deadline-bounded polling loop over a readiness predicate
//   - Expander: iterative fixpoint expansion of disclosure widgets
//   - Handle/Element: the narrow live-browser surface the crawler needs
//
// # Usage
//
//	c := crawler.New(handle, st, pipeline, rw, cfg, summary, logger)
//	summary, err := c.Run(ctx)
package crawler
