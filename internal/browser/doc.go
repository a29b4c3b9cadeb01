// Package browser owns the browser-automation backend: launching or
// connecting to a Chromium instance, opening a stealth page, and
// exposing the narrow live-page surface the crawler consumes.
//
// Design decision: We drive a real browser rather than fetching raw
// markup because:
//  1. Workspace pages are rendered client-side; the served HTML is an
//     empty shell until scripts hydrate it
//  2. Disclosure widgets only render their content in response to
//     real activation events
//  3. A stealth page avoids the platform serving degraded markup to
//     detected automation
package browser
