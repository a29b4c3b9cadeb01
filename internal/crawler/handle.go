package crawler

import "context"

// Handle is the live-browser surface the crawler needs from the
// automation backend: navigate, run a script, query elements, and report
// the current serialized markup.
//
// Design decision: The crawler defines this interface rather than
// depending on the browser package because:
//  1. Tests can drive the readiness and expansion loops with a fake
//     page instead of a real browser
//  2. The crawler needs four operations; the automation library
//     exposes hundreds
type Handle interface {
	// Navigate loads the given URL and returns once navigation has been
	// issued. Rendering completion is the Detector's concern.
	Navigate(ctx context.Context, url string) error

	// RunScript executes a JavaScript function body in the page.
	RunScript(ctx context.Context, code string) error

	// Elements returns the live elements matching a CSS selector. An
	// empty result is not an error.
	Elements(ctx context.Context, selector string) ([]Element, error)

	// HTML returns the current serialized markup of the whole document.
	HTML(ctx context.Context) (string, error)

	// Close releases the underlying page and browser resources.
	Close() error
}

// Element is one live DOM element returned by Handle.Elements.
type Element interface {
	// Elements returns live descendant elements matching a CSS selector.
	Elements(ctx context.Context, selector string) ([]Element, error)

	// Attribute returns the value of the named attribute and whether it
	// is present.
	Attribute(ctx context.Context, name string) (string, bool, error)

	// Eval executes a JavaScript function with the element bound as
	// `this`, e.g. `() => this.click()`.
	Eval(ctx context.Context, js string) error
}
