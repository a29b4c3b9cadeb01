package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Selectors the readiness predicate observes. These are conventions of
// the source platform's markup and are treated as fixed contract inputs.
const (
	selPresence = "div.notion-presence-container"
	selUnknown  = ".notion-unknown-block"
	selSpinner  = ".loading-spinner"
	selScroller = ".notion-scroller"
)

// Detector decides when a dynamically-rendered page has stopped
// changing. It is a deadline-bounded polling loop: the rendering backend
// exposes only pull-based DOM queries, so readiness is sampled rather
// than subscribed to.
type Detector struct {
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewDetector creates a Detector polling at the given interval.
func NewDetector(pollInterval time.Duration, logger *slog.Logger) *Detector {
	return &Detector{pollInterval: pollInterval, logger: logger}
}

// Wait polls cond until it reports true, the deadline elapses, or the
// context is cancelled. A deadline elapsing is not an error: the caller
// receives timedOut=true and decides whether a best-effort continuation
// is acceptable. Errors from cond propagate and abort the wait.
func (d *Detector) Wait(ctx context.Context, deadline time.Duration, cond func(context.Context) (bool, error)) (timedOut bool, err error) {
	expire := time.After(deadline)
	for {
		ok, err := cond(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-expire:
			return true, nil
		case <-time.After(d.pollInterval):
		}
	}
}

// WaitUntilReady polls the page until the stability predicate holds:
// the presence container has rendered, no unknown-block placeholders or
// loading spinners remain, every scroll container has at least one
// rendered child, and the serialized markup is identical to the
// previous poll. All conditions must hold on a single poll.
func (d *Detector) WaitUntilReady(ctx context.Context, h Handle, deadline time.Duration) (timedOut bool, err error) {
	previous := ""
	return d.Wait(ctx, deadline, func(ctx context.Context) (bool, error) {
		presence, err := h.Elements(ctx, selPresence)
		if err != nil {
			return false, err
		}
		if len(presence) == 0 {
			return false, nil
		}

		unknown, err := h.Elements(ctx, selUnknown)
		if err != nil {
			return false, err
		}
		spinners, err := h.Elements(ctx, selSpinner)
		if err != nil {
			return false, err
		}
		scrollers, err := h.Elements(ctx, selScroller)
		if err != nil {
			return false, err
		}
		loaded := 0
		for _, scroller := range scrollers {
			children, err := scroller.Elements(ctx, "div")
			if err != nil {
				return false, err
			}
			if len(children) > 0 {
				loaded++
			}
		}

		markup, err := h.HTML(ctx)
		if err != nil {
			return false, err
		}
		stable := markup == previous
		previous = markup

		if len(unknown) == 0 && len(spinners) == 0 && loaded == len(scrollers) && stable {
			return true, nil
		}
		d.logger.Debug("waiting for page",
			"unknown_blocks", len(unknown),
			"spinners", len(spinners),
			"scrollers_loaded", fmt.Sprintf("%d/%d", loaded, len(scrollers)),
			"stable", stable)
		return false, nil
	})
}

// ApplyTheme sets the page's presentation mode through the platform's
// exposed theme store. Issued once per page, after readiness.
func ApplyTheme(ctx context.Context, h Handle, darkMode bool) error {
	mode := "light"
	if darkMode {
		mode = "dark"
	}
	return h.RunScript(ctx, "__console.environment.ThemeStore.setState({ mode: '"+mode+"' })")
}
