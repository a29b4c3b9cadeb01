package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MJDeligan/notionSnapshot/internal/model"
)

// expandedMark is the attribute stamped onto a disclosure widget once it
// has been processed. Marking the live DOM gives each widget a stable
// identity across polls: element handles and positions shift as
// expansion mutates the tree, but the attribute travels with the node.
const expandedMark = "data-notionsnapshot-expanded"

// toggleSelector matches primary disclosure widgets not yet processed.
const toggleSelector = "div.notion-toggle-block:not([" + expandedMark + "])"

// headerToggleSelectors match heading blocks that can carry an embedded
// disclosure control; only those with a button descendant are widgets.
var headerToggleSelectors = []string{
	"div.notion-selectable.notion-header-block:not([" + expandedMark + "])",
	"div.notion-selectable.notion-sub_header-block:not([" + expandedMark + "])",
	"div.notion-selectable.notion-sub_sub_header-block:not([" + expandedMark + "])",
}

// Expander forces every disclosure widget on the current page to render
// its content before capture, including widgets that only appear after
// an ancestor expands.
type Expander struct {
	detector *Detector
	timeout  time.Duration
	summary  *model.RunSummary
	logger   *slog.Logger
}

// NewExpander creates an Expander. timeout bounds the wait for each
// individual widget's content to render.
func NewExpander(detector *Detector, timeout time.Duration, summary *model.RunSummary, logger *slog.Logger) *Expander {
	return &Expander{detector: detector, timeout: timeout, summary: summary, logger: logger}
}

// ExpandAll expands disclosure widgets to a fixpoint: each pass
// enumerates the widgets not yet marked, activates the collapsed ones,
// and waits for their content; expansion can reveal new widgets, so
// passes repeat until one finds nothing left to do.
//
// A widget that does not finish rendering within the per-widget timeout
// is logged, recorded as a degraded-continue warning, and marked anyway
// so the loop terminates.
func (e *Expander) ExpandAll(ctx context.Context, h Handle, pageURL string) error {
	for pass := 1; ; pass++ {
		widgets, err := e.unexpandedWidgets(ctx, h)
		if err != nil {
			return err
		}
		if len(widgets) == 0 {
			return nil
		}
		e.logger.Debug("expanding disclosure widgets", "pass", pass, "widgets", len(widgets))

		for _, widget := range widgets {
			if err := e.expand(ctx, widget, pageURL); err != nil {
				return err
			}
		}
	}
}

// unexpandedWidgets enumerates the disclosure widgets not yet marked:
// all toggle blocks plus heading blocks that contain a button control.
func (e *Expander) unexpandedWidgets(ctx context.Context, h Handle) ([]Element, error) {
	widgets, err := h.Elements(ctx, toggleSelector)
	if err != nil {
		return nil, err
	}
	for _, sel := range headerToggleSelectors {
		headers, err := h.Elements(ctx, sel)
		if err != nil {
			return nil, err
		}
		for _, header := range headers {
			buttons, err := header.Elements(ctx, "div[role=button]")
			if err != nil {
				return nil, err
			}
			if len(buttons) > 0 {
				widgets = append(widgets, header)
			}
		}
	}
	return widgets, nil
}

// expand activates one widget if it is collapsed, waits for its content
// subtree to render, and marks it processed regardless of outcome. A
// widget whose mark cannot be written is fatal: the mark is what removes
// it from enumeration, so without it the next pass would process the
// same widget again and the loop would never reach its fixpoint.
func (e *Expander) expand(ctx context.Context, widget Element, pageURL string) (err error) {
	defer func() {
		// Mark even on error paths so a retried pass cannot loop on
		// the same widget.
		markErr := widget.Eval(ctx, `() => this.setAttribute("`+expandedMark+`", "true")`)
		if markErr != nil && err == nil {
			err = fmt.Errorf("mark widget processed: %w", markErr)
		}
	}()

	buttons, err := widget.Elements(ctx, "div[role=button]")
	if err != nil {
		return err
	}
	if len(buttons) == 0 {
		return nil
	}
	button := buttons[0]

	expanded, err := e.isExpanded(ctx, button)
	if err != nil {
		return err
	}
	if expanded {
		return nil
	}

	if err := button.Eval(ctx, "() => this.click()"); err != nil {
		return err
	}

	timedOut, err := e.detector.Wait(ctx, e.timeout, func(ctx context.Context) (bool, error) {
		return e.contentRendered(ctx, widget)
	})
	if err != nil {
		return err
	}
	if timedOut {
		e.logger.Warn("disclosure widget did not finish expanding", "url", pageURL)
		e.summary.AddWarning(model.WarnExpandTimeout, pageURL, "widget content did not render within the per-widget timeout")
	}
	return nil
}

// isExpanded reports whether a widget's activation control is already in
// the expanded orientation, indicated by the rotation of its chevron.
func (e *Expander) isExpanded(ctx context.Context, button Element) (bool, error) {
	svgs, err := button.Elements(ctx, "svg")
	if err != nil {
		return false, err
	}
	if len(svgs) == 0 {
		return false, nil
	}
	style, _, err := svgs[0].Attribute(ctx, "style")
	if err != nil {
		return false, err
	}
	return strings.Contains(style, "(180deg)"), nil
}

// contentRendered is the widget-local readiness predicate: a content
// subtree exists and carries no unknown-block placeholders or active
// spinners.
func (e *Expander) contentRendered(ctx context.Context, widget Element) (bool, error) {
	content, err := widget.Elements(ctx, "div:not([style])")
	if err != nil {
		return false, err
	}
	if len(content) == 0 {
		return false, nil
	}
	unknown, err := widget.Elements(ctx, selUnknown)
	if err != nil {
		return false, err
	}
	spinners, err := widget.Elements(ctx, selSpinner)
	if err != nil {
		return false, err
	}
	return len(unknown) == 0 && len(spinners) == 0, nil
}
