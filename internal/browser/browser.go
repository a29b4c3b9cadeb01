package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/MJDeligan/notionSnapshot/internal/crawler"
)

// Page is one live browser page. It implements crawler.Handle.
type Page struct {
	browser *rod.Browser
	page    *rod.Page
	lnch    *launcher.Launcher
	logger  *slog.Logger
}

// Launch starts a headless Chromium (or connects to remoteURL when
// non-empty) and opens a stealth page. The returned Page owns the
// browser process; Close tears everything down.
func Launch(remoteURL string, logger *slog.Logger) (*Page, error) {
	var (
		wsURL string
		lnch  *launcher.Launcher
	)

	if remoteURL != "" {
		wsURL = remoteURL
		logger.Info("connecting to remote browser", "url", wsURL)
	} else {
		l := launcher.New().
			Headless(true).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		lnch = l
		logger.Debug("launched local chromium", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if lnch != nil {
			lnch.Cleanup()
		}
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	page, err := stealth.Page(b)
	if err != nil {
		_ = b.Close()
		if lnch != nil {
			lnch.Cleanup()
		}
		return nil, fmt.Errorf("browser: create stealth page: %w", err)
	}

	return &Page{browser: b, page: page, lnch: lnch, logger: logger}, nil
}

// Navigate loads the URL and waits for the load event. Hydration
// completion is the caller's concern; the load event only marks the
// shell document as parsed.
func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := p.page.Context(ctx).Navigate(url); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	if err := p.page.Context(ctx).WaitLoad(); err != nil {
		p.logger.Warn("wait for load event", "url", url, "error", err)
	}
	return nil
}

// RunScript executes a JavaScript statement in the page.
func (p *Page) RunScript(ctx context.Context, code string) error {
	_, err := p.page.Context(ctx).Eval("() => { " + code + " }")
	if err != nil {
		return fmt.Errorf("browser: run script: %w", err)
	}
	return nil
}

// Elements returns the live elements matching a CSS selector.
func (p *Page) Elements(ctx context.Context, selector string) ([]crawler.Element, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("browser: query %q: %w", selector, err)
	}
	out := make([]crawler.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &element{el: el})
	}
	return out, nil
}

// HTML returns the current serialized markup of the whole document.
func (p *Page) HTML(ctx context.Context) (string, error) {
	markup, err := p.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("browser: serialize page: %w", err)
	}
	return markup, nil
}

// Close closes the page, the browser connection, and the launched
// browser process.
func (p *Page) Close() error {
	err := p.page.Close()
	if cerr := p.browser.Close(); err == nil {
		err = cerr
	}
	if p.lnch != nil {
		p.lnch.Cleanup()
	}
	return err
}

// element adapts a rod element to crawler.Element.
type element struct {
	el *rod.Element
}

func (e *element) Elements(ctx context.Context, selector string) ([]crawler.Element, error) {
	els, err := e.el.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("browser: query %q: %w", selector, err)
	}
	out := make([]crawler.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &element{el: el})
	}
	return out, nil
}

func (e *element) Attribute(ctx context.Context, name string) (string, bool, error) {
	val, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", false, fmt.Errorf("browser: read attribute %q: %w", name, err)
	}
	if val == nil {
		return "", false, nil
	}
	return *val, true, nil
}

func (e *element) Eval(ctx context.Context, js string) error {
	_, err := e.el.Context(ctx).Eval(js)
	if err != nil {
		return fmt.Errorf("browser: eval on element: %w", err)
	}
	return nil
}
