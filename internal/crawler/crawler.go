package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/MJDeligan/notionSnapshot/internal/config"
	"github.com/MJDeligan/notionSnapshot/internal/localize"
	"github.com/MJDeligan/notionSnapshot/internal/model"
	"github.com/MJDeligan/notionSnapshot/internal/rewrite"
	"github.com/MJDeligan/notionSnapshot/internal/store"
)

// Crawler visits every internal page of a workspace exactly once and
// persists a localized, rewritten snapshot of each.
type Crawler struct {
	handle   Handle
	store    *store.Store
	pipeline *localize.Pipeline
	rewriter *rewrite.Rewriter
	detector *Detector
	expander *Expander
	cfg      *config.Config
	summary  *model.RunSummary
	logger   *slog.Logger
}

// New creates a Crawler over one live page handle. The caller owns the
// handle's lifetime up to Run; Run closes it on completion.
func New(handle Handle, st *store.Store, pipeline *localize.Pipeline, rewriter *rewrite.Rewriter, cfg *config.Config, summary *model.RunSummary, logger *slog.Logger) *Crawler {
	detector := NewDetector(cfg.PollInterval, logger)
	return &Crawler{
		handle:   handle,
		store:    st,
		pipeline: pipeline,
		rewriter: rewriter,
		detector: detector,
		expander: NewExpander(detector, cfg.Timeout, summary, logger),
		cfg:      cfg,
		summary:  summary,
		logger:   logger,
	}
}

// Run drives the crawl to completion: pages are popped off the frontier
// and visited until no discovered page remains unvisited. An
// unrecoverable error on any page aborts the whole run; there is no
// partial-crawl resume.
func (c *Crawler) Run(ctx context.Context) (*model.RunSummary, error) {
	defer func() {
		if err := c.handle.Close(); err != nil {
			c.logger.Warn("closing browser page", "error", err)
		}
	}()

	c.summary.RootURL = c.cfg.RootURL
	c.summary.Workspace = c.store.Workspace()
	c.summary.StartedAt = time.Now()

	cssPath, jsPath, err := c.store.CopyInjections()
	if err != nil {
		return nil, fmt.Errorf("crawler: copy injections: %w", err)
	}

	frontier := NewFrontier(c.cfg.RootURL)
	for {
		pageURL, ok := frontier.Pop()
		if !ok {
			break
		}

		page, discovered, err := c.visit(ctx, pageURL, cssPath, jsPath)
		if err != nil {
			return nil, fmt.Errorf("crawler: %s: %w", pageURL, err)
		}
		for _, u := range discovered {
			frontier.Add(u)
		}
		c.summary.Pages = append(c.summary.Pages, page)
		c.logger.Info("persisted page",
			"url", pageURL,
			"file", page.Filename,
			"discovered", page.LinksDiscovered,
			"pending", frontier.PendingCount())
	}

	c.summary.FinishedAt = time.Now()
	c.summary.AssetsDownloaded, c.summary.AssetsFromCache = c.store.Stats()
	return c.summary, nil
}

// visit runs the full per-page pipeline: navigate, wait for readiness,
// expand disclosure widgets, capture, sanitize, localize assets, inject
// offline interactivity, rewrite links, and persist. It returns the
// persisted page record and the internal URLs discovered on it.
func (c *Crawler) visit(ctx context.Context, pageURL, cssPath, jsPath string) (model.Page, []string, error) {
	c.logger.Info("visiting page", "url", pageURL)

	if err := c.handle.Navigate(ctx, pageURL); err != nil {
		return model.Page{}, nil, fmt.Errorf("navigate: %w", err)
	}

	timedOut, err := c.detector.WaitUntilReady(ctx, c.handle, c.cfg.Timeout)
	if err != nil {
		return model.Page{}, nil, fmt.Errorf("wait for readiness: %w", err)
	}
	if timedOut {
		// Capture whatever rendered; a stuck spinner should not cost
		// the whole run.
		c.logger.Warn("page readiness deadline elapsed, capturing best-effort", "url", pageURL)
		c.summary.AddWarning(model.WarnReadinessTimeout, pageURL, "captured before the page finished rendering")
	}

	if err := ApplyTheme(ctx, c.handle, c.cfg.DarkMode); err != nil {
		return model.Page{}, nil, fmt.Errorf("apply theme: %w", err)
	}

	if err := c.expander.ExpandAll(ctx, c.handle, pageURL); err != nil {
		return model.Page{}, nil, fmt.Errorf("expand disclosure widgets: %w", err)
	}

	markup, err := c.handle.HTML(ctx)
	if err != nil {
		return model.Page{}, nil, fmt.Errorf("capture markup: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return model.Page{}, nil, fmt.Errorf("parse captured markup: %w", err)
	}
	if doc.Find("head").Length() == 0 || doc.Find("body").Length() == 0 {
		return model.Page{}, nil, fmt.Errorf("captured document missing head or body")
	}

	rewrite.Sanitize(doc)

	if err := c.pipeline.Images(ctx, doc); err != nil {
		return model.Page{}, nil, err
	}
	if err := c.pipeline.Stylesheets(ctx, doc); err != nil {
		return model.Page{}, nil, err
	}

	if err := rewrite.Inject(doc, cssPath, jsPath); err != nil {
		return model.Page{}, nil, err
	}

	discovered := c.rewriter.RewriteLinks(doc)
	discovered = append(discovered, c.rewriter.LinkTableRows(doc)...)

	rendered, err := doc.Html()
	if err != nil {
		return model.Page{}, nil, fmt.Errorf("serialize document: %w", err)
	}
	if err := c.store.SavePage(pageURL, rendered); err != nil {
		return model.Page{}, nil, err
	}

	page := model.Page{
		URL:             pageURL,
		Filename:        c.store.PageFilename(pageURL),
		Title:           strings.TrimSpace(doc.Find("title").First().Text()),
		LinksDiscovered: len(discovered),
		TimedOut:        timedOut,
		CapturedAt:      time.Now(),
	}
	return page, discovered, nil
}
