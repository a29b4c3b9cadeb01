package localize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/MJDeligan/notionSnapshot/internal/model"
	"github.com/MJDeligan/notionSnapshot/internal/store"
)

// notionBase is the origin that /-prefixed asset references resolve
// against. Notion serves workspace pages from *.notion.site but assets
// from www.notion.so.
const notionBase = "https://www.notion.so"

// Pipeline localizes the asset references of one captured document at a
// time. Downloads within a page run under a bounded errgroup; document
// mutation is applied on the calling goroutine only.
type Pipeline struct {
	store       *store.Store
	logger      *slog.Logger
	concurrency int
	summary     *model.RunSummary
}

// New creates a Pipeline writing through the given store. Degraded
// events (per-asset fetch failures) are recorded on summary.
func New(s *store.Store, concurrency int, summary *model.RunSummary, logger *slog.Logger) *Pipeline {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Pipeline{store: s, logger: logger, concurrency: concurrency, summary: summary}
}

// imageJob is one pending image download and the selection to rewrite.
type imageJob struct {
	sel *goquery.Selection
	url string

	// result of the download, filled by the worker
	local  string
	failed bool
}

// Images localizes every <img> reference in the document: ordinary
// images through the src attribute, emoji sprites through the url()
// inside the inline style's background shorthand.
//
// A fetch failure never aborts the run: the reference is rewritten to
// the absolute remote URL so the offline document degrades to a live
// hyperlink for that one asset. An image classified as both an ordinary
// image and an emoji sprite is a programming error and fatal.
func (p *Pipeline) Images(ctx context.Context, doc *goquery.Document) error {
	var images, emojis []*goquery.Selection
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		if sel.HasClass("notion-emoji") {
			emojis = append(emojis, sel)
		} else if _, ok := sel.Attr("src"); ok {
			images = append(images, sel)
		}
	})

	// Classification must be mutually exclusive; an overlap means the
	// predicates above regressed.
	for _, img := range images {
		for _, emoji := range emojis {
			if img.Nodes[0] == emoji.Nodes[0] {
				return fmt.Errorf("localize: img classified as both image and emoji sprite")
			}
		}
	}
	p.logger.Info("localizing images", "images", len(images), "emojis", len(emojis))

	jobs := make([]*imageJob, 0, len(images))
	for _, sel := range images {
		src, _ := sel.Attr("src")
		isNotionAsset := strings.HasPrefix(src, "/")
		if strings.Contains(src, "data:image") {
			if isNotionAsset {
				sel.SetAttr("src", notionBase+src)
			}
			continue
		}
		target := src
		if isNotionAsset {
			target = notionBase + src
		}
		jobs = append(jobs, &imageJob{sel: sel, url: target})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, job := range jobs {
		g.Go(func() error {
			local, err := p.store.DownloadAsset(gctx, job.url, "")
			if err != nil {
				p.logger.Warn("image download failed, keeping live hyperlink",
					"url", job.url, "error", err)
				job.failed = true
				return nil
			}
			job.local = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, job := range jobs {
		if job.failed {
			job.sel.SetAttr("src", job.url)
			p.summary.AddWarning(model.WarnAssetFetch, job.url, "image download failed")
			continue
		}
		job.sel.SetAttr("src", job.local)
	}

	for _, sel := range emojis {
		if err := p.localizeEmoji(ctx, sel); err != nil {
			return err
		}
	}
	return nil
}

// localizeEmoji rewrites the sprite sheet URL embedded in an emoji's
// inline background shorthand. The reference lives inside a CSS value,
// not a source attribute, so the style is parsed and re-serialized.
func (p *Pipeline) localizeEmoji(ctx context.Context, sel *goquery.Selection) error {
	style, ok := sel.Attr("style")
	if !ok {
		return nil
	}

	background, spriteURL, err := backgroundURL(style)
	if err != nil {
		return fmt.Errorf("localize: emoji sprite: %w", err)
	}
	if spriteURL == "" {
		return nil
	}

	local, err := p.store.DownloadAsset(ctx, notionBase+spriteURL, "")
	if err != nil {
		p.logger.Warn("emoji sprite download failed, keeping live hyperlink",
			"url", notionBase+spriteURL, "error", err)
		p.summary.AddWarning(model.WarnAssetFetch, notionBase+spriteURL, "emoji sprite download failed")
		local = notionBase + spriteURL
	}

	rewritten := strings.Replace(background, spriteURL, local, 1)
	sel.SetAttr("style", replaceDeclaration(style, "background", rewritten))
	return nil
}
