package rewrite

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// subpageAnchorStyle is the inline style applied to anchors synthesized
// around table-view row labels, matching Notion's own row presentation.
const subpageAnchorStyle = "cursor: pointer; color: inherit; text-decoration: none; fill: inherit;"

// Rewriter classifies and rewrites the hyperlinks of captured documents
// against one workspace. Every anchor ends up in exactly one of three
// states: in-page anchor, internal subpage link (rewritten to a local
// filename), or deactivated inline text.
type Rewriter struct {
	domain      string
	filenameFor func(pageURL string) string
	logger      *slog.Logger
}

// NewRewriter creates a Rewriter for the workspace that rootURL belongs
// to. filenameFor must derive the local filename a target URL will be
// persisted under (it is shared with the store so both sides agree).
func NewRewriter(rootURL string, filenameFor func(string) string, logger *slog.Logger) (*Rewriter, error) {
	u, err := url.Parse(rootURL)
	if err != nil {
		return nil, fmt.Errorf("rewrite: parse root URL: %w", err)
	}
	return &Rewriter{
		domain:      u.Scheme + "://" + u.Host,
		filenameFor: filenameFor,
		logger:      logger,
	}, nil
}

// RewriteLinks classifies every anchor in the document and rewrites it
// for offline navigation. It returns the absolute URLs of internal
// subpages discovered, which become new frontier entries.
//
// Classification, in priority order:
//  1. href carries a fragment: reduced to the in-page fragment and
//     classed for smooth scrolling. No crawl effect.
//  2. resolves outside the workspace domain: deactivated.
//  3. sits inside a scrolling content container: rewritten to the local
//     filename derived for the target, which joins the discovered set.
//  4. anything else: deactivated. Anchors here are navigational markup
//     of kinds not resolvable on the current page; treating them as
//     external is the conservative choice.
func (r *Rewriter) RewriteLinks(doc *goquery.Document) []string {
	var discovered []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")

		if strings.Contains(href, "#") {
			fragment := href[strings.LastIndex(href, "#")+1:]
			sel.SetAttr("href", "#"+fragment)
			sel.AddClass("notionsnapshot-anchor-link")
			return
		}

		target := href
		if strings.HasPrefix(href, "/") {
			// Relative workspace links carry the page id as their last
			// path segment; resolve against the workspace domain.
			target = r.domain + "/" + href[strings.LastIndex(href, "/")+1:]
		}

		if !strings.HasPrefix(target, r.domain) {
			r.deactivate(sel)
			return
		}

		if sel.ParentsFiltered("div.notion-scroller").Length() > 0 {
			filename := r.filenameFor(target)
			r.logger.Debug("rewrote subpage link", "url", target, "file", filename)
			sel.SetAttr("href", filename)
			discovered = append(discovered, target)
			return
		}

		r.deactivate(sel)
	})

	return discovered
}

// LinkTableRows synthesizes navigable anchors for table-view rows, which
// reference their subpages through a block-identifier attribute rather
// than real hyperlinks. Each row's label span is wrapped in an anchor
// pointing at the derived local filename, and the target URL joins the
// discovered set.
func (r *Rewriter) LinkTableRows(doc *goquery.Document) []string {
	var discovered []string

	tables := doc.Find("div.notion-table-view")
	r.logger.Debug("linking table views", "tables", tables.Length())

	tables.Each(func(_ int, table *goquery.Selection) {
		table.Find("div.notion-collection-item").Each(func(_ int, row *goquery.Selection) {
			blockID, ok := row.Attr("data-block-id")
			if !ok {
				return
			}
			label := row.Find("span").First()
			if label.Length() == 0 {
				return
			}

			if style, ok := label.Attr("style"); ok {
				label.SetAttr("style", strings.ReplaceAll(style, "pointer-events: none;", ""))
			}

			target := r.domain + "/" + strings.ReplaceAll(blockID, "-", "")
			filename := r.filenameFor(target)
			label.WrapHtml(`<a href="` + filename + `" style="` + subpageAnchorStyle + `"></a>`)
			discovered = append(discovered, target)
		})
	})

	return discovered
}

// deactivate demotes an anchor to non-interactive inline text: the href
// is removed, the element becomes a span, and any styled descendants get
// their cursor forced to the non-interactive default.
func (r *Rewriter) deactivate(sel *goquery.Selection) {
	sel.RemoveAttr("href")
	sel.Nodes[0].Data = "span"

	styled := sel.Find("[style]").AddSelection(sel.Filter("[style]"))
	styled.Each(func(_ int, child *goquery.Selection) {
		style, _ := child.Attr("style")
		child.SetAttr("style", setDeclaration(style, "cursor", "default"))
	})
}
