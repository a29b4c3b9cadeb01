package localize

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// fontSrcPattern matches the url() of a @font-face src declaration.
// Notion stylesheets sometimes carry the www.notion.so origin repeated
// (a collapsed "https:/" artifact of the bundler); the first group eats
// any number of those prefixes so the second captures the bare path.
var fontSrcPattern = regexp.MustCompile(`url\((/?https:/www\.notion\.so)*(.+?)\)`)

// Stylesheets localizes every /-prefixed stylesheet link (the vendors~
// bundle is excluded; it is never resolvable offline and the sanitizer
// drops it). After the stylesheet file itself is localized, its
// @font-face rules are parsed and each referenced font is fetched and
// the rule rewritten before the stylesheet is re-serialized to disk.
//
// Unlike ordinary asset fetches, any failure here is fatal: a stylesheet
// or font that cannot be fetched or parsed breaks an assumption the rest
// of the capture depends on.
func (p *Pipeline) Stylesheets(ctx context.Context, doc *goquery.Document) error {
	var sheets []*goquery.Selection
	doc.Find("link[rel=stylesheet]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if ok && strings.HasPrefix(href, "/") && !strings.Contains(href, "vendors~") {
			sheets = append(sheets, sel)
		}
	})
	p.logger.Info("localizing stylesheets", "count", len(sheets))

	for _, sel := range sheets {
		href, _ := sel.Attr("href")
		p.logger.Debug("localizing stylesheet", "href", href)

		local, err := p.store.DownloadAsset(ctx, notionBase+href, "")
		if err != nil {
			return fmt.Errorf("localize: stylesheet %s: %w", href, err)
		}

		if err := p.localizeFonts(ctx, href, local); err != nil {
			return err
		}
		sel.SetAttr("href", local)
	}
	return nil
}

// localizeFonts rewrites the @font-face rules of a stylesheet already
// present at local (relative to the output directory), fetching each
// referenced font file under its basename.
func (p *Pipeline) localizeFonts(ctx context.Context, href, local string) error {
	cssPath := filepath.Join(p.store.OutputDir(), filepath.FromSlash(local))
	data, err := os.ReadFile(cssPath) //nolint:gosec // Path is derived from our own output dir
	if err != nil {
		return fmt.Errorf("localize: read stylesheet %s: %w", cssPath, err)
	}

	sheet, err := parser.Parse(string(data))
	if err != nil {
		return fmt.Errorf("localize: parse stylesheet %s: %w", href, err)
	}

	hrefURL, err := url.Parse(href)
	if err != nil {
		return fmt.Errorf("localize: parse stylesheet href %q: %w", href, err)
	}
	parentPath := path.Dir(hrefURL.Path)

	changed := false
	for _, rule := range sheet.Rules {
		if rule.Kind != css.AtRule || rule.Name != "@font-face" {
			continue
		}
		for _, decl := range rule.Declarations {
			if decl.Property != "src" {
				continue
			}
			m := fontSrcPattern.FindStringSubmatch(decl.Value)
			if m == nil {
				return fmt.Errorf("localize: cannot parse font-face src %q in %s", decl.Value, href)
			}
			// The font path may repeat the assets/ segment relative to
			// the stylesheet; it resolves against the stylesheet's
			// parent directory.
			fontFile := strings.ReplaceAll(m[2], "assets/", "")
			fontURL := joinURL(notionBase, parentPath, fontFile)
			p.logger.Debug("localizing font", "url", fontURL)

			fontLocal, err := p.store.DownloadAsset(ctx, fontURL, path.Base(fontFile))
			if err != nil {
				return fmt.Errorf("localize: font %s: %w", fontURL, err)
			}
			decl.Value = "url(" + fontLocal + ")"
			changed = true
		}
	}

	if changed {
		if err := os.WriteFile(cssPath, []byte(sheet.String()), 0o644); err != nil {
			return fmt.Errorf("localize: rewrite stylesheet %s: %w", cssPath, err)
		}
	}
	return nil
}
