package rewrite

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Meta tags that describe the live page to crawlers and social previews;
// meaningless (or misleading) once the page is served from disk.
var (
	unwantedMetaNames = []string{
		"description", "twitter:card", "twitter:site", "twitter:title",
		"twitter:description", "twitter:image", "twitter:url", "apple-itunes-app",
	}
	unwantedMetaProperties = []string{
		"og:site_name", "og:type", "og:url", "og:title", "og:description", "og:image",
	}
)

// Sanitize strips non-portable elements from a captured document:
// scripts, telemetry iframes and overlay containers, the vendors~
// stylesheet bundle (never resolvable offline), the collection view
// selector, and social-preview metadata.
func Sanitize(doc *goquery.Document) {
	doc.Find("script").Remove()
	doc.Find(`iframe[src="https://aif.notion.so/aif-production.html"]`).Remove()
	doc.Find("iframe#intercom-frame").Remove()
	doc.Find("div.intercom-lightweight-app").Remove()
	doc.Find("div.notion-overlay-container").Remove()
	doc.Find("div.notion-collection-view-select").Remove()

	doc.Find("link").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && strings.Contains(href, "vendors~") {
			sel.Remove()
		}
	})

	for _, name := range unwantedMetaNames {
		doc.Find(`meta[name="` + name + `"]`).Remove()
	}
	for _, property := range unwantedMetaProperties {
		doc.Find(`meta[property="` + property + `"]`).Remove()
	}
}
