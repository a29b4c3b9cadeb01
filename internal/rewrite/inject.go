package rewrite

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// headerBlockClasses are the heading block variants that can carry an
// embedded toggle control, layered onto the primary toggle-block kind.
var headerBlockClasses = []string{
	"div.notion-selectable.notion-header-block",
	"div.notion-selectable.notion-sub_header-block",
	"div.notion-selectable.notion-sub_sub_header-block",
}

// Inject wires the offline-interactivity markup into a captured
// document: every toggle block's button and content subtree get a shared
// id and marker classes the injected script keys on, and the injected
// stylesheet and script references are added to head and body.
//
// A document without head or body root elements cannot be made navigable
// and is an unrecoverable capture failure.
func Inject(doc *goquery.Document, cssPath, jsPath string) error {
	toggles := doc.Find("div.notion-toggle-block")
	for _, class := range headerBlockClasses {
		doc.Find(class).Each(func(_ int, sel *goquery.Selection) {
			if sel.Find("div[role=button]").Length() > 0 {
				toggles = toggles.AddSelection(sel)
			}
		})
	}

	toggles.Each(func(_ int, block *goquery.Selection) {
		button := block.Find("div[role=button]").First()
		content := toggleContent(block)
		if button.Length() == 0 || content.Length() == 0 {
			return
		}

		toggleID := uuid.NewString()
		blockClass, _ := block.Attr("class")
		button.SetAttr("class", blockClass+" notionsnapshot-toggle-button")
		content.AddClass("notionsnapshot-toggle-content")
		button.SetAttr("notionsnapshot-toggle-id", toggleID)
		content.SetAttr("notionsnapshot-toggle-id", toggleID)
	})

	head := doc.Find("head")
	if head.Length() == 0 {
		return fmt.Errorf("rewrite: captured document has no head element")
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		return fmt.Errorf("rewrite: captured document has no body element")
	}

	head.AppendHtml(`<link rel="stylesheet" href="` + cssPath + `"/>`)
	body.AppendHtml(`<script type="text/javascript" src="` + jsPath + `"></script>`)
	return nil
}

// toggleContent finds a toggle block's content subtree: the first
// class-less div carrying an empty style attribute, which is how the
// renderer emits expanded toggle content.
func toggleContent(block *goquery.Selection) *goquery.Selection {
	return block.Find("div:not([class])").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		style, ok := sel.Attr("style")
		return ok && style == ""
	}).First()
}
