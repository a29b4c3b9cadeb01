package rewrite

import (
	"strings"
	"testing"
)

// testFilenameFor derives a predictable local filename from the last URL
// path segment.
func testFilenameFor(pageURL string) string {
	return strings.ToLower(pageURL[strings.LastIndex(pageURL, "/")+1:]) + ".html"
}

func newTestRewriter(t *testing.T) *Rewriter {
	t.Helper()
	r, err := NewRewriter("https://myws.notion.site/Home-abc123", testFilenameFor, discardLogger())
	if err != nil {
		t.Fatalf("failed to create rewriter: %v", err)
	}
	return r
}

// TestRewriteLinks verifies the anchor classification rules and that each
// anchor ends up in exactly one state.
func TestRewriteLinks(t *testing.T) {
	t.Parallel()

	t.Run("fragment link becomes in-page anchor", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><a href="https://myws.notion.site/Home-abc123#heading1">jump</a></body></html>`)
		discovered := newTestRewriter(t).RewriteLinks(doc)

		a := doc.Find("a")
		if href, _ := a.Attr("href"); href != "#heading1" {
			t.Errorf("expected #heading1, got %q", href)
		}
		if !a.HasClass("notionsnapshot-anchor-link") {
			t.Error("expected anchor-link class")
		}
		if len(discovered) != 0 {
			t.Errorf("fragment link must not be discovered, got %v", discovered)
		}
	})

	t.Run("external link is deactivated", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><div class="notion-scroller"><a href="https://example.com/doc" style="color: red;">ext</a></div></body></html>`)
		discovered := newTestRewriter(t).RewriteLinks(doc)

		if doc.Find("a").Length() != 0 {
			t.Error("expected anchor demoted to span")
		}
		span := doc.Find("span")
		if span.Length() != 1 {
			t.Fatal("expected one span")
		}
		if _, ok := span.Attr("href"); ok {
			t.Error("expected href removed")
		}
		style, _ := span.Attr("style")
		if !strings.Contains(style, "cursor: default") {
			t.Errorf("expected non-interactive cursor, got %q", style)
		}
		if len(discovered) != 0 {
			t.Errorf("external link must not be discovered, got %v", discovered)
		}
	})

	t.Run("internal link in content container is localized", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><div class="notion-scroller"><a href="https://myws.notion.site/Sub-Page-def456">sub</a></div></body></html>`)
		discovered := newTestRewriter(t).RewriteLinks(doc)

		if href, _ := doc.Find("a").Attr("href"); href != "sub-page-def456.html" {
			t.Errorf("unexpected rewritten href %q", href)
		}
		if len(discovered) != 1 || discovered[0] != "https://myws.notion.site/Sub-Page-def456" {
			t.Errorf("unexpected discovered set %v", discovered)
		}
	})

	t.Run("relative link resolves against the workspace domain", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><div class="notion-scroller"><a href="/Sub-Page-def456">sub</a></div></body></html>`)
		discovered := newTestRewriter(t).RewriteLinks(doc)

		if len(discovered) != 1 || discovered[0] != "https://myws.notion.site/Sub-Page-def456" {
			t.Errorf("unexpected discovered set %v", discovered)
		}
	})

	t.Run("internal link outside content containers is deactivated", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><a href="https://myws.notion.site/Sub-Page-def456">sub</a></body></html>`)
		discovered := newTestRewriter(t).RewriteLinks(doc)

		if doc.Find("a").Length() != 0 {
			t.Error("expected anchor demoted to span")
		}
		if len(discovered) != 0 {
			t.Errorf("deactivated link must not be discovered, got %v", discovered)
		}
	})
}

// TestLinkTableRows verifies anchor synthesis for table-view rows.
func TestLinkTableRows(t *testing.T) {
	t.Parallel()

	t.Run("row label is wrapped in a local anchor", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><div class="notion-table-view">
			<div class="notion-collection-item" data-block-id="ab-cd-12">
				<span style="pointer-events: none; color: red;">Row one</span>
			</div>
		</div></body></html>`)

		discovered := newTestRewriter(t).LinkTableRows(doc)

		a := doc.Find("a")
		if a.Length() != 1 {
			t.Fatalf("expected one synthesized anchor, got %d", a.Length())
		}
		if href, _ := a.Attr("href"); href != "abcd12.html" {
			t.Errorf("unexpected href %q", href)
		}
		if a.Find("span").Length() != 1 {
			t.Error("expected anchor to wrap the row label")
		}
		style, _ := doc.Find("span").Attr("style")
		if strings.Contains(style, "pointer-events: none") {
			t.Errorf("expected pointer-events suppression removed, got %q", style)
		}
		if len(discovered) != 1 || discovered[0] != "https://myws.notion.site/abcd12" {
			t.Errorf("unexpected discovered set %v", discovered)
		}
	})

	t.Run("row without block identifier is skipped", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><div class="notion-table-view">
			<div class="notion-collection-item"><span>orphan</span></div>
		</div></body></html>`)

		discovered := newTestRewriter(t).LinkTableRows(doc)

		if doc.Find("a").Length() != 0 {
			t.Error("expected no anchor synthesized")
		}
		if len(discovered) != 0 {
			t.Errorf("expected nothing discovered, got %v", discovered)
		}
	})
}
