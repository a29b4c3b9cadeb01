package localize

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestStylesheets exercises stylesheet localization and the fatal error
// paths for unresolvable stylesheets and fonts.
func TestStylesheets(t *testing.T) {
	t.Parallel()

	t.Run("stylesheet and its fonts are localized", func(t *testing.T) {
		t.Parallel()

		// The src value repeats the asset origin, an artifact the font
		// pattern must collapse.
		sheet := `@font-face {
			font-family: "Inter";
			src: url(https:/www.notion.sohttps:/www.notion.so/assets/fonts/inter.woff2);
		}`
		fetcher := &mapFetcher{responses: map[string]fakeResponse{
			"https://www.notion.so/app.css":           {body: []byte(sheet), contentType: "text/css"},
			"https://www.notion.so/fonts/inter.woff2": {body: []byte("woff2"), contentType: "font/woff2"},
		}}
		p, s, _ := newTestPipeline(t, fetcher)
		doc := parseDoc(t, `<html><head><link rel="stylesheet" href="/app.css"></head><body></body></html>`)

		if err := p.Stylesheets(context.Background(), doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		href, _ := doc.Find("link").Attr("href")
		if !strings.HasPrefix(href, "assets/") || !strings.HasSuffix(href, ".css") {
			t.Errorf("expected local stylesheet path, got %q", href)
		}

		data, err := os.ReadFile(filepath.Join(s.OutputDir(), filepath.FromSlash(href)))
		if err != nil {
			t.Fatalf("expected localized stylesheet on disk: %v", err)
		}
		if !strings.Contains(string(data), "url(assets/inter.woff2)") {
			t.Errorf("expected font reference rewritten, got %q", data)
		}

		if _, err := os.Stat(filepath.Join(s.OutputDir(), "assets", "inter.woff2")); err != nil {
			t.Errorf("expected font file on disk: %v", err)
		}
	})

	t.Run("vendors bundle is skipped", func(t *testing.T) {
		t.Parallel()

		fetcher := &mapFetcher{responses: map[string]fakeResponse{}}
		p, _, _ := newTestPipeline(t, fetcher)
		doc := parseDoc(t, `<html><head><link rel="stylesheet" href="/vendors~2b2c94-app.css"></head><body></body></html>`)

		if err := p.Stylesheets(context.Background(), doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(fetcher.requestedURLs()) != 0 {
			t.Errorf("expected no fetches, got %v", fetcher.requestedURLs())
		}
	})

	t.Run("absolute stylesheet reference is skipped", func(t *testing.T) {
		t.Parallel()

		fetcher := &mapFetcher{responses: map[string]fakeResponse{}}
		p, _, _ := newTestPipeline(t, fetcher)
		doc := parseDoc(t, `<html><head><link rel="stylesheet" href="https://cdn.example/site.css"></head><body></body></html>`)

		if err := p.Stylesheets(context.Background(), doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(fetcher.requestedURLs()) != 0 {
			t.Errorf("expected no fetches, got %v", fetcher.requestedURLs())
		}
	})

	t.Run("stylesheet fetch failure is fatal", func(t *testing.T) {
		t.Parallel()

		fetcher := &mapFetcher{responses: map[string]fakeResponse{}}
		p, _, _ := newTestPipeline(t, fetcher)
		doc := parseDoc(t, `<html><head><link rel="stylesheet" href="/app.css"></head><body></body></html>`)

		if err := p.Stylesheets(context.Background(), doc); err == nil {
			t.Error("expected error for unfetchable stylesheet")
		}
	})

	t.Run("unparseable font source is fatal", func(t *testing.T) {
		t.Parallel()

		sheet := `@font-face { font-family: "Inter"; src: local("Inter"); }`
		fetcher := &mapFetcher{responses: map[string]fakeResponse{
			"https://www.notion.so/app.css": {body: []byte(sheet), contentType: "text/css"},
		}}
		p, _, _ := newTestPipeline(t, fetcher)
		doc := parseDoc(t, `<html><head><link rel="stylesheet" href="/app.css"></head><body></body></html>`)

		if err := p.Stylesheets(context.Background(), doc); err == nil {
			t.Error("expected error for unparseable font source")
		}
	})
}
