package localize

import "testing"

// TestBackgroundURL verifies extraction of the url() reference from a
// background shorthand.
func TestBackgroundURL(t *testing.T) {
	t.Parallel()

	t.Run("url is extracted from the background value", func(t *testing.T) {
		t.Parallel()

		background, rawURL, err := backgroundURL("background: url(/images/sprite.png) 0px -10px; opacity: 1;")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rawURL != "/images/sprite.png" {
			t.Errorf("unexpected url %q", rawURL)
		}
		if background == "" {
			t.Error("expected full background value returned")
		}
	})

	t.Run("style without background yields empty result", func(t *testing.T) {
		t.Parallel()

		background, rawURL, err := backgroundURL("opacity: 1;")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if background != "" || rawURL != "" {
			t.Errorf("expected empty result, got %q %q", background, rawURL)
		}
	})

	t.Run("background without url is an error", func(t *testing.T) {
		t.Parallel()

		if _, _, err := backgroundURL("background: red;"); err == nil {
			t.Error("expected error for background without url()")
		}
	})
}

// TestReplaceDeclaration verifies inline-style value replacement.
func TestReplaceDeclaration(t *testing.T) {
	t.Parallel()

	t.Run("existing property is replaced", func(t *testing.T) {
		t.Parallel()

		got := replaceDeclaration("background: url(a.png); opacity: 1;", "background", "url(b.png)")
		want := "background: url(b.png); opacity: 1;"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("absent property leaves style unchanged", func(t *testing.T) {
		t.Parallel()

		got := replaceDeclaration("opacity: 1;", "background", "url(b.png)")
		if got != "opacity: 1;" {
			t.Errorf("got %q", got)
		}
	})
}

// TestJoinURL verifies slash handling when composing asset URLs.
func TestJoinURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{
			name:  "slashes are deduplicated",
			parts: []string{"https://www.notion.so/", "/fonts/", "/inter.woff2"},
			want:  "https://www.notion.so/fonts/inter.woff2",
		},
		{
			name:  "empty segments are dropped",
			parts: []string{"https://www.notion.so", "/", "fonts/inter.woff2"},
			want:  "https://www.notion.so/fonts/inter.woff2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := joinURL(tt.parts...); got != tt.want {
				t.Errorf("joinURL(%v) = %q, want %q", tt.parts, got, tt.want)
			}
		})
	}
}
