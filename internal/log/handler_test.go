package log

import (
	"bytes"
	"strings"
	"testing"
)

// TestTruncatingHandler verifies that oversized string attributes are cut
// down before they reach the underlying handler, and everything else
// passes through untouched.
func TestTruncatingHandler(t *testing.T) {
	t.Parallel()

	t.Run("long string attribute is truncated", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		long := strings.Repeat("x", 1000)
		logger.Info("captured", "markup", long)

		out := buf.String()
		if strings.Contains(out, long) {
			t.Error("expected long attribute to be truncated")
		}
		if !strings.Contains(out, "truncated") {
			t.Errorf("expected truncation marker in output, got %q", out)
		}
	})

	t.Run("short attributes pass through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Info("saved page", "file", "index.html")

		if !strings.Contains(buf.String(), "index.html") {
			t.Errorf("expected attribute in output, got %q", buf.String())
		}
	})

	t.Run("debug is suppressed unless verbose", func(t *testing.T) {
		t.Parallel()

		var quiet, verbose bytes.Buffer
		NewLogger(&quiet, false).Debug("polling")
		NewLogger(&verbose, true).Debug("polling")

		if quiet.Len() != 0 {
			t.Errorf("expected no debug output, got %q", quiet.String())
		}
		if verbose.Len() == 0 {
			t.Error("expected debug output in verbose mode")
		}
	})
}
