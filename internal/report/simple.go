package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/MJDeligan/notionSnapshot/internal/model"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display at the end of a run.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables the per-page listing in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with the per-page listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run summary as plain text.
func (w *SimpleWriter) Write(summary *model.RunSummary) (int, error) {
	var b strings.Builder

	b.WriteString("Snapshot complete\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "Workspace:          %s\n", summary.Workspace)
	fmt.Fprintf(&b, "Root URL:           %s\n", summary.RootURL)
	fmt.Fprintf(&b, "Pages:              %d\n", summary.PageCount())
	fmt.Fprintf(&b, "Assets downloaded:  %d\n", summary.AssetsDownloaded)
	fmt.Fprintf(&b, "Assets from cache:  %d\n", summary.AssetsFromCache)
	fmt.Fprintf(&b, "Duration:           %s\n", summary.Duration().Round(1e9))

	if w.verbose && len(summary.Pages) > 0 {
		b.WriteString("\nPages:\n")
		for _, page := range summary.Pages {
			marker := " "
			if page.TimedOut {
				marker = "!"
			}
			fmt.Fprintf(&b, "  %s %-40s %s\n", marker, page.Filename, truncateString(page.URL, 70))
		}
	}

	if len(summary.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):\n", len(summary.Warnings))
		for _, warning := range summary.Warnings {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", warning.Kind, truncateString(warning.URL, 60), warning.Detail)
		}
	}

	return io.WriteString(w.output, b.String())
}
