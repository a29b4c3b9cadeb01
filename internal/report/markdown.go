package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/MJDeligan/notionSnapshot/internal/model"
)

// MarkdownWriter outputs run summaries in Markdown format.
// This format is designed for documentation and sharing, e.g. dropped
// next to the snapshot output so a later reader can see what the mirror
// contains and how faithfully it was captured.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writePages(md, summary)
	w.writeWarnings(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.RunSummary) {
	md.H1("Snapshot Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Workspace", "`" + summary.Workspace + "`"},
			{"Root URL", "`" + summary.RootURL + "`"},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration().Round(1e9).String()},
			{"Pages", strconv.Itoa(summary.PageCount())},
			{"Assets downloaded", strconv.Itoa(summary.AssetsDownloaded)},
			{"Assets from cache", strconv.Itoa(summary.AssetsFromCache)},
			{"Status", w.statusText(summary)},
		},
	})
	md.PlainText("")

	if len(summary.Warnings) > 0 {
		md.Warningf(
			"%d page(s) or asset(s) were captured with reduced fidelity. See the warnings section below.",
			len(summary.Warnings),
		)
	} else {
		md.Tip("All pages captured at full fidelity.")
	}
	md.PlainText("")
}

// statusText returns the status text based on run state.
func (w *MarkdownWriter) statusText(summary *model.RunSummary) string {
	if len(summary.Warnings) > 0 {
		return "⚠️ Complete with warnings"
	}
	return "✅ Complete"
}

// writePages writes the per-page table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Pages")
	md.PlainText("")

	if len(summary.Pages) == 0 {
		md.PlainText("No pages captured.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Pages))
	for i, page := range summary.Pages {
		title := page.Title
		if title == "" {
			title = "-"
		}
		timedOut := "no"
		if page.TimedOut {
			timedOut = "yes"
		}
		rows[i] = []string{
			"`" + page.Filename + "`",
			truncateString(title, 50),
			strconv.Itoa(page.LinksDiscovered),
			timedOut,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"File", "Title", "Links", "Timed Out"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeWarnings writes the degraded-continue events, if any.
func (w *MarkdownWriter) writeWarnings(md *markdown.Markdown, summary *model.RunSummary) {
	if len(summary.Warnings) == 0 {
		return
	}

	md.H2("Warnings")
	md.PlainText("")

	rows := make([][]string, len(summary.Warnings))
	for i, warning := range summary.Warnings {
		rows[i] = []string{
			string(warning.Kind),
			truncateString(warning.URL, 60),
			truncateString(warning.Detail, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Kind", "URL", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by notionSnapshot*")
}
