package model

import (
	"testing"
	"time"
)

// TestRunSummary verifies the accumulation helpers the crawler relies on.
func TestRunSummary(t *testing.T) {
	t.Parallel()

	t.Run("Duration spans start to finish", func(t *testing.T) {
		t.Parallel()

		start := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
		s := &RunSummary{StartedAt: start, FinishedAt: start.Add(90 * time.Second)}
		if s.Duration() != 90*time.Second {
			t.Errorf("expected 90s, got %v", s.Duration())
		}
	})

	t.Run("AddWarning appends in order", func(t *testing.T) {
		t.Parallel()

		s := &RunSummary{}
		s.AddWarning(WarnReadinessTimeout, "https://a", "first")
		s.AddWarning(WarnAssetFetch, "https://b", "second")

		if len(s.Warnings) != 2 {
			t.Fatalf("expected 2 warnings, got %d", len(s.Warnings))
		}
		if s.Warnings[0].Kind != WarnReadinessTimeout || s.Warnings[0].URL != "https://a" {
			t.Errorf("unexpected first warning: %+v", s.Warnings[0])
		}
		if s.Warnings[1].Kind != WarnAssetFetch || s.Warnings[1].Detail != "second" {
			t.Errorf("unexpected second warning: %+v", s.Warnings[1])
		}
	})

	t.Run("PageCount counts persisted pages", func(t *testing.T) {
		t.Parallel()

		s := &RunSummary{Pages: []Page{{URL: "a"}, {URL: "b"}}}
		if s.PageCount() != 2 {
			t.Errorf("expected 2, got %d", s.PageCount())
		}
	})
}
