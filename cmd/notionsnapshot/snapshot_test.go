package main

import (
	"testing"

	"github.com/MJDeligan/notionSnapshot/internal/config"
)

// TestNewSnapshotCmd tests the snapshot command creation.
func TestNewSnapshotCmd(t *testing.T) {
	t.Parallel()

	cmd := NewSnapshotCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "snapshot <page-url>" {
			t.Errorf("expected use 'snapshot <page-url>', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{
			"timeout", "poll-interval", "dark-mode", "no-cache",
			"output", "browser-url", "fetch-timeout", "asset-concurrency",
			"config", "json",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		t.Parallel()
		if err := cmd.Args(cmd, []string{}); err == nil {
			t.Error("expected error for missing argument")
		}
		if err := cmd.Args(cmd, []string{"a", "b"}); err == nil {
			t.Error("expected error for extra arguments")
		}
		if err := cmd.Args(cmd, []string{"https://myws.notion.site/Home-abc123"}); err != nil {
			t.Errorf("unexpected error for one argument: %v", err)
		}
	})
}

// TestBuildConfig tests configuration assembly from command flags.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewSnapshotCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"https://myws.notion.site/Home-abc123"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.RootURL != "https://myws.notion.site/Home-abc123" {
			t.Errorf("unexpected root URL %q", cfg.RootURL)
		}
		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("expected default timeout, got %v", cfg.Timeout)
		}
		if !cfg.CacheAssets {
			t.Error("expected asset cache enabled by default")
		}
		if cfg.DarkMode {
			t.Error("expected light mode by default")
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewSnapshotCmd()
		err := cmd.ParseFlags([]string{
			"--timeout", "30s",
			"--dark-mode",
			"--no-cache",
			"--output", "mirrors",
			"--asset-concurrency", "8",
		})
		if err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"https://myws.notion.site/Home-abc123"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Timeout.Seconds() != 30 {
			t.Errorf("expected 30s timeout, got %v", cfg.Timeout)
		}
		if !cfg.DarkMode {
			t.Error("expected dark mode enabled")
		}
		if cfg.CacheAssets {
			t.Error("expected asset cache disabled")
		}
		if cfg.OutputRoot != "mirrors" {
			t.Errorf("expected output root 'mirrors', got %q", cfg.OutputRoot)
		}
		if cfg.AssetConcurrency != 8 {
			t.Errorf("expected concurrency 8, got %d", cfg.AssetConcurrency)
		}
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		t.Parallel()

		cmd := NewSnapshotCmd()
		if err := cmd.ParseFlags([]string{"--config", "/nonexistent/.notionsnapshot"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		if _, err := buildConfig(cmd, []string{"https://myws.notion.site/Home-abc123"}); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})
}
