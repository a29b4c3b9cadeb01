package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MJDeligan/notionSnapshot/internal/browser"
	"github.com/MJDeligan/notionSnapshot/internal/config"
	"github.com/MJDeligan/notionSnapshot/internal/crawler"
	"github.com/MJDeligan/notionSnapshot/internal/database"
	"github.com/MJDeligan/notionSnapshot/internal/fetch"
	"github.com/MJDeligan/notionSnapshot/internal/localize"
	logpkg "github.com/MJDeligan/notionSnapshot/internal/log"
	"github.com/MJDeligan/notionSnapshot/internal/model"
	"github.com/MJDeligan/notionSnapshot/internal/report"
	"github.com/MJDeligan/notionSnapshot/internal/rewrite"
	"github.com/MJDeligan/notionSnapshot/internal/store"
)

// NewSnapshotCmd creates the snapshot command.
func NewSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot <page-url>",
		Short: "Mirror a public Notion page and everything it links to",
		Long: `Snapshot crawls a public Notion page and every internal page reachable
from it, and writes a self-contained offline mirror.

Each page is captured only after it has finished rendering: collapsed
toggle blocks are expanded, images, stylesheets, fonts, and emoji sprites
are downloaded into a local assets directory, and internal links are
rewritten to the local files.

Examples:
  # Mirror a workspace
  notionsnapshot snapshot https://myworkspace.notion.site/Home-abc123

  # Dark theme, longer per-page deadline
  notionsnapshot snapshot --dark-mode --timeout 30s https://myworkspace.notion.site/Home-abc123

  # Skip the cross-run asset cache
  notionsnapshot snapshot --no-cache https://myworkspace.notion.site/Home-abc123

  # Attach to an already-running browser
  notionsnapshot snapshot --browser-url ws://127.0.0.1:9222/... https://myworkspace.notion.site/Home-abc123

Configuration file (.notionsnapshot) example:
  timeout: 30s
  dark_mode: true
  cache_assets: false
  output: ./mirrors`,
		Args: cobra.ExactArgs(1),
		RunE: runSnapshotCmd,
	}

	// Crawl behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Deadline for each wait: page readiness and per-widget expansion")
	cmd.Flags().Duration("poll-interval", config.DefaultPollInterval,
		"Pause between readiness polls")
	cmd.Flags().BoolP("dark-mode", "d", false,
		"Capture pages with the dark presentation theme")
	cmd.Flags().Bool("no-cache", false,
		"Disable the cross-run asset cache")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputRoot,
		"Directory snapshots are written under, one subdirectory per workspace")

	// Browser flags
	cmd.Flags().String("browser-url", "",
		"DevTools WebSocket URL of an already-running browser (default: launch headless)")

	// Asset fetching flags
	cmd.Flags().Duration("fetch-timeout", config.DefaultFetchTimeout,
		"Timeout for a single asset download")
	cmd.Flags().Int("asset-concurrency", config.DefaultAssetConcurrency,
		"Parallel asset downloads within one page")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .notionsnapshot in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Print the run summary as JSON instead of plain text")

	return cmd
}

// runSnapshotCmd executes the snapshot command.
func runSnapshotCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := logpkg.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	return runSnapshot(ctx, cfg, jsonOut, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.RootURL = args[0]

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.PollInterval, err = cmd.Flags().GetDuration("poll-interval")
	if err != nil {
		return nil, err
	}

	cfg.DarkMode, err = cmd.Flags().GetBool("dark-mode")
	if err != nil {
		return nil, err
	}

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	cfg.CacheAssets = !noCache

	cfg.OutputRoot, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.BrowserURL, err = cmd.Flags().GetString("browser-url")
	if err != nil {
		return nil, err
	}

	cfg.FetchTimeout, err = cmd.Flags().GetDuration("fetch-timeout")
	if err != nil {
		return nil, err
	}

	cfg.AssetConcurrency, err = cmd.Flags().GetInt("asset-concurrency")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Load the optional config file. If the user explicitly specified a
	// path, a missing file is an error; otherwise it is simply absent.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runSnapshot executes the crawl and writes the mirror, the run report,
// and the history record.
func runSnapshot(ctx context.Context, cfg *config.Config, jsonOut bool, logger *slog.Logger) error {
	workspace, err := store.WorkspaceName(cfg.RootURL)
	if err != nil {
		return err
	}

	fetcher := fetch.New(cfg.FetchTimeout, fetch.WithLogger(logger))
	st, err := store.New(cfg.RootURL, cfg.OutputRoot, config.XDGCacheDir(workspace), cfg.CacheAssets, fetcher, logger)
	if err != nil {
		return fmt.Errorf("failed to prepare output directories: %w", err)
	}

	summary := &model.RunSummary{}
	pipeline := localize.New(st, cfg.AssetConcurrency, summary, logger)

	rewriter, err := rewrite.NewRewriter(cfg.RootURL, st.PageFilename, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Snapshotting %s...\n", cfg.RootURL)
	startTime := time.Now()

	page, err := browser.Launch(cfg.BrowserURL, logger)
	if err != nil {
		return err
	}

	// The crawler owns the page from here and closes it when done.
	summary, err = crawler.New(page, st, pipeline, rewriter, cfg, summary, logger).Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("snapshot cancelled")
		}
		return err
	}

	fmt.Printf("Snapshot completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))

	if err := writeRunReport(st.OutputDir(), summary); err != nil {
		logger.Error("failed to write run report", "error", err)
	}
	if err := saveRunHistory(ctx, summary, logger); err != nil {
		logger.Error("failed to save run history", "error", err)
	}

	return printSummary(summary, jsonOut, cfg.Verbose)
}

// writeRunReport writes a Markdown report next to the snapshot output.
func writeRunReport(outputDir string, summary *model.RunSummary) error {
	path := filepath.Join(outputDir, "REPORT.md")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // path is under our own output dir
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = report.NewMarkdownWriter(f).Write(summary)
	return err
}

// saveRunHistory records the run in the history database.
func saveRunHistory(ctx context.Context, summary *model.RunSummary, logger *slog.Logger) error {
	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := db.SaveRun(ctx, summary)
	if err != nil {
		return err
	}
	logger.Info("run recorded", "id", runID, "workspace", summary.Workspace)
	return nil
}

// printSummary writes the run summary to stdout.
func printSummary(summary *model.RunSummary, jsonOut, verbose bool) error {
	if jsonOut {
		_, err := report.NewJSONWriter(os.Stdout, report.WithPrettyPrint()).Write(summary)
		return err
	}
	_, err := report.NewSimpleWriter(os.Stdout, report.WithVerbose(verbose)).Write(summary)
	return err
}
