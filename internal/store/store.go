package store

import (
	"embed"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MJDeligan/notionSnapshot/internal/fetch"
)

//go:embed injections
var injections embed.FS

// IndexFilename is the filename the root page is always persisted under,
// regardless of its derived name.
const IndexFilename = "index.html"

// assetsDirName is the subdirectory of the output directory that holds
// localized assets.
const assetsDirName = "assets"

// Store owns the output directory for one snapshot run and the workspace's
// cross-run asset cache. It is safe for concurrent DownloadAsset calls;
// concurrent requests for the same target filename collapse into one
// download.
type Store struct {
	rootURL     string
	workspace   string
	outputDir   string
	cacheDir    string
	cacheAssets bool
	fetcher     fetch.Fetcher
	logger      *slog.Logger

	group singleflight.Group

	mu         sync.Mutex
	downloaded int
	reused     int
}

// lowerCaser folds page names to lower case. Notion paths may contain
// non-ASCII titles, so plain ASCII lowering is not enough.
var lowerCaser = cases.Lower(language.Und)

// New creates a Store for the given root URL and prepares the output
// directory. cacheDir is the workspace's cross-run cache location; it is
// only touched when cacheAssets is true. If a previous snapshot exists at
// the output location, its assets are folded into the cache (when caching
// is enabled) and the directory is recreated from scratch.
func New(rootURL, outputRoot, cacheDir string, cacheAssets bool, fetcher fetch.Fetcher, logger *slog.Logger) (*Store, error) {
	workspace, err := WorkspaceName(rootURL)
	if err != nil {
		return nil, err
	}

	s := &Store{
		rootURL:     rootURL,
		workspace:   workspace,
		outputDir:   filepath.Join(outputRoot, workspace),
		cacheDir:    cacheDir,
		cacheAssets: cacheAssets,
		fetcher:     fetcher,
		logger:      logger,
	}
	if err := s.setup(); err != nil {
		return nil, err
	}
	return s, nil
}

// setup folds a previous run's assets into the cache, then recreates the
// output directory tree.
func (s *Store) setup() error {
	if _, err := os.Stat(s.outputDir); err == nil {
		prevAssets := filepath.Join(s.outputDir, assetsDirName)
		if s.cacheAssets {
			if _, err := os.Stat(prevAssets); err == nil {
				s.logger.Info("folding previous snapshot assets into cache", "cacheDir", s.cacheDir)
				if err := copyTree(prevAssets, s.cacheDir); err != nil {
					return fmt.Errorf("store: fold assets into cache: %w", err)
				}
			}
		}
		if err := os.RemoveAll(s.outputDir); err != nil {
			return fmt.Errorf("store: remove previous snapshot: %w", err)
		}
		s.logger.Info("removed previous snapshot", "dir", s.outputDir)
	}

	if err := os.MkdirAll(filepath.Join(s.outputDir, assetsDirName), 0o755); err != nil {
		return fmt.Errorf("store: create output directory: %w", err)
	}
	if s.cacheAssets {
		if err := os.MkdirAll(s.cacheDir, 0o755); err != nil {
			return fmt.Errorf("store: create cache directory: %w", err)
		}
	}
	return nil
}

// Workspace returns the derived workspace name.
func (s *Store) Workspace() string { return s.workspace }

// OutputDir returns the output directory for this run.
func (s *Store) OutputDir() string { return s.outputDir }

// CacheDir returns the cross-run cache directory for this workspace.
func (s *Store) CacheDir() string { return s.cacheDir }

// PageFilename derives the local filename a page URL will be persisted
// under: the URL path minus its leading slash, truncated at the final
// hyphen (Notion suffixes every page path with a non-semantic identifier
// after the last hyphen), lower-cased, with an ".html" extension. The
// root URL always maps to IndexFilename.
func (s *Store) PageFilename(pageURL string) string {
	if pageURL == s.rootURL {
		return IndexFilename
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return IndexFilename
	}
	id := strings.TrimPrefix(u.Path, "/")
	if i := strings.LastIndex(id, "-"); i >= 0 {
		id = id[:i]
	}
	return lowerCaser.String(id) + ".html"
}

// PagePath returns the absolute output path for a page URL.
func (s *Store) PagePath(pageURL string) string {
	return filepath.Join(s.outputDir, s.PageFilename(pageURL))
}

// SavePage persists serialized page markup under the filename derived
// from its URL.
func (s *Store) SavePage(pageURL, markup string) error {
	path := s.PagePath(pageURL)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(markup)), 0o644); err != nil {
		return fmt.Errorf("store: save page %s: %w", pageURL, err)
	}
	s.logger.Info("saved page", "url", pageURL, "path", path)
	return nil
}

// CopyInjections writes the embedded offline-interactivity stylesheet and
// script into the assets directory and returns their paths relative to
// the output directory.
func (s *Store) CopyInjections() (cssPath, jsPath string, err error) {
	for _, name := range []string{"injection.css", "injection.js"} {
		data, err := injections.ReadFile("injections/" + name)
		if err != nil {
			return "", "", fmt.Errorf("store: read embedded %s: %w", name, err)
		}
		dst := filepath.Join(s.outputDir, assetsDirName, name)
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return "", "", fmt.Errorf("store: write %s: %w", name, err)
		}
	}
	return assetsDirName + "/injection.css", assetsDirName + "/injection.js", nil
}

// Stats reports how many assets were downloaded from the network and how
// many were reused (within-run dedup or cross-run cache).
func (s *Store) Stats() (downloaded, reused int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downloaded, s.reused
}

// WorkspaceName derives the workspace name from the root URL: the URL
// path minus its leading slash, truncated at the final hyphen,
// lower-cased. A bare workspace root (no path) falls back to the first
// host label.
func WorkspaceName(rootURL string) (string, error) {
	u, err := url.Parse(rootURL)
	if err != nil {
		return "", fmt.Errorf("store: parse root URL: %w", err)
	}
	id := strings.TrimPrefix(u.Path, "/")
	if i := strings.LastIndex(id, "-"); i >= 0 {
		id = id[:i]
	}
	if id == "" {
		host, _, _ := strings.Cut(u.Hostname(), ".")
		id = host
	}
	if id == "" {
		return "", fmt.Errorf("store: cannot derive workspace name from %q", rootURL)
	}
	return lowerCaser.String(id), nil
}

// copyTree recursively copies src into dst, creating dst if needed.
// Existing destination files are overwritten; the copy is idempotent.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

// copyFile copies a single file, overwriting the destination.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
