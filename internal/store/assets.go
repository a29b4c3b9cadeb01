package store

import (
	"context"
	"crypto/sha1" //nolint:gosec // content addressing, not security
	"encoding/hex"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// preferredExtensions overrides mime.ExtensionsByType where it returns
// several candidates in lexical order (e.g. ".jpe" before ".jpg").
var preferredExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/svg+xml": ".svg",
	"text/css":      ".css",
	"text/html":     ".html",
}

// DownloadAsset resolves a remote asset URL to a local path relative to
// the output directory ("assets/<name><ext>").
//
// The target name is the filename hint when given, otherwise a hash of
// the normalized source URL (query parameters stripped, except that a
// width parameter is folded into the hash input so distinct resolutions
// map to distinct entries). Resolution order: a file already present in
// this run's assets directory, then a cross-run cache entry (copied in),
// then a network fetch. Concurrent calls for the same target name are
// collapsed into one download.
//
// A fetch failure is returned as an error; callers decide whether that
// degrades the reference to a live hyperlink or aborts the run.
func (s *Store) DownloadAsset(ctx context.Context, rawURL, hint string) (string, error) {
	name := hint
	if name == "" {
		var err error
		name, err = assetName(rawURL)
		if err != nil {
			return "", err
		}
		s.logger.Debug("no filename hint, derived hash name", "url", rawURL, "name", name)
	}

	v, err, _ := s.group.Do(name, func() (any, error) {
		return s.resolveAsset(ctx, rawURL, name)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// resolveAsset performs the dedup/cache/fetch sequence for one target
// name. Calls are serialized per name by the singleflight group.
func (s *Store) resolveAsset(ctx context.Context, rawURL, name string) (string, error) {
	assetsDir := filepath.Join(s.outputDir, assetsDirName)

	if existing := findByName(assetsDir, name); existing != "" {
		s.markReused()
		return assetsDirName + "/" + filepath.Base(existing), nil
	}

	if s.cacheAssets {
		if cached := findByName(s.cacheDir, name); cached != "" {
			dst := filepath.Join(assetsDir, filepath.Base(cached))
			if err := copyFile(cached, dst); err != nil {
				return "", fmt.Errorf("store: copy cache entry %s: %w", cached, err)
			}
			s.logger.Debug("asset found in cache", "name", name)
			s.markReused()
			return assetsDirName + "/" + filepath.Base(cached), nil
		}
	}

	body, contentType, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	filename := name
	if filepath.Ext(filename) == "" {
		ext, err := assetExtension(rawURL, contentType)
		if err != nil {
			return "", err
		}
		filename += ext
	}

	if err := os.WriteFile(filepath.Join(assetsDir, filename), body, 0o644); err != nil {
		return "", fmt.Errorf("store: write asset %s: %w", filename, err)
	}

	s.mu.Lock()
	s.downloaded++
	s.mu.Unlock()

	return assetsDirName + "/" + filename, nil
}

func (s *Store) markReused() {
	s.mu.Lock()
	s.reused++
	s.mu.Unlock()
}

// assetName derives the content-addressed name for a URL without a
// filename hint: sha1 of host+path, with a width query parameter folded
// in so different resolutions of the same source stay distinct.
func assetName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("store: parse asset URL %q: %w", rawURL, err)
	}
	input := u.Host + u.Path
	if width := u.Query().Get("width"); width != "" {
		input += "?width=" + width
	}
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:]), nil
}

// assetExtension determines the file extension for an asset: the URL
// path suffix when present (cut at an encoded question mark), otherwise
// sniffed from the declared content type.
func assetExtension(rawURL, contentType string) (string, error) {
	u, err := url.Parse(rawURL)
	if err == nil {
		// Work on the escaped path: the encoded question mark must stay
		// encoded to be recognized as a suffix boundary.
		if ext := path.Ext(u.EscapedPath()); ext != "" {
			// Some Notion asset paths embed an encoded query inside the
			// path suffix ("font.woff2%3Fv=3").
			if i := strings.Index(strings.ToLower(ext), "%3f"); i >= 0 {
				ext = ext[:i]
			}
			return ext, nil
		}
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("store: cannot determine extension for %q: bad content type %q", rawURL, contentType)
	}
	if ext, ok := preferredExtensions[mediaType]; ok {
		return ext, nil
	}
	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return "", fmt.Errorf("store: cannot determine extension for %q: content type %q", rawURL, contentType)
	}
	return exts[0], nil
}

// findByName locates a file in dir matching name exactly (when it has an
// extension) or name plus any extension.
func findByName(dir, name string) string {
	if filepath.Ext(name) != "" {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		return ""
	}
	matches, err := filepath.Glob(filepath.Join(dir, name+".*"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}
