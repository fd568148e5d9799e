package combine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"m4bforge/internal/fileutil"
	"m4bforge/internal/metadata"
)

var coverHTTPClient = &http.Client{Timeout: 30 * time.Second}

// resolveCover stages the configured cover art inside the work dir and
// returns its path, or "" when no cover is configured.
func resolveCover(ctx context.Context, book metadata.Book, workDir string) (string, error) {
	source := book.CoverSource
	if source == "" {
		return "", nil
	}
	if book.CoverIsURL() {
		return downloadCover(ctx, source, workDir)
	}

	dst := filepath.Join(workDir, "cover"+coverExt(source))
	if err := fileutil.CopyFile(source, dst); err != nil {
		return "", fmt.Errorf("copy cover: %w", err)
	}
	return dst, nil
}

func downloadCover(ctx context.Context, url, workDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build cover request: %w", err)
	}

	resp, err := coverHTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch cover: unexpected status %d", resp.StatusCode)
	}

	dst := filepath.Join(workDir, "cover"+coverExt(url))
	file, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create cover file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return "", fmt.Errorf("save cover: %w", err)
	}
	return dst, nil
}

// coverExt picks the staged file's extension. URL sources have their
// query and fragment stripped first so "cover.png?v=2" keeps ".png".
func coverExt(source string) string {
	if u, err := url.Parse(source); err == nil && u.Scheme != "" {
		source = u.Path
	}
	switch ext := path.Ext(source); ext {
	case ".jpg", ".jpeg", ".png":
		return ext
	default:
		return ".jpg"
	}
}
