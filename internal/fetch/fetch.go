// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads paper PDFs into a local cache directory and
// writes per-paper metadata sidecars.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-collector/pkg/types"
)

const metadataDir = "metadata"

// maxFilenameLen caps derived filenames to stay within path-length
// limits on common filesystems.
const maxFilenameLen = 200

// Fetcher downloads PDFs idempotently: a file that already exists and is
// non-empty is never re-downloaded and never checked for staleness.
type Fetcher struct {
	client    *http.Client
	papersDir string
	userAgent string
	logger    zerolog.Logger
}

// New returns a Fetcher that caches PDFs under cfg.PapersDir.
func New(cfg types.Config, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.HTTP.Timeout},
		papersDir: cfg.PapersDir,
		userAgent: cfg.HTTP.UserAgent,
		logger:    logger,
	}
}

// Fetch downloads the PDF at url and returns the local path it was
// saved to. The filename is derived from paperID. If a non-empty file
// already exists at the derived path, the download is skipped.
func (f *Fetcher) Fetch(ctx context.Context, url, paperID string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("no PDF URL for paper %s", paperID)
	}

	path := filepath.Join(f.papersDir, SanitizeFilename(paperID)+".pdf")
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		return path, nil
	}

	if err := os.MkdirAll(f.papersDir, 0o755); err != nil {
		return "", fmt.Errorf("creating papers directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("PDF download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("PDF download returned HTTP %d from %s", resp.StatusCode, url)
	}

	// Write to a temp file and rename so a failed download never leaves
	// a truncated PDF at the cache path.
	tmpFile, err := os.CreateTemp(f.papersDir, ".fetch-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}

	f.logger.Debug().Str("paper_id", paperID).Str("path", path).Msg("downloaded PDF")
	return path, nil
}

// sidecar is the subset of record fields written next to each PDF.
type sidecar struct {
	ID            string `yaml:"id"`
	Title         string `yaml:"title"`
	Authors       string `yaml:"authors"`
	URL           string `yaml:"url"`
	PublishedDate string `yaml:"published_date"`
	Source        string `yaml:"source"`
	Venue         string `yaml:"venue,omitempty"`
}

// WriteSidecar writes a YAML metadata file for rec under
// papersDir/metadata/, so the PDF cache stays interpretable without the
// database.
func (f *Fetcher) WriteSidecar(rec types.PaperRecord) error {
	dir := filepath.Join(f.papersDir, metadataDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}

	data, err := yaml.Marshal(sidecar{
		ID:            rec.PaperID,
		Title:         rec.Title,
		Authors:       rec.Authors,
		URL:           rec.URL,
		PublishedDate: rec.PublishedDate,
		Source:        rec.Source,
		Venue:         rec.Venue,
	})
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}

	path := filepath.Join(dir, SanitizeFilename(rec.PaperID)+".yaml")
	return os.WriteFile(path, data, 0o644)
}

// SanitizeFilename strips characters that are illegal in filenames and
// caps the length at 200 runes.
func SanitizeFilename(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		case unicode.IsControl(r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}

	runes := []rune(b.String())
	if len(runes) > maxFilenameLen {
		runes = runes[:maxFilenameLen]
	}
	return string(runes)
}
