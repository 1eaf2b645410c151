// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls plain text out of downloaded PDFs.
package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

// Text extracts plain text from the PDF at path. At most maxPages pages
// are read; a zero or negative maxPages means 500. Pages that fail to
// decode are skipped rather than aborting the whole document, since
// papers often contain a handful of malformed pages.
func Text(path string, maxPages int, logger zerolog.Logger) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no PDF path")
	}
	if maxPages <= 0 {
		maxPages = 500
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := total
	if pages > maxPages {
		logger.Warn().
			Str("path", path).
			Int("pages", total).
			Int("max_pages", maxPages).
			Msg("PDF exceeds page cap, truncating extraction")
		pages = maxPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Debug().Str("path", path).Int("page", i).Err(err).Msg("skipping unreadable page")
			continue
		}
		b.WriteString(text)
	}

	return b.String(), nil
}
