// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source implements the upstream paper search clients. Each
// client returns fully populated records: metadata, citation counts,
// and a downloaded PDF where one is available.
package source

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/paper-collector/pkg/types"
)

// SearchOptions tunes a keyword search against one source.
type SearchOptions struct {
	// Limit caps the number of returned records; zero or negative means 5.
	Limit int

	// MinCitations drops papers below the threshold.
	MinCitations int

	// SortBy selects the result ordering.
	SortBy types.SortMode
}

// Client is a paper source backend.
type Client interface {
	// Search runs a keyword search.
	Search(ctx context.Context, query string, opts SearchOptions) ([]types.PaperRecord, error)

	// SearchByDate runs a keyword search restricted to a publication
	// date window.
	SearchByDate(ctx context.Context, query string, start, end time.Time, limit int) ([]types.PaperRecord, error)
}

const defaultLimit = 5

func effectiveLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}

func joinAuthors(names []string) string {
	trimmed := make([]string, 0, len(names))
	for _, n := range names {
		trimmed = append(trimmed, strings.TrimSpace(n))
	}
	return strings.Join(trimmed, ", ")
}

// SortByCitations orders records by citation count, highest first,
// keeping the incoming order among ties.
func SortByCitations(records []types.PaperRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CitationCount > records[j].CitationCount
	})
}

// FilterByDate keeps records whose publication date falls inside
// [start, end]. Year-only dates are treated as January 1st of that
// year; records with missing or unparsable dates are dropped.
func FilterByDate(records []types.PaperRecord, start, end time.Time) []types.PaperRecord {
	var kept []types.PaperRecord
	for _, rec := range records {
		dateStr := rec.PublishedDate
		if len(dateStr) == 4 {
			dateStr += "-01-01"
		}
		published, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		if !published.Before(start) && !published.After(end) {
			kept = append(kept, rec)
		}
	}
	return kept
}
