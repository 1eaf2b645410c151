// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-collector/internal/fetch"
	"github.com/pdiddy/paper-collector/pkg/types"
)

func testCfg(t *testing.T) types.Config {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.PapersDir = t.TempDir()
	cfg.APIDelay = time.Millisecond
	cfg.RateLimitDelay = time.Millisecond
	return cfg
}

func testFetcher(t *testing.T, cfg types.Config) *fetch.Fetcher {
	t.Helper()
	return fetch.New(cfg, zerolog.Nop())
}

func testClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}

func TestFilterByDate(t *testing.T) {
	records := []types.PaperRecord{
		{PaperID: "year-only", PublishedDate: "2023"},
		{PaperID: "full-date", PublishedDate: "2023-06-15"},
		{PaperID: "before", PublishedDate: "2022-12-31"},
		{PaperID: "after", PublishedDate: "2024-01-01"},
		{PaperID: "unparsable", PublishedDate: "unknown"},
		{PaperID: "empty", PublishedDate: ""},
	}

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	kept := FilterByDate(records, start, end)
	if len(kept) != 2 {
		t.Fatalf("len(kept) = %d, want 2", len(kept))
	}
	if kept[0].PaperID != "year-only" {
		t.Errorf("kept[0] = %q, want year-only (2023 normalizes to 2023-01-01)", kept[0].PaperID)
	}
	if kept[1].PaperID != "full-date" {
		t.Errorf("kept[1] = %q, want full-date", kept[1].PaperID)
	}
}

func TestFilterByDateBoundsInclusive(t *testing.T) {
	records := []types.PaperRecord{
		{PaperID: "on-start", PublishedDate: "2023-01-01"},
		{PaperID: "on-end", PublishedDate: "2023-12-31"},
	}

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	kept := FilterByDate(records, start, end)
	if len(kept) != 2 {
		t.Fatalf("len(kept) = %d, want 2 (bounds are inclusive)", len(kept))
	}
}

func TestJoinAuthors(t *testing.T) {
	got := joinAuthors([]string{" Ada Lovelace ", "Alan Turing"})
	if got != "Ada Lovelace, Alan Turing" {
		t.Errorf("joinAuthors = %q", got)
	}
	if joinAuthors(nil) != "" {
		t.Errorf("joinAuthors(nil) = %q, want empty", joinAuthors(nil))
	}
}

func TestSortByCitations(t *testing.T) {
	records := []types.PaperRecord{
		{PaperID: "low", CitationCount: 1},
		{PaperID: "high", CitationCount: 100},
		{PaperID: "mid", CitationCount: 50},
	}
	SortByCitations(records)

	want := []string{"high", "mid", "low"}
	for i, id := range want {
		if records[i].PaperID != id {
			t.Errorf("records[%d] = %q, want %q", i, records[i].PaperID, id)
		}
	}
}
