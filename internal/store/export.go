// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pdiddy/paper-collector/pkg/types"
)

// exportLimit caps how many papers a single export file holds.
const exportLimit = 1000

// paperSummary is the exported view of a record: everything except the
// extracted full text.
type paperSummary struct {
	PaperID           string  `json:"paper_id"`
	Title             string  `json:"title"`
	Authors           string  `json:"authors"`
	Abstract          string  `json:"abstract"`
	URL               string  `json:"url"`
	PublishedDate     string  `json:"published_date"`
	Source            string  `json:"source"`
	Keywords          string  `json:"keywords"`
	CollectedDate     string  `json:"collected_date"`
	CitationCount     int     `json:"citation_count"`
	Venue             string  `json:"venue"`
	VenueImpactScore  float64 `json:"venue_impact_score"`
	FullTextAvailable bool    `json:"full_text_available"`
}

func summarize(rec types.PaperRecord) paperSummary {
	return paperSummary{
		PaperID:           rec.PaperID,
		Title:             rec.Title,
		Authors:           rec.Authors,
		Abstract:          rec.Abstract,
		URL:               rec.URL,
		PublishedDate:     rec.PublishedDate,
		Source:            rec.Source,
		Keywords:          rec.Keywords,
		CollectedDate:     rec.CollectedDate,
		CitationCount:     rec.CitationCount,
		Venue:             rec.Venue,
		VenueImpactScore:  rec.VenueImpactScore,
		FullTextAvailable: rec.FullTextAvailable,
	}
}

func (s *Store) exportRecords(ctx context.Context) ([]types.PaperRecord, error) {
	return s.List(ctx, ListOptions{
		Limit:     exportLimit,
		SortBy:    types.SortByDate,
		SortOrder: types.SortDesc,
	})
}

func (s *Store) exportPath(ext string) string {
	name := fmt.Sprintf("paper_summaries_%s.%s", time.Now().Format("20060102_150405"), ext)
	return filepath.Join(s.dataDir, name)
}

// ExportJSON writes up to 1000 paper summaries as a JSON array under
// the data directory and returns the file path.
func (s *Store) ExportJSON(ctx context.Context) (string, int, error) {
	records, err := s.exportRecords(ctx)
	if err != nil {
		return "", 0, err
	}

	summaries := make([]paperSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, summarize(rec))
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "", 0, fmt.Errorf("marshaling summaries: %w", err)
	}

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("creating data directory: %w", err)
	}
	path := s.exportPath("json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", 0, fmt.Errorf("writing export: %w", err)
	}
	return path, len(summaries), nil
}

// ExportCSV writes up to 1000 paper summaries as CSV under the data
// directory and returns the file path.
func (s *Store) ExportCSV(ctx context.Context) (string, int, error) {
	records, err := s.exportRecords(ctx)
	if err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("creating data directory: %w", err)
	}
	path := s.exportPath("csv")
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("creating export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"paper_id", "title", "authors", "abstract", "url",
		"published_date", "source", "keywords", "collected_date",
		"citation_count", "venue", "venue_impact_score",
		"full_text_available",
	}
	if err := w.Write(header); err != nil {
		return "", 0, fmt.Errorf("writing export header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.PaperID, rec.Title, rec.Authors, rec.Abstract, rec.URL,
			rec.PublishedDate, rec.Source, rec.Keywords, rec.CollectedDate,
			strconv.Itoa(rec.CitationCount), rec.Venue,
			strconv.FormatFloat(rec.VenueImpactScore, 'f', -1, 64),
			strconv.FormatBool(rec.FullTextAvailable),
		}
		if err := w.Write(row); err != nil {
			return "", 0, fmt.Errorf("writing export row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", 0, fmt.Errorf("flushing export: %w", err)
	}
	return path, len(records), nil
}
