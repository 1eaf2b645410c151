// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders stored papers as human-readable listings and
// handles lazy full-text extraction.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-collector/internal/extract"
	"github.com/pdiddy/paper-collector/internal/store"
	"github.com/pdiddy/paper-collector/pkg/types"
)

const separator = "--------------------------------------------------"

const noMatches = "No papers matched the given criteria."

// Reporter reads from the store and formats results. Extract is the
// PDF text extractor, swappable in tests.
type Reporter struct {
	Store       *store.Store
	MaxPDFPages int
	Extract     func(path string, maxPages int, logger zerolog.Logger) (string, error)
	Logger      zerolog.Logger
}

// New returns a Reporter backed by st, extracting PDF text with the
// default extractor.
func New(st *store.Store, cfg types.Config, logger zerolog.Logger) *Reporter {
	return &Reporter{
		Store:       st,
		MaxPDFPages: cfg.MaxPDFPages,
		Extract:     extract.Text,
		Logger:      logger,
	}
}

// ListSaved renders the stored papers matching opts in the requested
// format.
func (r *Reporter) ListSaved(ctx context.Context, opts store.ListOptions, format types.ListFormat) (string, error) {
	papers, err := r.Store.List(ctx, opts)
	if err != nil {
		return "", err
	}
	if len(papers) == 0 {
		return noMatches, nil
	}

	switch format {
	case types.FormatCSV:
		return formatCSV(papers)
	case types.FormatCompact:
		return formatCompact(papers), nil
	default:
		return formatDetailed(papers), nil
	}
}

// ListSavedByDate renders stored papers published inside the given
// window, newest collection first.
func (r *Reporter) ListSavedByDate(ctx context.Context, startDate, endDate, keyword, src string, limit int) (string, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return "", fmt.Errorf("invalid start date %q: use YYYY-MM-DD", startDate)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return "", fmt.Errorf("invalid end date %q: use YYYY-MM-DD", endDate)
	}
	if start.After(end) {
		return "", fmt.Errorf("start date %s is after end date %s", startDate, endDate)
	}

	papers, err := r.Store.List(ctx, store.ListOptions{
		Keyword:  keyword,
		Source:   src,
		Limit:    limit,
		SortBy:   types.SortByDate,
		DateFrom: startDate,
		DateTo:   endDate,
	})
	if err != nil {
		return "", err
	}
	if len(papers) == 0 {
		return fmt.Sprintf("No papers published between %s and %s were found.", startDate, endDate), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Papers published between %s and %s: %d total\n\n", startDate, endDate, len(papers))
	for _, paper := range papers {
		fmt.Fprintf(&b, "Title: %s%s\n", paper.Title, fullTextMarker(paper))
		fmt.Fprintf(&b, "Authors: %s\n", paper.Authors)
		fmt.Fprintf(&b, "Published: %s\n", paper.PublishedDate)
		fmt.Fprintf(&b, "Source: %s\n", paper.Source)
		fmt.Fprintf(&b, "URL: %s\n", paper.URL)
		if paper.CitationCount > 0 {
			fmt.Fprintf(&b, "Citations: %d\n", paper.CitationCount)
		}
		if paper.Venue != "" {
			fmt.Fprintf(&b, "Venue: %s\n", paper.Venue)
		}
		if paper.Abstract != "" {
			fmt.Fprintf(&b, "Abstract: %s\n", abstractPreview(paper.Abstract))
		}
		fmt.Fprintf(&b, "Collected: %s\n", paper.CollectedDate)
		b.WriteString(separator + "\n")
	}
	return b.String(), nil
}

// RankByCitations lists stored papers ordered by citation count.
func (r *Reporter) RankByCitations(ctx context.Context, keyword string, limit int) (string, error) {
	papers, err := r.Store.List(ctx, store.ListOptions{
		Keyword:   keyword,
		Limit:     limit,
		SortBy:    types.SortByCitations,
		SortOrder: types.SortDesc,
	})
	if err != nil {
		return "", err
	}
	if len(papers) == 0 {
		return noMatches, nil
	}

	scope := keyword
	if scope == "" {
		scope = "all"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Citation ranking (%s):\n\n", scope)
	for i, paper := range papers {
		fmt.Fprintf(&b, "%d. %s\n", i+1, paper.Title)
		fmt.Fprintf(&b, "   Authors: %s\n", paper.Authors)
		fmt.Fprintf(&b, "   Citations: %d\n", paper.CitationCount)
		if paper.Venue != "" {
			fmt.Fprintf(&b, "   Venue: %s\n", paper.Venue)
		}
		fmt.Fprintf(&b, "   Source: %s\n", paper.Source)
		fmt.Fprintf(&b, "   URL: %s\n", paper.URL)
		fmt.Fprintf(&b, "   Collected: %s\n", paper.CollectedDate)
		b.WriteString(separator + "\n")
	}
	return b.String(), nil
}

// ByVenue lists stored papers grouped by venue, in the order the
// venues first appear when walking papers by citation count.
func (r *Reporter) ByVenue(ctx context.Context, venue string, limit int) (string, error) {
	papers, err := r.Store.GetByVenue(ctx, venue, limit)
	if err != nil {
		return "", err
	}
	if len(papers) == 0 {
		return "No papers found for the given venue.", nil
	}

	var order []string
	grouped := map[string][]types.PaperRecord{}
	for _, paper := range papers {
		if _, ok := grouped[paper.Venue]; !ok {
			order = append(order, paper.Venue)
		}
		grouped[paper.Venue] = append(grouped[paper.Venue], paper)
	}

	scope := venue
	if scope == "" {
		scope = "all"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Papers by venue (%s):\n\n", scope)
	for _, v := range order {
		fmt.Fprintf(&b, "[%s] - %d papers\n", v, len(grouped[v]))
		for _, paper := range grouped[v] {
			fmt.Fprintf(&b, "- %s\n", paper.Title)
			fmt.Fprintf(&b, "  Authors: %s\n", paper.Authors)
			fmt.Fprintf(&b, "  Citations: %d\n", paper.CitationCount)
			fmt.Fprintf(&b, "  URL: %s\n", paper.URL)
		}
		b.WriteString(separator + "\n")
	}
	return b.String(), nil
}

// TopVenues renders the per-venue aggregate, best average citations
// first.
func (r *Reporter) TopVenues(ctx context.Context, limit int) (string, error) {
	stats, err := r.Store.TopVenues(ctx, limit)
	if err != nil {
		return "", err
	}
	if len(stats) == 0 {
		return "No papers with venue information.", nil
	}

	var b strings.Builder
	b.WriteString("Top venues (by average citations):\n\n")
	for i, vs := range stats {
		fmt.Fprintf(&b, "%d. %s\n", i+1, vs.Venue)
		fmt.Fprintf(&b, "   Papers: %d\n", vs.PaperCount)
		fmt.Fprintf(&b, "   Average citations: %.1f\n", vs.AvgCitations)
		fmt.Fprintf(&b, "   Max citations: %d\n", vs.MaxCitations)
		b.WriteString(separator + "\n")
	}
	return b.String(), nil
}

// Details renders everything stored about one paper, looked up by ID
// or title.
func (r *Reporter) Details(ctx context.Context, id string) (string, error) {
	paper, err := r.Store.GetByIDOrTitle(ctx, id)
	if err != nil {
		return "", err
	}
	if paper == nil {
		return fmt.Sprintf("No paper found with ID or title %q.", id), nil
	}

	marker := " [no full text]"
	if paper.FullTextAvailable {
		marker = " [full text]"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s%s\n", paper.Title, marker)
	fmt.Fprintf(&b, "Authors: %s\n", paper.Authors)
	fmt.Fprintf(&b, "Published: %s\n", paper.PublishedDate)
	fmt.Fprintf(&b, "Source: %s\n", paper.Source)
	fmt.Fprintf(&b, "URL: %s\n", paper.URL)
	if paper.CitationCount > 0 {
		fmt.Fprintf(&b, "Citations: %d\n", paper.CitationCount)
	}
	if paper.Venue != "" {
		fmt.Fprintf(&b, "Venue: %s\n", paper.Venue)
	}
	if paper.FullTextAvailable && paper.PDFPath != "" {
		fmt.Fprintf(&b, "PDF: %s\n", paper.PDFPath)
	}
	fmt.Fprintf(&b, "Collected: %s\n", paper.CollectedDate)
	fmt.Fprintf(&b, "\nAbstract:\n%s\n", paper.Abstract)
	if paper.Keywords != "" {
		fmt.Fprintf(&b, "\nKeywords: %s\n", paper.Keywords)
	}
	return b.String(), nil
}

// Export writes the paper summaries to a timestamped file under the
// data directory.
func (r *Reporter) Export(ctx context.Context, format string) (string, error) {
	var path string
	var count int
	var err error

	if strings.EqualFold(format, "csv") {
		path, count, err = r.Store.ExportCSV(ctx)
	} else {
		path, count, err = r.Store.ExportJSON(ctx)
	}
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "No papers in the database.", nil
	}
	return fmt.Sprintf("Exported %d paper summaries to %s.", count, path), nil
}

func formatCSV(papers []types.PaperRecord) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	header := []string{
		"paper_id", "title", "authors", "source", "url",
		"citation_count", "venue", "published_date", "collected_date",
		"full_text_available",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, paper := range papers {
		row := []string{
			paper.PaperID, paper.Title, paper.Authors, paper.Source,
			paper.URL, strconv.Itoa(paper.CitationCount), paper.Venue,
			paper.PublishedDate, paper.CollectedDate,
			strconv.FormatBool(paper.FullTextAvailable),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return b.String(), w.Error()
}

func formatCompact(papers []types.PaperRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total %d papers:\n\n", len(papers))
	for i, paper := range papers {
		fmt.Fprintf(&b, "%d. %s%s%s\n", i+1, paper.Title, fullTextMarker(paper), citationTag(paper))
		fmt.Fprintf(&b, "   Authors: %s\n", truncate(paper.Authors, 50))
		fmt.Fprintf(&b, "   Published: %s | Collected: %s\n", paper.PublishedDate, paper.CollectedDate)
		fmt.Fprintf(&b, "   Source: %s\n\n", paper.Source)
	}
	return b.String()
}

func formatDetailed(papers []types.PaperRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total %d papers:\n\n", len(papers))
	for _, paper := range papers {
		fmt.Fprintf(&b, "Title: %s%s\n", paper.Title, fullTextMarker(paper))
		fmt.Fprintf(&b, "Authors: %s\n", paper.Authors)
		fmt.Fprintf(&b, "Source: %s\n", paper.Source)
		fmt.Fprintf(&b, "URL: %s\n", paper.URL)
		if paper.CitationCount > 0 {
			fmt.Fprintf(&b, "Citations: %d\n", paper.CitationCount)
		}
		if paper.Venue != "" {
			fmt.Fprintf(&b, "Venue: %s\n", paper.Venue)
		}
		if paper.PublishedDate != "" {
			fmt.Fprintf(&b, "Published: %s\n", paper.PublishedDate)
		}
		if paper.Abstract != "" {
			fmt.Fprintf(&b, "Abstract: %s\n", abstractPreview(paper.Abstract))
		}
		fmt.Fprintf(&b, "Collected: %s\n", paper.CollectedDate)
		b.WriteString(separator + "\n")
	}
	return b.String()
}

func fullTextMarker(paper types.PaperRecord) string {
	if paper.FullTextAvailable {
		return " [full text]"
	}
	return ""
}

func citationTag(paper types.PaperRecord) string {
	if paper.CitationCount > 0 {
		return fmt.Sprintf(" [citations: %d]", paper.CitationCount)
	}
	return ""
}

func abstractPreview(abstract string) string {
	preview := strings.ReplaceAll(abstract, "\n", " ")
	return truncate(preview, 200)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
