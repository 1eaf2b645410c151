// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect orchestrates searches across the paper sources and
// persists the results. Its operations return human-readable summaries
// of what was found and saved.
package collect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-collector/internal/source"
	"github.com/pdiddy/paper-collector/internal/store"
	"github.com/pdiddy/paper-collector/pkg/types"
)

// Collector fans a query out to the selected sources and upserts the
// merged results. A source that fails is logged and contributes zero
// results; the operation itself still succeeds.
type Collector struct {
	Arxiv    source.Client
	Semantic source.Client
	Store    *store.Store
	Logger   zerolog.Logger
}

// Search runs a keyword search against the selected sources and saves
// the results.
func (c *Collector) Search(ctx context.Context, query string, sel types.SourceSelector, limit int) (string, error) {
	papers := c.gather(ctx, sel, func(client source.Client) ([]types.PaperRecord, error) {
		return client.Search(ctx, query, source.SearchOptions{Limit: limit})
	})

	saved, err := c.Store.UpsertMany(ctx, papers)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d papers for query %q.\n", len(papers), query)
	fmt.Fprintf(&b, "%d of them were newly saved to the database.\n\n", saved)
	fmt.Fprintf(&b, "Papers with full text available: %d\n", countFullText(papers))

	if saved > 0 {
		b.WriteString("\nNewly added papers:\n")
		today := time.Now().Format("2006-01-02")
		seen := map[string]bool{}
		for _, paper := range papers {
			if seen[paper.PaperID] {
				continue
			}
			seen[paper.PaperID] = true

			stored, err := c.Store.GetByIDOrTitle(ctx, paper.PaperID)
			if err != nil || stored == nil || stored.CollectedDate != today {
				continue
			}
			fmt.Fprintf(&b, "- %s (%s)%s\n", paper.Title, paper.Source, fullTextMarker(paper))
		}
	}
	return b.String(), nil
}

// SearchByCitations runs a citation-aware search. When ordering by
// citations the merged results are re-sorted and cut to limit, so the
// cap applies across sources rather than per source.
func (c *Collector) SearchByCitations(ctx context.Context, query string, minCitations int, sel types.SourceSelector, limit int, sortBy types.SortMode) (string, error) {
	papers := c.gather(ctx, sel, func(client source.Client) ([]types.PaperRecord, error) {
		return client.Search(ctx, query, source.SearchOptions{
			Limit:        limit,
			MinCitations: minCitations,
			SortBy:       sortBy,
		})
	})

	if sortBy == types.SortModeCitations {
		source.SortByCitations(papers)
		if limit > 0 && len(papers) > limit {
			papers = papers[:limit]
		}
	}

	saved, err := c.Store.UpsertMany(ctx, papers)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d papers with at least %d citations for query %q.\n", len(papers), minCitations, query)
	fmt.Fprintf(&b, "%d of them were newly saved to the database.\n\n", saved)

	if len(papers) == 0 {
		b.WriteString("No papers matched the given criteria.")
		return b.String(), nil
	}

	b.WriteString("Results:\n")
	for i, paper := range papers {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, paper.Title, paper.Source)
		fmt.Fprintf(&b, "   Authors: %s\n", paper.Authors)
		fmt.Fprintf(&b, "   Citations: %d\n", paper.CitationCount)
		if paper.Venue != "" {
			fmt.Fprintf(&b, "   Venue: %s\n", paper.Venue)
		}
		fmt.Fprintf(&b, "   URL: %s\n", paper.URL)
		if paper.FullTextAvailable {
			b.WriteString("   [full text]\n")
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// SearchByDateRange searches for papers published inside the given
// window. arXiv filters server-side; Semantic Scholar filters by year,
// so its results are trimmed to the exact window afterwards.
func (c *Collector) SearchByDateRange(ctx context.Context, query, startDate, endDate string, sel types.SourceSelector, limit int) (string, error) {
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

	var papers []types.PaperRecord
	if sel.IncludesArxiv() {
		results, err := c.Arxiv.SearchByDate(ctx, query, start, end, limit)
		if err != nil {
			c.Logger.Warn().Str("source", types.SourceArxiv).Err(err).Msg("date search failed")
		}
		papers = append(papers, results...)
	}
	if sel.IncludesSemanticScholar() {
		results, err := c.Semantic.SearchByDate(ctx, query, start, end, limit)
		if err != nil {
			c.Logger.Warn().Str("source", types.SourceSemanticScholar).Err(err).Msg("date search failed")
		}
		papers = append(papers, source.FilterByDate(results, start, end)...)
	}

	if len(papers) == 0 {
		return fmt.Sprintf("No papers published between %s and %s were found for query %q.",
			startDate, endDate, query), nil
	}

	saved, err := c.Store.UpsertMany(ctx, papers)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d papers published between %s and %s for query %q.\n",
		len(papers), startDate, endDate, query)
	fmt.Fprintf(&b, "%d of them were newly saved to the database.\n\n", saved)

	b.WriteString("Results:\n")
	for i, paper := range papers {
		published := paper.PublishedDate
		if published == "" {
			published = "unknown"
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, paper.Title, paper.Source)
		fmt.Fprintf(&b, "   Published: %s\n", published)
		fmt.Fprintf(&b, "   Authors: %s\n", paper.Authors)
		fmt.Fprintf(&b, "   URL: %s\n", paper.URL)
		if paper.FullTextAvailable {
			b.WriteString("   [full text]\n")
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// gather runs one search function against every selected source,
// merging results. Failures degrade to empty per source.
func (c *Collector) gather(ctx context.Context, sel types.SourceSelector, search func(source.Client) ([]types.PaperRecord, error)) []types.PaperRecord {
	var papers []types.PaperRecord

	run := func(name string, client source.Client) {
		results, err := search(client)
		if err != nil {
			c.Logger.Warn().Str("source", name).Err(err).Msg("search failed")
			return
		}
		papers = append(papers, results...)
	}

	if sel.IncludesArxiv() {
		run(types.SourceArxiv, c.Arxiv)
	}
	if sel.IncludesSemanticScholar() {
		run(types.SourceSemanticScholar, c.Semantic)
	}
	return papers
}

func countFullText(papers []types.PaperRecord) int {
	n := 0
	for _, paper := range papers {
		if paper.FullTextAvailable {
			n++
		}
	}
	return n
}

func fullTextMarker(paper types.PaperRecord) string {
	if paper.FullTextAvailable {
		return " [full text]"
	}
	return ""
}
