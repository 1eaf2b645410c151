// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-collector/pkg/types"
)

func seedQueryPapers(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	a := samplePaper("a")
	a.Title = "Transformers at Scale"
	a.CitationCount = 500
	a.Venue = "NeurIPS"

	b := samplePaper("b")
	b.Title = "Graph Neural Networks"
	b.Authors = "Grace Hopper"
	b.Abstract = "Message passing on graphs."
	b.Keywords = "graphs"
	b.Source = types.SourceSemanticScholar
	b.CitationCount = 50
	b.Venue = "ICML"

	c := samplePaper("c")
	c.Title = "A Survey of Attention"
	c.Abstract = "Attention mechanisms in transformers."
	c.CitationCount = 5
	c.Venue = "NeurIPS"

	_, err := s.UpsertMany(ctx, []types.PaperRecord{a, b, c})
	require.NoError(t, err)
	require.NoError(t, s.SaveFullText(ctx, "a", "full body"))
}

func paperIDs(records []types.PaperRecord) []string {
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.PaperID)
	}
	return ids
}

func TestListKeywordMatchesTextFields(t *testing.T) {
	s := testStore(t)
	seedQueryPapers(t, s)
	ctx := context.Background()

	records, err := s.List(ctx, ListOptions{Keyword: "transformers", SortBy: types.SortByCitations})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "c"}, paperIDs(records))

	records, err = s.List(ctx, ListOptions{Keyword: "graphs"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, paperIDs(records))

	// Author names count as keyword matches too.
	records, err = s.List(ctx, ListOptions{Keyword: "Hopper"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, paperIDs(records))
}

func TestListFilters(t *testing.T) {
	s := testStore(t)
	seedQueryPapers(t, s)
	ctx := context.Background()

	records, err := s.List(ctx, ListOptions{Source: types.SourceSemanticScholar})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, paperIDs(records))

	records, err = s.List(ctx, ListOptions{MinCitations: 50, SortBy: types.SortByCitations})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, paperIDs(records))

	hasText := true
	records, err = s.List(ctx, ListOptions{HasFullText: &hasText})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, paperIDs(records))

	noText := false
	records, err = s.List(ctx, ListOptions{HasFullText: &noText})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c"}, paperIDs(records))

	records, err = s.List(ctx, ListOptions{Venue: "ICML"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, paperIDs(records))

	// Venue matches as a substring.
	records, err = s.List(ctx, ListOptions{Venue: "Neur", SortBy: types.SortByCitations})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, paperIDs(records))
}

func TestListSortingAndLimit(t *testing.T) {
	s := testStore(t)
	seedQueryPapers(t, s)
	ctx := context.Background()

	records, err := s.List(ctx, ListOptions{SortBy: types.SortByCitations, SortOrder: types.SortDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, paperIDs(records))

	records, err = s.List(ctx, ListOptions{SortBy: types.SortByCitations, SortOrder: types.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, paperIDs(records))

	records, err = s.List(ctx, ListOptions{SortBy: types.SortByTitle, SortOrder: types.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, paperIDs(records))

	records, err = s.List(ctx, ListOptions{SortBy: types.SortByCitations, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestListIgnoresMalformedDateBounds(t *testing.T) {
	s := testStore(t)
	seedQueryPapers(t, s)
	ctx := context.Background()

	records, err := s.List(ctx, ListOptions{DateFrom: "not-a-date", DateTo: "2025/01/01"})
	require.NoError(t, err)
	assert.Len(t, records, 3, "malformed bounds are skipped, not applied")
}

func TestListDateBounds(t *testing.T) {
	s := testStore(t)
	seedQueryPapers(t, s)
	ctx := context.Background()

	// All three carry published_date 2023-01-15.
	records, err := s.List(ctx, ListOptions{DateFrom: "2023-01-01", DateTo: "2023-12-31"})
	require.NoError(t, err)
	assert.Len(t, records, 3)

	records, err = s.List(ctx, ListOptions{DateTo: "2022-12-31"})
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = s.List(ctx, ListOptions{DateFrom: "2023-01-15"})
	require.NoError(t, err)
	assert.Len(t, records, 3, "bounds are inclusive")
}

func TestGetByVenue(t *testing.T) {
	s := testStore(t)
	seedQueryPapers(t, s)
	ctx := context.Background()

	records, err := s.GetByVenue(ctx, "NeurIPS", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, paperIDs(records), "ordered by citations desc")

	// Venue matches as a substring.
	records, err = s.GetByVenue(ctx, "Neur", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, paperIDs(records))

	// Empty venue returns everything that has a venue recorded.
	records, err = s.GetByVenue(ctx, "", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, paperIDs(records))
}

func TestTopVenues(t *testing.T) {
	s := testStore(t)
	seedQueryPapers(t, s)
	ctx := context.Background()

	stats, err := s.TopVenues(ctx, 10)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Ordered by average citations: NeurIPS (252.5) over ICML (50).
	assert.Equal(t, "NeurIPS", stats[0].Venue)
	assert.Equal(t, 2, stats[0].PaperCount)
	assert.InDelta(t, 252.5, stats[0].AvgCitations, 0.001)
	assert.Equal(t, 500, stats[0].MaxCitations)

	assert.Equal(t, "ICML", stats[1].Venue)
	assert.Equal(t, 1, stats[1].PaperCount)
}
