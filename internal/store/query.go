// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/paper-collector/pkg/types"
)

// ListOptions filters and orders a stored-paper listing. Zero values
// mean "no filter"; an invalid date bound is skipped rather than
// failing the query.
type ListOptions struct {
	// Keyword matches against title, abstract, keywords and authors.
	Keyword string

	// Source restricts to a single source name.
	Source string

	// Limit caps the number of rows; zero or negative means 10.
	Limit int

	SortBy    types.SortField
	SortOrder types.SortOrder

	// HasFullText, when non-nil, filters on the extraction flag.
	HasFullText *bool

	// MinCitations drops papers below the threshold when positive.
	MinCitations int

	// Venue matches the venue name as a substring.
	Venue string

	// DateFrom and DateTo bound the publication date, inclusive, in
	// YYYY-MM-DD form.
	DateFrom string
	DateTo   string
}

var sortColumns = map[types.SortField]string{
	types.SortByDate:      "collected_date",
	types.SortByCitations: "citation_count",
	types.SortByTitle:     "title",
}

// List returns stored papers matching opts.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.PaperRecord, error) {
	var where strings.Builder
	var args []any

	and := func(clause string, clauseArgs ...any) {
		if where.Len() == 0 {
			where.WriteString(" WHERE ")
		} else {
			where.WriteString(" AND ")
		}
		where.WriteString(clause)
		args = append(args, clauseArgs...)
	}

	if opts.Keyword != "" {
		pattern := "%" + opts.Keyword + "%"
		and("(title LIKE ? OR abstract LIKE ? OR keywords LIKE ? OR authors LIKE ?)",
			pattern, pattern, pattern, pattern)
	}
	if opts.Source != "" {
		and("source = ?", opts.Source)
	}
	if opts.HasFullText != nil {
		if *opts.HasFullText {
			and("full_text_available = 1")
		} else {
			and("full_text_available = 0")
		}
	}
	if opts.MinCitations > 0 {
		and("citation_count >= ?", opts.MinCitations)
	}
	if opts.Venue != "" {
		and("venue LIKE ?", "%"+opts.Venue+"%")
	}
	if validDate(opts.DateFrom) {
		and("published_date >= ?", opts.DateFrom)
	} else if opts.DateFrom != "" {
		s.logger.Warn().Str("date_from", opts.DateFrom).Msg("ignoring malformed date bound")
	}
	if validDate(opts.DateTo) {
		and("published_date <= ?", opts.DateTo)
	} else if opts.DateTo != "" {
		s.logger.Warn().Str("date_to", opts.DateTo).Msg("ignoring malformed date bound")
	}

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = "collected_date"
	}
	direction := "DESC"
	if opts.SortOrder == types.SortAsc {
		direction = "ASC"
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	query := fmt.Sprintf(`SELECT %s FROM papers%s ORDER BY %s %s LIMIT ?`,
		selectColumns, where.String(), column, direction)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	var records []types.PaperRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// GetByVenue returns papers from a venue ordered by citation count.
// The venue matches as a substring; an empty venue means every paper
// that has a venue recorded.
func (s *Store) GetByVenue(ctx context.Context, venue string, limit int) ([]types.PaperRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	clause := "venue != ''"
	args := []any{}
	if venue != "" {
		clause = "venue LIKE ?"
		args = append(args, "%"+venue+"%")
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT %s FROM papers WHERE %s ORDER BY citation_count DESC LIMIT ?`,
		selectColumns, clause)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing venue papers: %w", err)
	}
	defer rows.Close()

	var records []types.PaperRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// TopVenues aggregates per-venue statistics over papers with a venue
// recorded, ordered by average citation count.
func (s *Store) TopVenues(ctx context.Context, limit int) ([]types.VenueStats, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT venue, COUNT(*), AVG(citation_count), MAX(citation_count)
		FROM papers
		WHERE venue != ''
		GROUP BY venue
		ORDER BY AVG(citation_count) DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("aggregating venues: %w", err)
	}
	defer rows.Close()

	var stats []types.VenueStats
	for rows.Next() {
		var vs types.VenueStats
		if err := rows.Scan(&vs.Venue, &vs.PaperCount, &vs.AvgCitations, &vs.MaxCitations); err != nil {
			return nil, fmt.Errorf("scanning venue stats: %w", err)
		}
		stats = append(stats, vs)
	}
	return stats, rows.Err()
}

func validDate(s string) bool {
	if s == "" {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
