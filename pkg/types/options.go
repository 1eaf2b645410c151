// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// SortField selects the column used to order stored-paper listings.
type SortField string

const (
	SortByDate      SortField = "date" // collection date
	SortByCitations SortField = "citations"
	SortByTitle     SortField = "title"
)

// ParseSortField maps a user-supplied string to a SortField. Unknown
// values fall back to SortByDate.
func ParseSortField(s string) SortField {
	switch SortField(strings.ToLower(s)) {
	case SortByCitations:
		return SortByCitations
	case SortByTitle:
		return SortByTitle
	default:
		return SortByDate
	}
}

// SortOrder is the listing sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder maps a user-supplied string to a SortOrder. Unknown
// values fall back to SortDesc.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(strings.ToLower(s)) == SortAsc {
		return SortAsc
	}
	return SortDesc
}

// ListFormat selects the rendering of a stored-paper listing.
type ListFormat string

const (
	FormatDetailed ListFormat = "detailed"
	FormatCompact  ListFormat = "compact"
	FormatCSV      ListFormat = "csv"
)

// ParseListFormat maps a user-supplied string to a ListFormat. Unknown
// values fall back to FormatDetailed.
func ParseListFormat(s string) ListFormat {
	switch ListFormat(strings.ToLower(s)) {
	case FormatCompact:
		return FormatCompact
	case FormatCSV:
		return FormatCSV
	default:
		return FormatDetailed
	}
}

// SortMode selects the result ordering requested from a source client.
type SortMode string

const (
	SortModeRelevance SortMode = "relevance"
	SortModeCitations SortMode = "citations"
	SortModeRecency   SortMode = "recency"
)

// ParseSortMode maps a user-supplied string to a SortMode. Unknown
// values fall back to SortModeRelevance.
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.ToLower(s)) {
	case SortModeCitations:
		return SortModeCitations
	case SortModeRecency:
		return SortModeRecency
	default:
		return SortModeRelevance
	}
}

// SourceSelector names the source clients a collection operation fans
// out to.
type SourceSelector string

const (
	SelectArxiv           SourceSelector = "arxiv"
	SelectSemanticScholar SourceSelector = "semantic_scholar"
	SelectBoth            SourceSelector = "both"
)

// ParseSourceSelector maps a user-supplied string to a SourceSelector.
// Unknown values fall back to SelectBoth.
func ParseSourceSelector(s string) SourceSelector {
	switch SourceSelector(strings.ToLower(s)) {
	case SelectArxiv:
		return SelectArxiv
	case SelectSemanticScholar:
		return SelectSemanticScholar
	default:
		return SelectBoth
	}
}

// IncludesArxiv reports whether the selector covers the arXiv client.
func (s SourceSelector) IncludesArxiv() bool {
	return s == SelectArxiv || s == SelectBoth
}

// IncludesSemanticScholar reports whether the selector covers the
// Semantic Scholar client.
func (s SourceSelector) IncludesSemanticScholar() bool {
	return s == SelectSemanticScholar || s == SelectBoth
}
