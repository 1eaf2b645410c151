// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared record, option, and configuration types
// used across the collection pipeline.
package types

// Source values identify the external API a record came from.
const (
	SourceArxiv           = "arxiv"
	SourceSemanticScholar = "semantic_scholar"
)

// PaperRecord is a single paper's metadata entry in the store, keyed by
// PaperID. Identifiers are source-specific; the same work fetched from
// both APIs is stored as two records.
type PaperRecord struct {
	// PaperID is the source-specific identifier (e.g. "2301.07041v1" for
	// arXiv, a hex paper ID for Semantic Scholar).
	PaperID string `json:"paper_id"`

	// Title is the paper title.
	Title string `json:"title"`

	// Authors is a comma-joined list of display names in source order.
	Authors string `json:"authors"`

	// Abstract is the paper abstract. Semantic Scholar results without
	// one are dropped before ingestion.
	Abstract string `json:"abstract"`

	// URL is the canonical landing-page URL.
	URL string `json:"url"`

	// PDFURL is where the PDF can be fetched from. Not persisted.
	PDFURL string `json:"-"`

	// PDFPath is the local path of the downloaded PDF, or empty.
	PDFPath string `json:"pdf_path,omitempty"`

	// FullTextAvailable reports whether a PDF was downloaded for this record.
	FullTextAvailable bool `json:"full_text_available"`

	// FullText is the extracted text, populated lazily on first access.
	FullText string `json:"full_text,omitempty"`

	// PublishedDate is either "YYYY" or "YYYY-MM-DD" depending on the
	// source and search variant.
	PublishedDate string `json:"published_date"`

	// Source is SourceArxiv or SourceSemanticScholar.
	Source string `json:"source"`

	// Keywords is the query string that produced this record.
	Keywords string `json:"keywords"`

	// CollectedDate is set at first insert (YYYY-MM-DD) and never changed.
	CollectedDate string `json:"collected_date"`

	// CitationCount is refreshed on every re-ingestion.
	CitationCount int `json:"citation_count"`

	// Venue is the journal or conference, as reported by Semantic Scholar.
	Venue string `json:"venue,omitempty"`

	// VenueImpactScore is a reserved column, always 0.0.
	VenueImpactScore float64 `json:"venue_impact_score"`
}

// VenueStats is one row of the top-venues aggregate.
type VenueStats struct {
	Venue        string  `json:"venue"`
	PaperCount   int     `json:"paper_count"`
	AvgCitations float64 `json:"avg_citations"`
	MaxCitations int     `json:"max_citations"`
}
