// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-collector/internal/fetch"
	"github.com/pdiddy/paper-collector/internal/httputil"
	"github.com/pdiddy/paper-collector/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint.
// Declared as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,authors,abstract,url,year,venue,openAccessPdf,citationCount,influentialCitationCount"

// SemanticScholar searches the Semantic Scholar Graph API.
type SemanticScholar struct {
	client         *http.Client
	fetcher        *fetch.Fetcher
	userAgent      string
	apiKey         string
	limiter        *rate.Limiter
	rateLimitDelay time.Duration
	logger         zerolog.Logger
}

// NewSemanticScholar returns a Semantic Scholar client that downloads
// open-access PDFs through fetcher. Requests are paced by a token
// bucket so bursts of year-by-year queries stay under the API limit.
func NewSemanticScholar(cfg types.Config, client *http.Client, fetcher *fetch.Fetcher, logger zerolog.Logger) *SemanticScholar {
	return &SemanticScholar{
		client:         client,
		fetcher:        fetcher,
		userAgent:      cfg.HTTP.UserAgent,
		apiKey:         cfg.SemanticScholarAPIKey,
		limiter:        rate.NewLimiter(rate.Every(cfg.APIDelay), 1),
		rateLimitDelay: cfg.RateLimitDelay,
		logger:         logger,
	}
}

// Search implements Client. Twice the requested limit is fetched so
// that papers dropped for missing abstracts or low citation counts do
// not leave the page short.
func (s *SemanticScholar) Search(ctx context.Context, query string, opts SearchOptions) ([]types.PaperRecord, error) {
	limit := effectiveLimit(opts.Limit)

	papers, err := s.queryPage(ctx, query, limit*2, 0)
	if err != nil {
		return nil, err
	}

	var results []types.PaperRecord
	for _, paper := range papers {
		if paper.Abstract == "" {
			continue
		}
		if paper.CitationCount < opts.MinCitations {
			continue
		}
		rec := s.toRecord(paper, query, strconv.Itoa(paper.Year))
		s.download(ctx, &rec)
		results = append(results, rec)
	}

	if opts.SortBy == types.SortModeCitations {
		SortByCitations(results)
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// SearchByDate implements Client. The API filters by year only, so the
// window is walked one year at a time with the per-year budget divided
// from limit, and the merged results are ordered by citations.
func (s *SemanticScholar) SearchByDate(ctx context.Context, query string, start, end time.Time, limit int) ([]types.PaperRecord, error) {
	limit = effectiveLimit(limit)

	startYear, endYear := start.Year(), end.Year()
	perYear := limit / (endYear - startYear + 1)
	if perYear < 1 {
		perYear = 1
	}

	var results []types.PaperRecord
	for year := startYear; year <= endYear; year++ {
		papers, err := s.queryPage(ctx, query, perYear*2, year)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			s.logger.Warn().Int("year", year).Err(err).Msg("year query failed, continuing")
			continue
		}

		for _, paper := range papers {
			if paper.Abstract == "" {
				continue
			}
			rec := s.toRecord(paper, query, strconv.Itoa(paper.Year))
			s.download(ctx, &rec)
			results = append(results, rec)
		}
	}

	SortByCitations(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// queryPage runs one search request. A year of zero means no year
// filter.
func (s *SemanticScholar) queryPage(ctx context.Context, query string, limit, year int) ([]semanticPaper, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}

	resp, err := httputil.DoWithBackoff(ctx, s.client, req, s.rateLimitDelay)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}
	return sr.Data, nil
}

func (s *SemanticScholar) toRecord(paper semanticPaper, query, publishedDate string) types.PaperRecord {
	var names []string
	for _, author := range paper.Authors {
		names = append(names, author.Name)
	}

	return types.PaperRecord{
		PaperID:       paper.PaperID,
		Title:         paper.Title,
		Authors:       joinAuthors(names),
		Abstract:      paper.Abstract,
		URL:           paper.URL,
		PDFURL:        paper.OpenAccessPDF.URL,
		PublishedDate: publishedDate,
		Source:        types.SourceSemanticScholar,
		Keywords:      query,
		CitationCount: paper.CitationCount,
		Venue:         paper.Venue,
	}
}

// download fetches the record's open-access PDF if it has one. Records
// without a PDF URL are kept as metadata-only entries.
func (s *SemanticScholar) download(ctx context.Context, rec *types.PaperRecord) {
	if rec.PDFURL == "" {
		return
	}
	path, err := s.fetcher.Fetch(ctx, rec.PDFURL, rec.PaperID)
	if err != nil {
		s.logger.Warn().Str("paper_id", rec.PaperID).Err(err).Msg("PDF download failed")
		return
	}
	rec.PDFPath = path
	rec.FullTextAvailable = true
	if err := s.fetcher.WriteSidecar(*rec); err != nil {
		s.logger.Warn().Str("paper_id", rec.PaperID).Err(err).Msg("writing metadata sidecar failed")
	}
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string           `json:"paperId"`
	Title         string           `json:"title"`
	Abstract      string           `json:"abstract"`
	URL           string           `json:"url"`
	Year          int              `json:"year"`
	Venue         string           `json:"venue"`
	CitationCount int              `json:"citationCount"`
	Authors       []semanticAuthor `json:"authors"`
	OpenAccessPDF semanticPDF      `json:"openAccessPdf"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticPDF struct {
	URL string `json:"url"`
}
