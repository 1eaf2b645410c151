// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-collector/internal/fetch"
	"github.com/pdiddy/paper-collector/internal/httputil"
	"github.com/pdiddy/paper-collector/pkg/types"
)

// API endpoints. Declared as vars so tests can substitute httptest
// servers.
var (
	arxivAPIBase = "https://export.arxiv.org/api/query"

	// citationAPIBase is the Semantic Scholar single-paper endpoint used
	// to enrich arXiv results with citation counts and venues.
	citationAPIBase = "https://api.semanticscholar.org/graph/v1/paper"
)

const citationFields = "citationCount,venue,influentialCitationCount"

// citationBatchSize bounds how many citation lookups run concurrently.
const citationBatchSize = 5

// Arxiv searches the arXiv Atom API and enriches results with citation
// data from Semantic Scholar.
type Arxiv struct {
	client         *http.Client
	fetcher        *fetch.Fetcher
	userAgent      string
	apiDelay       time.Duration
	rateLimitDelay time.Duration
	logger         zerolog.Logger
}

// NewArxiv returns an arXiv client that downloads PDFs through fetcher.
func NewArxiv(cfg types.Config, client *http.Client, fetcher *fetch.Fetcher, logger zerolog.Logger) *Arxiv {
	return &Arxiv{
		client:         client,
		fetcher:        fetcher,
		userAgent:      cfg.HTTP.UserAgent,
		apiDelay:       cfg.APIDelay,
		rateLimitDelay: cfg.RateLimitDelay,
		logger:         logger,
	}
}

// Search implements Client. Citation counts are fetched before the
// minimum-citations filter is applied, so the threshold sees real
// numbers rather than the zero the Atom feed carries.
func (a *Arxiv) Search(ctx context.Context, query string, opts SearchOptions) ([]types.PaperRecord, error) {
	limit := effectiveLimit(opts.Limit)

	sortParam := "relevance"
	if opts.SortBy == types.SortModeRecency {
		sortParam = "submittedDate"
	}

	records, err := a.queryFeed(ctx, query, query, limit*2, sortParam, false)
	if err != nil {
		return nil, err
	}

	infos := a.enrichCitations(ctx, records)

	var results []types.PaperRecord
	for i, rec := range records {
		rec.CitationCount = infos[i].CitationCount
		rec.Venue = infos[i].Venue
		if rec.CitationCount < opts.MinCitations {
			continue
		}
		a.download(ctx, &rec)
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

// SearchByDate implements Client using arXiv's submittedDate filter.
// Every match in the window is returned with citations attached; no
// citation threshold applies.
func (a *Arxiv) SearchByDate(ctx context.Context, query string, start, end time.Time, limit int) ([]types.PaperRecord, error) {
	limit = effectiveLimit(limit)

	fullQuery := fmt.Sprintf("%s AND submittedDate:[%s TO %s]",
		query, start.Format("20060102"), end.Format("20060102"))

	records, err := a.queryFeed(ctx, fullQuery, query, limit*2, "submittedDate", true)
	if err != nil {
		return nil, err
	}

	infos := a.enrichCitations(ctx, records)

	results := make([]types.PaperRecord, 0, len(records))
	for i, rec := range records {
		rec.CitationCount = infos[i].CitationCount
		rec.Venue = infos[i].Venue
		a.download(ctx, &rec)
		results = append(results, rec)
	}
	return results, nil
}

// queryFeed runs one Atom query. keywords is the original user query
// recorded on each result; fullDate selects YYYY-MM-DD publication
// dates instead of bare years.
func (a *Arxiv) queryFeed(ctx context.Context, query, keywords string, maxResults int, sortParam string, fullDate bool) ([]types.PaperRecord, error) {
	params := url.Values{
		"search_query": {strings.TrimSpace(query)},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxResults)},
		"sortBy":       {sortParam},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var records []types.PaperRecord
	for _, entry := range feed.Entries {
		paperID := entryPaperID(entry.ID)
		if paperID == "" {
			continue
		}

		rec := types.PaperRecord{
			PaperID:  paperID,
			Title:    strings.TrimSpace(entry.Title),
			Abstract: strings.TrimSpace(entry.Summary),
			URL:      entry.ID,
			PDFURL:   entry.pdfURL(paperID),
			Source:   types.SourceArxiv,
			Keywords: keywords,
		}

		var names []string
		for _, author := range entry.Authors {
			names = append(names, author.Name)
		}
		rec.Authors = joinAuthors(names)

		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			if fullDate {
				rec.PublishedDate = t.Format("2006-01-02")
			} else {
				rec.PublishedDate = strconv.Itoa(t.Year())
			}
		}

		records = append(records, rec)
	}
	return records, nil
}

// download fetches the record's PDF and writes the metadata sidecar.
// Failures leave the record usable with no local file.
func (a *Arxiv) download(ctx context.Context, rec *types.PaperRecord) {
	path, err := a.fetcher.Fetch(ctx, rec.PDFURL, rec.PaperID)
	if err != nil {
		a.logger.Warn().Str("paper_id", rec.PaperID).Err(err).Msg("PDF download failed")
		return
	}
	rec.PDFPath = path
	rec.FullTextAvailable = true
	if err := a.fetcher.WriteSidecar(*rec); err != nil {
		a.logger.Warn().Str("paper_id", rec.PaperID).Err(err).Msg("writing metadata sidecar failed")
	}
}

type citationInfo struct {
	CitationCount int    `json:"citationCount"`
	Venue         string `json:"venue"`
}

// enrichCitations looks up citation data for each record, batched so at
// most citationBatchSize requests are in flight, with a pause between
// batches to stay under the API's rate limit.
func (a *Arxiv) enrichCitations(ctx context.Context, records []types.PaperRecord) []citationInfo {
	infos := make([]citationInfo, len(records))

	for batchStart := 0; batchStart < len(records); batchStart += citationBatchSize {
		batchEnd := batchStart + citationBatchSize
		if batchEnd > len(records) {
			batchEnd = len(records)
		}

		var wg sync.WaitGroup
		for i := batchStart; i < batchEnd; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				infos[i] = a.citationData(ctx, records[i].PaperID)
			}(i)
		}
		wg.Wait()

		if batchEnd < len(records) {
			select {
			case <-ctx.Done():
				return infos
			case <-time.After(a.apiDelay):
			}
		}
	}
	return infos
}

// citationData fetches citation count and venue for one arXiv ID.
// Every failure mode degrades to zero citations and no venue.
func (a *Arxiv) citationData(ctx context.Context, paperID string) citationInfo {
	reqURL := fmt.Sprintf("%s/arXiv:%s?fields=%s", citationAPIBase, stripVersion(paperID), citationFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return citationInfo{}
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := httputil.DoWithBackoff(ctx, a.client, req, a.rateLimitDelay)
	if err != nil {
		a.logger.Warn().Str("paper_id", paperID).Err(err).Msg("citation lookup failed")
		return citationInfo{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Debug().Str("paper_id", paperID).Int("status", resp.StatusCode).Msg("citation lookup returned non-200")
		return citationInfo{}
	}

	var info citationInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		a.logger.Warn().Str("paper_id", paperID).Err(err).Msg("parsing citation response failed")
		return citationInfo{}
	}
	return info
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
}

// pdfURL returns the feed's PDF link, falling back to the conventional
// arxiv.org path when the entry does not carry one.
func (e arxivEntry) pdfURL(paperID string) string {
	for _, link := range e.Links {
		if link.Title == "pdf" {
			return link.Href
		}
	}
	return "https://arxiv.org/pdf/" + paperID
}

// entryPaperID pulls the identifier from the entry's <id> URL, keeping
// the version suffix (e.g. "http://arxiv.org/abs/2301.07041v1" yields
// "2301.07041v1").
func entryPaperID(idURL string) string {
	idx := strings.LastIndex(idURL, "/")
	if idx < 0 || idx == len(idURL)-1 {
		return ""
	}
	return idURL[idx+1:]
}

// stripVersion removes a trailing version suffix for the citation
// lookup, which wants the bare arXiv ID.
func stripVersion(id string) string {
	vIdx := strings.LastIndex(id, "v")
	if vIdx <= 0 {
		return id
	}
	if _, err := strconv.Atoi(id[vIdx+1:]); err != nil {
		return id
	}
	return id[:vIdx]
}

