// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-collector/internal/httputil"
	"github.com/pdiddy/paper-collector/pkg/types"
)

func newSemanticClient(t *testing.T, handler http.HandlerFunc, apiKey string) *SemanticScholar {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	t.Cleanup(func() { semanticAPIBase = old })

	cfg := testCfg(t)
	cfg.SemanticScholarAPIKey = apiKey
	return NewSemanticScholar(cfg, testClient(), testFetcher(t, cfg), zerolog.Nop())
}

func semanticPaperJSON(id string, citations int, abstract, pdfURL string) string {
	pdf := "null"
	if pdfURL != "" {
		pdf = fmt.Sprintf(`{"url":%q}`, pdfURL)
	}
	return fmt.Sprintf(`{
		"paperId": %q,
		"title": "Paper %s",
		"abstract": %q,
		"url": "https://www.semanticscholar.org/paper/%s",
		"year": 2021,
		"venue": "ICML",
		"citationCount": %d,
		"authors": [{"authorId":"1","name":"Ada Lovelace"}],
		"openAccessPdf": %s
	}`, id, id, abstract, id, citations, pdf)
}

func TestSemanticSearchParsesAndFilters(t *testing.T) {
	pdfServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("%PDF-1.5"))
	}))
	defer pdfServer.Close()

	papers := strings.Join([]string{
		semanticPaperJSON("aaa", 200, "A real abstract.", pdfServer.URL),
		semanticPaperJSON("no-abstract", 500, "", ""),
		semanticPaperJSON("low-citations", 2, "Another abstract.", ""),
	}, ",")

	s := newSemanticClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"total":3,"offset":0,"data":[%s]}`, papers)
	}, "")

	results, err := s.Search(context.Background(), "machine learning", SearchOptions{Limit: 5, MinCitations: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1 (missing abstract and low citations dropped)", len(results))
	}

	rec := results[0]
	if rec.PaperID != "aaa" {
		t.Errorf("PaperID = %q", rec.PaperID)
	}
	if rec.Source != types.SourceSemanticScholar {
		t.Errorf("Source = %q", rec.Source)
	}
	if rec.PublishedDate != "2021" {
		t.Errorf("PublishedDate = %q, want year string", rec.PublishedDate)
	}
	if rec.Authors != "Ada Lovelace" {
		t.Errorf("Authors = %q", rec.Authors)
	}
	if rec.Venue != "ICML" || rec.CitationCount != 200 {
		t.Errorf("venue/citations = %q/%d", rec.Venue, rec.CitationCount)
	}
	if rec.Keywords != "machine learning" {
		t.Errorf("Keywords = %q", rec.Keywords)
	}
	if !rec.FullTextAvailable || rec.PDFPath == "" {
		t.Errorf("open-access PDF not downloaded: available=%v path=%q", rec.FullTextAvailable, rec.PDFPath)
	}
}

func TestSemanticSearchMetadataOnlyWithoutPDF(t *testing.T) {
	s := newSemanticClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"total":1,"offset":0,"data":[%s]}`,
			semanticPaperJSON("aaa", 10, "An abstract.", ""))
	}, "")

	results, err := s.Search(context.Background(), "test", SearchOptions{Limit: 5})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].FullTextAvailable || results[0].PDFPath != "" {
		t.Errorf("record without open-access PDF must be metadata-only")
	}
}

func TestSemanticSearchRequestParams(t *testing.T) {
	var captured *http.Request
	s := newSemanticClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total":0,"offset":0,"data":[]}`)
	}, "secret-key")

	_, err := s.Search(context.Background(), "attention", SearchOptions{Limit: 7})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	q := captured.URL.Query()
	if got := q.Get("query"); got != "attention" {
		t.Errorf("query = %q", got)
	}
	if got := q.Get("limit"); got != "14" {
		t.Errorf("limit = %q, want twice the requested limit", got)
	}
	for _, f := range []string{"title", "abstract", "openAccessPdf", "citationCount", "venue"} {
		if !strings.Contains(q.Get("fields"), f) {
			t.Errorf("fields %q missing %q", q.Get("fields"), f)
		}
	}
	if got := captured.Header.Get("x-api-key"); got != "secret-key" {
		t.Errorf("x-api-key = %q", got)
	}
}

func TestSemanticSearchByDateWalksYears(t *testing.T) {
	var years []string
	s := newSemanticClient(t, func(w http.ResponseWriter, r *http.Request) {
		year := r.URL.Query().Get("year")
		years = append(years, year)
		w.Header().Set("Content-Type", "application/json")

		var paper string
		switch year {
		case "2020":
			paper = semanticPaperJSON("p2020", 50, "From 2020.", "")
		case "2021":
			paper = semanticPaperJSON("p2021", 500, "From 2021.", "")
		}
		fmt.Fprintf(w, `{"total":1,"offset":0,"data":[%s]}`, paper)
	}, "")

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC)

	results, err := s.SearchByDate(context.Background(), "test", start, end, 4)
	if err != nil {
		t.Fatalf("SearchByDate: %v", err)
	}

	if len(years) != 2 || years[0] != "2020" || years[1] != "2021" {
		t.Errorf("year params = %v, want [2020 2021]", years)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].PaperID != "p2021" {
		t.Errorf("results[0] = %q, want most-cited first", results[0].PaperID)
	}
}

func TestSemanticSearchByDateSkipsFailedYears(t *testing.T) {
	s := newSemanticClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("year") == "2020" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"total":1,"offset":0,"data":[%s]}`,
			semanticPaperJSON("p2021", 10, "From 2021.", ""))
	}, "")

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC)

	results, err := s.SearchByDate(context.Background(), "test", start, end, 4)
	if err != nil {
		t.Fatalf("SearchByDate: %v", err)
	}
	if len(results) != 1 || results[0].PaperID != "p2021" {
		t.Errorf("results = %v, want the surviving year only", results)
	}
}

func TestSemanticSearchRateLimited(t *testing.T) {
	s := newSemanticClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, "")

	_, err := s.Search(context.Background(), "test", SearchOptions{Limit: 5})
	if !errors.Is(err, httputil.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestSemanticSearchCitationsSort(t *testing.T) {
	papers := strings.Join([]string{
		semanticPaperJSON("low", 5, "A.", ""),
		semanticPaperJSON("high", 500, "B.", ""),
	}, ",")

	s := newSemanticClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"total":2,"offset":0,"data":[%s]}`, papers)
	}, "")

	results, err := s.Search(context.Background(), "test",
		SearchOptions{Limit: 5, SortBy: types.SortModeCitations})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 || results[0].PaperID != "high" {
		t.Errorf("results not sorted by citations: %v", results)
	}
}
