// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-collector/internal/store"
)

// defaultMaxTextLength caps how much extracted text FullText returns.
const defaultMaxTextLength = 1000000

// searchPoolSize is how many full-text papers a substring search scans.
const searchPoolSize = 100

// FullText returns a paper's extracted text, extracting and caching it
// on first access. Text longer than maxLength is truncated with a note;
// zero or negative maxLength means the default cap.
func (r *Reporter) FullText(ctx context.Context, id string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = defaultMaxTextLength
	}

	paper, err := r.Store.GetByIDOrTitle(ctx, id)
	if err != nil {
		return "", err
	}
	if paper == nil {
		return fmt.Sprintf("No paper found with ID or title %q.", id), nil
	}
	if !paper.FullTextAvailable || paper.PDFPath == "" {
		return fmt.Sprintf("No PDF file found for paper %q.", paper.Title), nil
	}

	text := paper.FullText
	if text == "" {
		r.Logger.Info().Str("paper_id", paper.PaperID).Str("path", paper.PDFPath).Msg("extracting PDF text")
		text, err = r.Extract(paper.PDFPath, r.MaxPDFPages, r.Logger)
		if err != nil || text == "" {
			if err != nil {
				r.Logger.Warn().Str("paper_id", paper.PaperID).Err(err).Msg("PDF extraction failed")
			}
			return fmt.Sprintf("Could not extract text from the PDF for paper %q.", paper.Title), nil
		}
		if err := r.Store.SaveFullText(ctx, paper.PaperID, text); err != nil {
			return "", err
		}
	}

	if total := len(text); total > maxLength {
		text = text[:maxLength] + fmt.Sprintf("\n\n... (truncated; full text is %d characters)", total)
	}

	return fmt.Sprintf("Title: %s\nAuthors: %s\n\nFull text:\n%s", paper.Title, paper.Authors, text), nil
}

// SearchFullText scans the full text of stored papers for a substring,
// case-insensitively, returning up to limit matches with surrounding
// context. Papers whose text has not been extracted yet are extracted
// on the way through.
func (r *Reporter) SearchFullText(ctx context.Context, query string, limit int) (string, error) {
	if limit <= 0 {
		limit = 5
	}

	hasText := true
	papers, err := r.Store.List(ctx, store.ListOptions{Limit: searchPoolSize, HasFullText: &hasText})
	if err != nil {
		return "", err
	}
	if len(papers) == 0 {
		return "No papers with full text available.", nil
	}

	type match struct {
		paperID, title, authors, context string
	}
	var matches []match
	lowerQuery := strings.ToLower(query)

	for _, paper := range papers {
		text := paper.FullText
		if text == "" && paper.PDFPath != "" {
			extracted, err := r.Extract(paper.PDFPath, r.MaxPDFPages, r.Logger)
			if err != nil || extracted == "" {
				continue
			}
			if err := r.Store.SaveFullText(ctx, paper.PaperID, extracted); err != nil {
				return "", err
			}
			text = extracted
		}

		index := strings.Index(strings.ToLower(text), lowerQuery)
		if index < 0 {
			continue
		}

		matches = append(matches, match{
			paperID: paper.PaperID,
			title:   paper.Title,
			authors: paper.Authors,
			context: surroundingContext(text, index, len(query)),
		})
		if len(matches) >= limit {
			break
		}
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No papers containing %q were found.", query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Papers containing %q: %d\n\n", query, len(matches))
	for i, m := range matches {
		fmt.Fprintf(&b, "%d. Title: %s\n", i+1, m.title)
		fmt.Fprintf(&b, "   Authors: %s\n", m.authors)
		fmt.Fprintf(&b, "   Context: %s\n", m.context)
		fmt.Fprintf(&b, "   (Paper ID: %s)\n\n", m.paperID)
	}
	return b.String(), nil
}

// surroundingContext cuts out up to 100 bytes either side of the match,
// flattening newlines and marking elided text with ellipses.
func surroundingContext(text string, index, matchLen int) string {
	start := index - 100
	if start < 0 {
		start = 0
	}
	end := index + matchLen + 100
	if end > len(text) {
		end = len(text)
	}

	context := strings.ReplaceAll(text[start:end], "\n", " ")
	if start > 0 {
		context = "..." + context
	}
	if end < len(text) {
		context = context + "..."
	}
	return context
}
