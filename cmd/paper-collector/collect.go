// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-collector/pkg/types"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Search the paper sources and save results locally",
	Long: `Collect searches arXiv and/or Semantic Scholar, downloads PDFs where
available, and upserts the results into the local database. Re-collected
papers keep their original collection date and any extracted text.`,
}

var collectSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Keyword search across the selected sources",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCollectSearch,
}

func runCollectSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	sel, limit := collectFlags(cmd)
	summary, err := a.collector.Search(context.Background(), strings.Join(args, " "), sel, limit)
	if err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}

var collectCitationsCmd = &cobra.Command{
	Use:   "citations [query]",
	Short: "Citation-aware search with a minimum-citations filter",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCollectCitations,
}

func runCollectCitations(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	sel, limit := collectFlags(cmd)
	minCitations, _ := cmd.Flags().GetInt("min-citations")
	sortBy, _ := cmd.Flags().GetString("sort-by")

	summary, err := a.collector.SearchByCitations(context.Background(),
		strings.Join(args, " "), minCitations, sel, limit, types.ParseSortMode(sortBy))
	if err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}

var collectRangeCmd = &cobra.Command{
	Use:   "range [query]",
	Short: "Search for papers published inside a date range",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCollectRange,
}

func runCollectRange(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	sel, limit := collectFlags(cmd)
	startDate, _ := cmd.Flags().GetString("from")
	endDate, _ := cmd.Flags().GetString("to")

	summary, err := a.collector.SearchByDateRange(context.Background(),
		strings.Join(args, " "), startDate, endDate, sel, limit)
	if err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}

func collectFlags(cmd *cobra.Command) (types.SourceSelector, int) {
	src, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")
	return types.ParseSourceSelector(src), limit
}

func init() {
	collectCmd.PersistentFlags().String("source", "both", "paper source: arxiv, semantic_scholar, or both")
	collectCmd.PersistentFlags().Int("limit", 5, "maximum papers per source")

	collectCitationsCmd.Flags().Int("min-citations", 0, "minimum citation count")
	collectCitationsCmd.Flags().String("sort-by", "citations", "result order: relevance, citations, or recency")

	collectRangeCmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	collectRangeCmd.Flags().String("to", "", "end date (YYYY-MM-DD)")
	collectRangeCmd.MarkFlagRequired("from")
	collectRangeCmd.MarkFlagRequired("to")

	collectCmd.AddCommand(collectSearchCmd)
	collectCmd.AddCommand(collectCitationsCmd)
	collectCmd.AddCommand(collectRangeCmd)

	rootCmd.AddCommand(collectCmd)
}
