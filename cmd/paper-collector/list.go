// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-collector/internal/store"
	"github.com/pdiddy/paper-collector/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored papers with filters and sorting",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	keyword, _ := cmd.Flags().GetString("keyword")
	src, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")
	sortBy, _ := cmd.Flags().GetString("sort-by")
	sortOrder, _ := cmd.Flags().GetString("sort-order")
	minCitations, _ := cmd.Flags().GetInt("min-citations")
	venue, _ := cmd.Flags().GetString("venue")
	dateFrom, _ := cmd.Flags().GetString("from")
	dateTo, _ := cmd.Flags().GetString("to")
	format, _ := cmd.Flags().GetString("format")

	opts := store.ListOptions{
		Keyword:      keyword,
		Source:       src,
		Limit:        limit,
		SortBy:       types.ParseSortField(sortBy),
		SortOrder:    types.ParseSortOrder(sortOrder),
		MinCitations: minCitations,
		Venue:        venue,
		DateFrom:     dateFrom,
		DateTo:       dateTo,
	}
	if fullTextOnly, _ := cmd.Flags().GetBool("has-fulltext"); fullTextOnly {
		hasText := true
		opts.HasFullText = &hasText
	}

	out, err := a.reporter.ListSaved(context.Background(), opts, types.ParseListFormat(format))
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

var listRangeCmd = &cobra.Command{
	Use:   "list-range",
	Short: "List stored papers published inside a date range",
	RunE:  runListRange,
}

func runListRange(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	startDate, _ := cmd.Flags().GetString("from")
	endDate, _ := cmd.Flags().GetString("to")
	keyword, _ := cmd.Flags().GetString("keyword")
	src, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")

	out, err := a.reporter.ListSavedByDate(context.Background(), startDate, endDate, keyword, src, limit)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank stored papers by citation count",
	RunE:  runRank,
}

func runRank(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	keyword, _ := cmd.Flags().GetString("keyword")
	limit, _ := cmd.Flags().GetInt("limit")

	out, err := a.reporter.RankByCitations(context.Background(), keyword, limit)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

var venuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "List stored papers grouped by venue",
	RunE:  runVenues,
}

func runVenues(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	venue, _ := cmd.Flags().GetString("venue")
	limit, _ := cmd.Flags().GetInt("limit")

	out, err := a.reporter.ByVenue(context.Background(), venue, limit)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

var topVenuesCmd = &cobra.Command{
	Use:   "top-venues",
	Short: "Show per-venue statistics, best average citations first",
	RunE:  runTopVenues,
}

func runTopVenues(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	limit, _ := cmd.Flags().GetInt("limit")

	out, err := a.reporter.TopVenues(context.Background(), limit)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func init() {
	listCmd.Flags().String("keyword", "", "filter by keyword in title, abstract, keywords, or authors")
	listCmd.Flags().String("source", "", "filter by source")
	listCmd.Flags().Int("limit", 10, "maximum papers to list")
	listCmd.Flags().String("sort-by", "date", "sort field: date, citations, or title")
	listCmd.Flags().String("sort-order", "desc", "sort direction: asc or desc")
	listCmd.Flags().Bool("has-fulltext", false, "only papers with full text available")
	listCmd.Flags().Int("min-citations", 0, "minimum citation count")
	listCmd.Flags().String("venue", "", "filter by venue (substring match)")
	listCmd.Flags().String("from", "", "published on or after (YYYY-MM-DD)")
	listCmd.Flags().String("to", "", "published on or before (YYYY-MM-DD)")
	listCmd.Flags().String("format", "detailed", "output format: detailed, compact, or csv")

	listRangeCmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	listRangeCmd.Flags().String("to", "", "end date (YYYY-MM-DD)")
	listRangeCmd.Flags().String("keyword", "", "filter by keyword")
	listRangeCmd.Flags().String("source", "", "filter by source")
	listRangeCmd.Flags().Int("limit", 10, "maximum papers to list")
	listRangeCmd.MarkFlagRequired("from")
	listRangeCmd.MarkFlagRequired("to")

	rankCmd.Flags().String("keyword", "", "filter by keyword")
	rankCmd.Flags().Int("limit", 10, "maximum papers to rank")

	venuesCmd.Flags().String("venue", "", "venue name (substring match, empty for all)")
	venuesCmd.Flags().Int("limit", 10, "maximum papers to list")

	topVenuesCmd.Flags().Int("limit", 10, "maximum venues to show")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(listRangeCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(venuesCmd)
	rootCmd.AddCommand(topVenuesCmd)
}
