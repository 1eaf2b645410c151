// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var detailsCmd = &cobra.Command{
	Use:   "details [paper-id-or-title]",
	Short: "Show everything stored about one paper",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDetails,
}

func runDetails(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	out, err := a.reporter.Details(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

var fullTextCmd = &cobra.Command{
	Use:   "full-text [paper-id-or-title]",
	Short: "Show a paper's full text, extracting it from the PDF on first access",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFullText,
}

func runFullText(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	maxLength, _ := cmd.Flags().GetInt("max-length")

	out, err := a.reporter.FullText(context.Background(), strings.Join(args, " "), maxLength)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

var searchTextCmd = &cobra.Command{
	Use:   "search-text [query]",
	Short: "Search the extracted full text of stored papers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearchText,
}

func runSearchText(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	limit, _ := cmd.Flags().GetInt("limit")

	out, err := a.reporter.SearchFullText(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func init() {
	fullTextCmd.Flags().Int("max-length", 0, "maximum characters to return (0 = default cap)")
	searchTextCmd.Flags().Int("limit", 5, "maximum matches to show")

	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(fullTextCmd)
	rootCmd.AddCommand(searchTextCmd)
}
