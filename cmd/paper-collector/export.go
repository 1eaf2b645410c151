// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export paper summaries to a JSON or CSV file",
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	format, _ := cmd.Flags().GetString("format")

	out, err := a.reporter.Export(context.Background(), format)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func init() {
	exportCmd.Flags().String("format", "json", "export format: json or csv")

	rootCmd.AddCommand(exportCmd)
}
