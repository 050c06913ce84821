package main

import (
	"context"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the ranked report",
	Long:  "Aggregate scored postings into a ranked per-company report and hand it to the configured sinks.",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	return a.reportRunner().Serve(context.Background())
}
