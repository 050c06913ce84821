package main

import (
	"github.com/spf13/cobra"

	"github.com/mwrona/jobscout/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the ranked report interactively",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.registry.GenerateReport()
	if err != nil {
		return err
	}
	return tui.Browse(report)
}
