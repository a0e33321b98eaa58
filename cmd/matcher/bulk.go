package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/observability"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Match every eligible job sequentially",
	Long:  "Match all jobs that have posting text. By default only jobs that were never scored are considered; --rematch-all rescores everything.",
	RunE:  runBulk,
}

var (
	bulkRematchAll bool
	bulkDelay      time.Duration
)

func init() {
	bulkCmd.Flags().BoolVar(&bulkRematchAll, "rematch-all", false, "Rescore jobs that already have a cached score")
	bulkCmd.Flags().DurationVar(&bulkDelay, "delay", 0, "Pause between provider calls (default 500ms)")

	rootCmd.AddCommand(bulkCmd)
}

func runBulk(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	printer := observability.NewPrinter(os.Stdout)
	runner := buildRunner(store, bulkDelay)

	summary, err := runner.BulkMatchJobs(ctx, bulkRematchAll, printer.PrintProgress)
	if err != nil {
		return err
	}

	printer.PrintBatchSummary(summary)
	return nil
}
