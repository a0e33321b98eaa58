package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/observability"
)

var selectedCmd = &cobra.Command{
	Use:   "selected <job-id>...",
	Short: "Match an explicit set of jobs",
	Long:  "Match the listed jobs sequentially with the same rate limiting and failure isolation as a bulk run. Jobs without posting text are skipped.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSelected,
}

var selectedDelay time.Duration

func init() {
	selectedCmd.Flags().DurationVar(&selectedDelay, "delay", 0, "Pause between provider calls (default 500ms)")

	rootCmd.AddCommand(selectedCmd)
}

func runSelected(_ *cobra.Command, args []string) error {
	jobIDs := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid job id %q", arg)
		}
		jobIDs = append(jobIDs, id)
	}

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	printer := observability.NewPrinter(os.Stdout)
	runner := buildRunner(store, selectedDelay)

	summary, err := runner.MatchSelectedJobs(ctx, jobIDs, printer.PrintProgress)
	if err != nil {
		return err
	}

	printer.PrintBatchSummary(summary)
	return nil
}
