package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Show how many jobs have never been matched",
	RunE:  runCount,
}

func init() {
	rootCmd.AddCommand(countCmd)
}

func runCount(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.CountUnmatchedJobs(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%d unmatched job(s)\n", count)
	return nil
}
