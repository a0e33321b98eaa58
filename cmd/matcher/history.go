package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/observability"
	"github.com/jonathan/job-matcher/internal/schemas"
)

var historyCmd = &cobra.Command{
	Use:   "history <job-id>",
	Short: "Show all stored match attempts for a job, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

var historyValidate bool

func init() {
	historyCmd.Flags().BoolVar(&historyValidate, "validate", false, "Check each stored result against the response schema")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, args []string) error {
	jobID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid job id %q", args[0])
	}

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.GetMatchingHistory(ctx, jobID)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintHistory(entries)

	if historyValidate {
		for _, entry := range entries {
			resultJSON, err := json.Marshal(entry.Result)
			if err != nil {
				return err
			}
			if err := schemas.ValidateReply(string(resultJSON)); err != nil {
				fmt.Fprintf(os.Stdout, "\nentry %s:\n%v", entry.ID, err)
			}
		}
	}

	return nil
}
