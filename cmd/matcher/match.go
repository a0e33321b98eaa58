package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/observability"
)

var matchCmd = &cobra.Command{
	Use:   "match <job-id>",
	Short: "Score one stored job posting against your profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

func runMatch(_ *cobra.Command, args []string) error {
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

	runner := buildRunner(store, 0)
	result, err := runner.MatchJob(ctx, jobID)
	if err != nil {
		return describeMatchError(err)
	}

	job, err := store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintMatchingResult(job, result)
	return nil
}

// describeMatchError attaches a next step to the common typed failures so
// a single-match failure is immediately actionable
func describeMatchError(err error) error {
	var noProfile *matching.NoProfileError
	if errors.As(err, &noProfile) {
		return fmt.Errorf("%w (create your profile first)", err)
	}
	if llm.IsKind(err, llm.KindMissingCredential) {
		return fmt.Errorf("%w (save a key with: matcher config set-key)", err)
	}
	if llm.IsKind(err, llm.KindInvalidKey) {
		return fmt.Errorf("%w (check the saved key with: matcher test-connection)", err)
	}
	return err
}
