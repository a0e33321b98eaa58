package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/job-matcher/internal/db"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/settings"
)

// openStore connects to the database named by DATABASE_URL
func openStore(ctx context.Context) (*db.DB, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return db.Connect(ctx, databaseURL)
}

// buildRunner wires the match runner over a connected store
func buildRunner(store *db.DB, delay time.Duration) *matching.Runner {
	resolver := settings.NewResolver(store)
	return matching.NewRunner(store, resolver, matching.RunnerOptions{Delay: delay})
}
