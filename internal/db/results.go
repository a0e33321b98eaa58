package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/job-matcher/internal/types"
)

// InsertMatchingResult appends one history entry for a job. History rows
// are append-only; they are removed only by the cascading delete of their
// job, which is owned by the schema, not this code.
func (db *DB) InsertMatchingResult(ctx context.Context, jobID int64, result *types.MatchingResult, modelUsed string) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal matching result: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO matching_results (job_id, result, api_model)
		 VALUES ($1, $2, $3)`,
		jobID, resultJSON, modelUsed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert matching result: %w", err)
	}
	return nil
}

// GetMatchingHistory returns all match attempts for a job, newest first,
// each deserialized back into a MatchingResult plus metadata
func (db *DB) GetMatchingHistory(ctx context.Context, jobID int64) ([]types.MatchingHistoryEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_id, result, api_model, created_at
		 FROM matching_results WHERE job_id = $1 ORDER BY created_at DESC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get matching history: %w", err)
	}
	defer rows.Close()

	var entries []types.MatchingHistoryEntry
	for rows.Next() {
		var entry types.MatchingHistoryEntry
		var resultJSON []byte
		if err := rows.Scan(&entry.ID, &entry.JobID, &resultJSON, &entry.APIModel, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if err := json.Unmarshal(resultJSON, &entry.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history entry %s: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
