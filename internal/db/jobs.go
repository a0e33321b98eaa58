package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/types"
)

// GetJob retrieves a job posting by ID, or nil when it does not exist
func (db *DB) GetJob(ctx context.Context, id int64) (*types.Job, error) {
	var j types.Job
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, company, COALESCE(location, ''), COALESCE(salary, ''),
		        COALESCE(remote_type, ''), COALESCE(full_text, ''), match_score, created_at
		 FROM jobs WHERE id = $1`,
		id,
	).Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Salary,
		&j.RemoteType, &j.FullText, &j.MatchScore, &j.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &j, nil
}

// ListJobs returns job summaries for batch selection, newest first.
// Jobs without posting text are never listed; with OnlyUnscored set, jobs
// that already carry a cached score are excluded too.
func (db *DB) ListJobs(ctx context.Context, filter matching.JobFilter) ([]types.JobSummary, error) {
	query := `SELECT id, title FROM jobs WHERE full_text IS NOT NULL AND full_text <> ''`
	if filter.OnlyUnscored {
		query += ` AND match_score IS NULL`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.JobSummary
	for rows.Next() {
		var j types.JobSummary
		if err := rows.Scan(&j.ID, &j.Title); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// CountUnmatchedJobs returns how many jobs with posting text have no cached score
func (db *DB) CountUnmatchedJobs(ctx context.Context) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobs
		 WHERE full_text IS NOT NULL AND full_text <> '' AND match_score IS NULL`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unmatched jobs: %w", err)
	}
	return count, nil
}

// UpdateJobScore writes the denormalized latest-score cache on the job row
func (db *DB) UpdateJobScore(ctx context.Context, jobID int64, score int) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE jobs SET match_score = $1, updated_at = NOW() WHERE id = $2`,
		score, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job score: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %d", jobID)
	}
	return nil
}
