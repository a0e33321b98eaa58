package matching

import (
	"context"

	"github.com/jonathan/job-matcher/internal/types"
)

// JobFilter selects which jobs a bulk run considers. Only jobs with
// non-empty posting text are ever returned.
type JobFilter struct {
	// OnlyUnscored restricts the listing to jobs whose cached match score
	// is still null.
	OnlyUnscored bool
}

// Store is the result-store gateway the runner reads from and writes to.
// The runner never touches storage directly; InsertMatchingResult and
// UpdateJobScore must only be called with a fully validated result.
type Store interface {
	GetProfile(ctx context.Context) (*types.Profile, error)
	GetSkills(ctx context.Context) ([]types.Skill, error)
	GetPreferences(ctx context.Context) (*types.Preferences, error)

	GetJob(ctx context.Context, id int64) (*types.Job, error)
	// ListJobs returns job summaries ordered by creation time descending.
	ListJobs(ctx context.Context, filter JobFilter) ([]types.JobSummary, error)
	CountUnmatchedJobs(ctx context.Context) (int, error)

	InsertMatchingResult(ctx context.Context, jobID int64, result *types.MatchingResult, modelUsed string) error
	UpdateJobScore(ctx context.Context, jobID int64, score int) error
	GetMatchingHistory(ctx context.Context, jobID int64) ([]types.MatchingHistoryEntry, error)
}
