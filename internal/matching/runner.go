package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/settings"
	"github.com/jonathan/job-matcher/internal/types"
)

const (
	// defaultBatchDelay spaces out provider calls during batch runs so a
	// long run stays under provider rate limits.
	defaultBatchDelay = 500 * time.Millisecond
	// defaultMaxTokens bounds the reply; a full report fits comfortably.
	defaultMaxTokens = 2000
)

// scoringTemperature keeps scoring output stable across runs
var scoringTemperature = 0.2

// ClientFactory builds a provider client for a resolved configuration.
// Tests substitute a factory returning a fake client.
type ClientFactory func(cfg types.ProviderConfig, apiKey string) (llm.Client, error)

// ProgressFunc receives live batch progress. It is invoked synchronously
// before each attempt with a monotonically increasing current counter.
type ProgressFunc func(current, total int, jobTitle string)

// RunnerOptions tunes a Runner. Zero values select the defaults.
type RunnerOptions struct {
	// Delay is the pause between consecutive provider calls in a batch.
	Delay time.Duration
	// MaxTokens bounds each provider reply.
	MaxTokens int
	// NewClient overrides the provider client factory.
	NewClient ClientFactory
	// Sleep overrides the batch delay sleeper.
	Sleep func(time.Duration)
}

// Runner drives matching: one job at a time, strictly sequentially.
// Batch runs isolate per-job failures and never abort mid-run. The runner
// assumes a single process and a single concurrent batch; it performs
// read-then-write per job with no cross-job transaction.
type Runner struct {
	store     Store
	resolver  *settings.Resolver
	newClient ClientFactory
	delay     time.Duration
	maxTokens int
	sleep     func(time.Duration)
}

// NewRunner creates a match runner over the given store and resolver
func NewRunner(store Store, resolver *settings.Resolver, opts RunnerOptions) *Runner {
	if opts.Delay <= 0 {
		opts.Delay = defaultBatchDelay
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.NewClient == nil {
		opts.NewClient = llm.NewClient
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &Runner{
		store:     store,
		resolver:  resolver,
		newClient: opts.NewClient,
		delay:     opts.Delay,
		maxTokens: opts.MaxTokens,
		sleep:     opts.Sleep,
	}
}

// MatchJob scores one job end to end: load profile and job, build the
// prompt, call the provider, parse and validate the reply, then persist
// one history entry and the job's cached score. Any failure aborts the
// whole job with a typed error before anything is written; the two writes
// happen only once a fully validated result exists.
func (r *Runner) MatchJob(ctx context.Context, jobID int64) (*types.MatchingResult, error) {
	job, err := r.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &JobNotFoundError{JobID: jobID}
	}
	return r.matchLoadedJob(ctx, job)
}

// matchLoadedJob runs the match pipeline for an already-loaded job, so
// callers that fetched the job themselves do not read it twice.
func (r *Runner) matchLoadedJob(ctx context.Context, job *types.Job) (*types.MatchingResult, error) {
	profile, err := r.store.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &NoProfileError{}
	}

	skills, err := r.store.GetSkills(ctx)
	if err != nil {
		return nil, err
	}
	prefs, err := r.store.GetPreferences(ctx)
	if err != nil {
		return nil, err
	}

	prompt := BuildMatchingPrompt(profile, skills, prefs, job)

	cfg, err := r.resolver.ProviderConfig(ctx)
	if err != nil {
		return nil, err
	}
	apiKey, err := r.resolver.APIKey(ctx, cfg.Provider)
	if err != nil {
		return nil, err
	}
	client, err := r.newClient(cfg, apiKey)
	if err != nil {
		return nil, err
	}

	messages := []types.AIMessage{
		{Role: types.RoleSystem, Content: SystemPrompt()},
		{Role: types.RoleUser, Content: prompt},
	}
	resp, err := client.SendPrompt(ctx, messages, llm.SendOptions{
		MaxTokens:   r.maxTokens,
		Temperature: &scoringTemperature,
	})
	if err != nil {
		return nil, err
	}

	result, err := ParseMatchingResponse(resp.Content)
	if err != nil {
		return nil, err
	}
	result = ValidateAndAdjustScore(result)

	if err := r.store.InsertMatchingResult(ctx, job.ID, result, resp.Model); err != nil {
		return nil, err
	}
	if err := r.store.UpdateJobScore(ctx, job.ID, result.MatchScore); err != nil {
		return nil, err
	}

	return result, nil
}

// BulkMatchJobs matches every eligible job sequentially. With rematchAll
// set it considers all jobs with posting text; otherwise only jobs that
// have never been scored. Per-job failures are recorded and counted but
// never stop the run; only a failing job-listing query fails the batch.
func (r *Runner) BulkMatchJobs(ctx context.Context, rematchAll bool, onProgress ProgressFunc) (*types.BatchSummary, error) {
	jobs, err := r.store.ListJobs(ctx, JobFilter{OnlyUnscored: !rematchAll})
	if err != nil {
		return nil, err
	}

	items := make([]batchJob, 0, len(jobs))
	for _, job := range jobs {
		id := job.ID
		items = append(items, batchJob{
			title: job.Title,
			match: func(ctx context.Context) (*types.MatchingResult, error) {
				return r.MatchJob(ctx, id)
			},
		})
	}

	summary := &types.BatchSummary{Errors: []types.BatchError{}}
	r.runBatch(ctx, items, summary, onProgress)
	return summary, nil
}

// MatchSelectedJobs matches an explicit set of jobs with the same
// sequential, delay-spaced, failure-isolating policy as BulkMatchJobs.
// Jobs without posting text are excluded up front and counted as skipped,
// not attempted and not errored.
func (r *Runner) MatchSelectedJobs(ctx context.Context, jobIDs []int64, onProgress ProgressFunc) (*types.BatchSummary, error) {
	summary := &types.BatchSummary{Errors: []types.BatchError{}}

	items := make([]batchJob, 0, len(jobIDs))
	for _, id := range jobIDs {
		job, err := r.store.GetJob(ctx, id)
		if err != nil {
			return nil, err
		}
		if job == nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, types.BatchError{
				JobTitle: fmt.Sprintf("job %d", id),
				Message:  (&JobNotFoundError{JobID: id}).Error(),
			})
			continue
		}
		if !job.HasText() {
			summary.Skipped++
			continue
		}
		// The prefilter already loaded the job; reuse it instead of a
		// second read per job inside the batch loop.
		loaded := job
		items = append(items, batchJob{
			title: job.Title,
			match: func(ctx context.Context) (*types.MatchingResult, error) {
				return r.matchLoadedJob(ctx, loaded)
			},
		})
	}

	r.runBatch(ctx, items, summary, onProgress)
	return summary, nil
}

// batchJob pairs a display title with the match work for one batch slot
type batchJob struct {
	title string
	match func(ctx context.Context) (*types.MatchingResult, error)
}

// runBatch is the shared sequential loop: progress callback before each
// attempt, per-job error isolation, fixed delay after every job but the last.
func (r *Runner) runBatch(ctx context.Context, jobs []batchJob, summary *types.BatchSummary, onProgress ProgressFunc) {
	total := len(jobs)
	for i, job := range jobs {
		if onProgress != nil {
			onProgress(i+1, total, job.title)
		}

		if _, err := job.match(ctx); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, types.BatchError{
				JobTitle: job.title,
				Message:  err.Error(),
			})
		} else {
			summary.Matched++
		}

		if i < total-1 {
			r.sleep(r.delay)
		}
	}
}

// UnmatchedJobCount returns how many jobs with posting text still have no
// cached score. Cheap count query, no side effects.
func (r *Runner) UnmatchedJobCount(ctx context.Context) (int, error) {
	return r.store.CountUnmatchedJobs(ctx)
}

// MatchingHistory returns all stored match attempts for a job, newest first
func (r *Runner) MatchingHistory(ctx context.Context, jobID int64) ([]types.MatchingHistoryEntry, error) {
	return r.store.GetMatchingHistory(ctx, jobID)
}
