package matching

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/settings"
	"github.com/jonathan/job-matcher/internal/types"
)

// fakeSettingsStore is an in-memory settings.Store
type fakeSettingsStore struct {
	settings map[string]string
	keys     map[string]string
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{
		settings: map[string]string{},
		keys:     map[string]string{"anthropic": "test-key"},
	}
}

func (s *fakeSettingsStore) GetSetting(_ context.Context, key string) (string, error) {
	return s.settings[key], nil
}

func (s *fakeSettingsStore) SetSetting(_ context.Context, key, value string) error {
	s.settings[key] = value
	return nil
}

func (s *fakeSettingsStore) GetAPIKey(_ context.Context, provider string) (string, error) {
	return s.keys[provider], nil
}

func (s *fakeSettingsStore) SaveAPIKey(_ context.Context, provider, key string) error {
	s.keys[provider] = key
	return nil
}

// insertedRow records one InsertMatchingResult call
type insertedRow struct {
	result *types.MatchingResult
	model  string
}

// fakeStore is an in-memory matching.Store
type fakeStore struct {
	profile    *types.Profile
	skills     []types.Skill
	prefs      *types.Preferences
	jobs       map[int64]*types.Job
	jobReads   map[int64]int
	summaries  []types.JobSummary
	listErr    error
	lastFilter JobFilter
	inserted   map[int64][]insertedRow
	scores     map[int64]int
	history    map[int64][]types.MatchingHistoryEntry
	unmatched  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profile: &types.Profile{Name: "Jane Doe", Title: "Backend Engineer", YearsExperience: 7},
		skills: []types.Skill{
			{Name: "Python", Category: "Languages", Level: 3, YearsExperience: 2},
		},
		jobs:     map[int64]*types.Job{},
		jobReads: map[int64]int{},
		inserted: map[int64][]insertedRow{},
		scores:   map[int64]int{},
		history:  map[int64][]types.MatchingHistoryEntry{},
	}
}

func (s *fakeStore) GetProfile(context.Context) (*types.Profile, error)        { return s.profile, nil }
func (s *fakeStore) GetSkills(context.Context) ([]types.Skill, error)          { return s.skills, nil }
func (s *fakeStore) GetPreferences(context.Context) (*types.Preferences, error) { return s.prefs, nil }

func (s *fakeStore) GetJob(_ context.Context, id int64) (*types.Job, error) {
	s.jobReads[id]++
	return s.jobs[id], nil
}

func (s *fakeStore) ListJobs(_ context.Context, filter JobFilter) ([]types.JobSummary, error) {
	s.lastFilter = filter
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.summaries, nil
}

func (s *fakeStore) CountUnmatchedJobs(context.Context) (int, error) {
	return s.unmatched, nil
}

func (s *fakeStore) InsertMatchingResult(_ context.Context, jobID int64, result *types.MatchingResult, modelUsed string) error {
	s.inserted[jobID] = append(s.inserted[jobID], insertedRow{result: result, model: modelUsed})
	return nil
}

func (s *fakeStore) UpdateJobScore(_ context.Context, jobID int64, score int) error {
	s.scores[jobID] = score
	return nil
}

func (s *fakeStore) GetMatchingHistory(_ context.Context, jobID int64) ([]types.MatchingHistoryEntry, error) {
	return s.history[jobID], nil
}

// fakeClient is an llm.Client that replays canned replies
type fakeClient struct {
	respond func(call int) (string, error)
	calls   int
}

func (c *fakeClient) SendPrompt(_ context.Context, _ []types.AIMessage, _ llm.SendOptions) (*types.AIResponse, error) {
	c.calls++
	content, err := c.respond(c.calls)
	if err != nil {
		return nil, err
	}
	return &types.AIResponse{
		Content:  content,
		Model:    "fake-model",
		Provider: types.ProviderAnthropic,
	}, nil
}

func (c *fakeClient) Provider() types.Provider { return types.ProviderAnthropic }

const cleanReply = `{
	"match_score": 70,
	"match_category": "good",
	"strengths": ["Relevant stack"],
	"gaps": {"missing_skills": [], "experience_gaps": []},
	"recommendations": [],
	"reasoning": "Good overlap."
}`

// gapReply reports a high score despite a severe level gap, so the
// validator has to cap it.
const gapReply = `{
	"match_score": 90,
	"match_category": "perfect",
	"strengths": ["Knows Python"],
	"gaps": {
		"missing_skills": [
			{"skill": "Python", "required_level": 8, "current_level": 3, "gap": 5}
		],
		"experience_gaps": []
	},
	"recommendations": [],
	"reasoning": "Strong match."
}`

func newTestRunner(store *fakeStore, client *fakeClient, sleeps *[]time.Duration) *Runner {
	resolver := settings.NewResolver(newFakeSettingsStore())
	opts := RunnerOptions{
		NewClient: func(types.ProviderConfig, string) (llm.Client, error) { return client, nil },
	}
	if sleeps != nil {
		opts.Sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	} else {
		opts.Sleep = func(time.Duration) {}
	}
	return NewRunner(store, resolver, opts)
}

func TestMatchJob_Success(t *testing.T) {
	store := newFakeStore()
	store.jobs[1] = &types.Job{ID: 1, Title: "Go Developer", Company: "Acme", FullText: "Go role"}
	client := &fakeClient{respond: func(int) (string, error) { return cleanReply, nil }}
	runner := newTestRunner(store, client, nil)

	result, err := runner.MatchJob(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 70, result.MatchScore)
	assert.Equal(t, types.CategoryGood, result.MatchCategory)

	require.Len(t, store.inserted[1], 1)
	assert.Equal(t, "fake-model", store.inserted[1][0].model)
	assert.Equal(t, 70, store.scores[1])
}

// A reported 90 with the profile's Python at 3/10 against a required 8/10
// (fulfillment 0.375) must come back capped at 65 and needs_work.
func TestMatchJob_ValidatorCapsImplausibleScore(t *testing.T) {
	store := newFakeStore()
	store.jobs[1] = &types.Job{ID: 1, Title: "Python Developer", Company: "Acme", FullText: "Python role"}
	client := &fakeClient{respond: func(int) (string, error) { return gapReply, nil }}
	runner := newTestRunner(store, client, nil)

	result, err := runner.MatchJob(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 65, result.MatchScore)
	assert.Equal(t, types.CategoryNeedsWork, result.MatchCategory)
	assert.Contains(t, result.Reasoning, "score_adjusted")

	// The capped result is what gets persisted.
	require.Len(t, store.inserted[1], 1)
	assert.Equal(t, 65, store.inserted[1][0].result.MatchScore)
	assert.Equal(t, 65, store.scores[1])
}

func TestMatchJob_NoProfile(t *testing.T) {
	store := newFakeStore()
	store.profile = nil
	store.jobs[1] = &types.Job{ID: 1, Title: "Go Developer", FullText: "text"}
	client := &fakeClient{respond: func(int) (string, error) { return cleanReply, nil }}
	runner := newTestRunner(store, client, nil)

	_, err := runner.MatchJob(context.Background(), 1)

	var noProfile *NoProfileError
	require.ErrorAs(t, err, &noProfile)
	assert.Zero(t, client.calls)
	assert.Empty(t, store.inserted)
}

func TestMatchJob_JobNotFound(t *testing.T) {
	store := newFakeStore()
	client := &fakeClient{respond: func(int) (string, error) { return cleanReply, nil }}
	runner := newTestRunner(store, client, nil)

	_, err := runner.MatchJob(context.Background(), 42)

	var notFound *JobNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(42), notFound.JobID)
	assert.Zero(t, client.calls)
}

func TestMatchJob_ProviderErrorNoPartialWrites(t *testing.T) {
	store := newFakeStore()
	store.jobs[1] = &types.Job{ID: 1, Title: "Go Developer", FullText: "text"}
	client := &fakeClient{respond: func(int) (string, error) {
		return "", &llm.ProviderError{Kind: llm.KindTimeout, Provider: types.ProviderAnthropic, Message: "request timed out"}
	}}
	runner := newTestRunner(store, client, nil)

	_, err := runner.MatchJob(context.Background(), 1)

	assert.True(t, llm.IsKind(err, llm.KindTimeout))
	assert.Empty(t, store.inserted)
	assert.Empty(t, store.scores)
}

func TestMatchJob_UnparsableReplyNoPartialWrites(t *testing.T) {
	store := newFakeStore()
	store.jobs[1] = &types.Job{ID: 1, Title: "Go Developer", FullText: "text"}
	client := &fakeClient{respond: func(int) (string, error) { return "I refuse to answer in JSON.", nil }}
	runner := newTestRunner(store, client, nil)

	_, err := runner.MatchJob(context.Background(), 1)

	var unparsable *UnparsableResponseError
	require.ErrorAs(t, err, &unparsable)
	assert.Empty(t, store.inserted)
	assert.Empty(t, store.scores)
}

// With no stored key, the default client factory must fail with
// MissingCredential before any network traffic.
func TestMatchJob_MissingCredential(t *testing.T) {
	store := newFakeStore()
	store.jobs[1] = &types.Job{ID: 1, Title: "Go Developer", FullText: "text"}

	settingsStore := newFakeSettingsStore()
	settingsStore.keys = map[string]string{}
	resolver := settings.NewResolver(settingsStore)
	runner := NewRunner(store, resolver, RunnerOptions{Sleep: func(time.Duration) {}})

	_, err := runner.MatchJob(context.Background(), 1)

	assert.True(t, llm.IsKind(err, llm.KindMissingCredential))
	assert.Empty(t, store.inserted)
}

func TestBulkMatchJobs_FailureIsolation(t *testing.T) {
	store := newFakeStore()
	store.jobs[1] = &types.Job{ID: 1, Title: "Job One", FullText: "text one"}
	store.jobs[2] = &types.Job{ID: 2, Title: "Job Two", FullText: "text two"}
	store.jobs[3] = &types.Job{ID: 3, Title: "Job Three", FullText: "text three"}
	store.summaries = []types.JobSummary{
		{ID: 1, Title: "Job One"}, {ID: 2, Title: "Job Two"}, {ID: 3, Title: "Job Three"},
	}

	client := &fakeClient{respond: func(call int) (string, error) {
		if call == 2 {
			return "", &llm.ProviderError{Kind: llm.KindTimeout, Provider: types.ProviderAnthropic, Message: "request timed out"}
		}
		return cleanReply, nil
	}}

	var sleeps []time.Duration
	runner := newTestRunner(store, client, &sleeps)

	type progressCall struct {
		current, total int
		title          string
	}
	var progress []progressCall

	summary, err := runner.BulkMatchJobs(context.Background(), false, func(current, total int, title string) {
		progress = append(progress, progressCall{current, total, title})
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Matched)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "Job Two", summary.Errors[0].JobTitle)
	assert.Contains(t, summary.Errors[0].Message, "timed out")

	// Jobs 1 and 3 each have a persisted history entry; job 2 has none.
	assert.Len(t, store.inserted[1], 1)
	assert.Empty(t, store.inserted[2])
	assert.Len(t, store.inserted[3], 1)

	// Progress is monotonically increasing, one call per job, before each attempt.
	assert.Equal(t, []progressCall{
		{1, 3, "Job One"}, {2, 3, "Job Two"}, {3, 3, "Job Three"},
	}, progress)

	// Delay after every job except the last.
	assert.Len(t, sleeps, 2)
	for _, d := range sleeps {
		assert.Equal(t, defaultBatchDelay, d)
	}
}

func TestBulkMatchJobs_FilterSelection(t *testing.T) {
	store := newFakeStore()
	client := &fakeClient{respond: func(int) (string, error) { return cleanReply, nil }}
	runner := newTestRunner(store, client, nil)

	_, err := runner.BulkMatchJobs(context.Background(), false, nil)
	require.NoError(t, err)
	assert.True(t, store.lastFilter.OnlyUnscored)

	_, err = runner.BulkMatchJobs(context.Background(), true, nil)
	require.NoError(t, err)
	assert.False(t, store.lastFilter.OnlyUnscored)
}

func TestBulkMatchJobs_ListErrorFailsBatch(t *testing.T) {
	store := newFakeStore()
	store.listErr = fmt.Errorf("connection refused")
	client := &fakeClient{respond: func(int) (string, error) { return cleanReply, nil }}
	runner := newTestRunner(store, client, nil)

	_, err := runner.BulkMatchJobs(context.Background(), false, nil)
	assert.Error(t, err)
}

func TestMatchSelectedJobs_SkipsJobsWithoutText(t *testing.T) {
	store := newFakeStore()
	store.jobs[1] = &types.Job{ID: 1, Title: "Job One", FullText: "text one"}
	store.jobs[2] = &types.Job{ID: 2, Title: "Job Two", FullText: ""}
	store.jobs[3] = &types.Job{ID: 3, Title: "Job Three", FullText: "text three"}

	client := &fakeClient{respond: func(int) (string, error) { return cleanReply, nil }}
	runner := newTestRunner(store, client, nil)

	summary, err := runner.MatchSelectedJobs(context.Background(), []int64{1, 2, 3}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Matched)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, summary.Errors)

	// The skipped job was never attempted.
	assert.Equal(t, 2, client.calls)
	assert.Empty(t, store.inserted[2])
}

// The prefilter load is reused by the match itself: one read per selected job.
func TestMatchSelectedJobs_ReadsEachJobOnce(t *testing.T) {
	store := newFakeStore()
	store.jobs[1] = &types.Job{ID: 1, Title: "Job One", FullText: "text one"}
	store.jobs[2] = &types.Job{ID: 2, Title: "Job Two", FullText: "text two"}

	client := &fakeClient{respond: func(int) (string, error) { return cleanReply, nil }}
	runner := newTestRunner(store, client, nil)

	summary, err := runner.MatchSelectedJobs(context.Background(), []int64{1, 2}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Matched)
	assert.Equal(t, 1, store.jobReads[1])
	assert.Equal(t, 1, store.jobReads[2])
}

func TestMatchSelectedJobs_MissingJobRecordedAsError(t *testing.T) {
	store := newFakeStore()
	store.jobs[1] = &types.Job{ID: 1, Title: "Job One", FullText: "text one"}

	client := &fakeClient{respond: func(int) (string, error) { return cleanReply, nil }}
	runner := newTestRunner(store, client, nil)

	summary, err := runner.MatchSelectedJobs(context.Background(), []int64{1, 99}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0].Message, "job not found")
}

func TestUnmatchedJobCount(t *testing.T) {
	store := newFakeStore()
	store.unmatched = 4
	client := &fakeClient{respond: func(int) (string, error) { return cleanReply, nil }}
	runner := newTestRunner(store, client, nil)

	count, err := runner.UnmatchedJobCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestMatchingHistory_Passthrough(t *testing.T) {
	store := newFakeStore()
	store.history[7] = []types.MatchingHistoryEntry{
		{JobID: 7, APIModel: "fake-model", Result: types.MatchingResult{MatchScore: 61}},
	}
	client := &fakeClient{respond: func(int) (string, error) { return cleanReply, nil }}
	runner := newTestRunner(store, client, nil)

	entries, err := runner.MatchingHistory(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 61, entries[0].Result.MatchScore)
}
