package types

import (
	"time"

	"github.com/google/uuid"
)

// MatchCategory buckets a match score into a coarse verdict
type MatchCategory string

// Match categories, best to worst
const (
	CategoryPerfect   MatchCategory = "perfect"
	CategoryGood      MatchCategory = "good"
	CategoryNeedsWork MatchCategory = "needs_work"
	CategoryPoor      MatchCategory = "poor"
)

// IsValid reports whether c is a recognized category
func (c MatchCategory) IsValid() bool {
	switch c {
	case CategoryPerfect, CategoryGood, CategoryNeedsWork, CategoryPoor:
		return true
	}
	return false
}

// CategoryForScore maps an adjusted score back to a category.
// Used after a plausibility correction lowers the score.
func CategoryForScore(score int) MatchCategory {
	switch {
	case score >= 80:
		return CategoryGood
	case score >= 55:
		return CategoryNeedsWork
	default:
		return CategoryPoor
	}
}

// MissingSkill records one skill the job requires at a higher level than the candidate has
type MissingSkill struct {
	Skill         string `json:"skill"`
	RequiredLevel int    `json:"required_level"`
	CurrentLevel  int    `json:"current_level"`
	Gap           int    `json:"gap"`
}

// ExperienceGap records an experience shortfall in a given area
type ExperienceGap struct {
	Area          string  `json:"area"`
	RequiredYears float64 `json:"required_years"`
	ActualYears   float64 `json:"actual_years"`
}

// Gaps aggregates the shortfalls the model reported for a match
type Gaps struct {
	MissingSkills  []MissingSkill  `json:"missing_skills"`
	ExperienceGaps []ExperienceGap `json:"experience_gaps"`
}

// MatchingResult is the structured compatibility report for one job.
// MatchScore is always within [0,100]; after validation MatchCategory
// is consistent with MatchScore.
type MatchingResult struct {
	MatchScore      int           `json:"match_score"`
	MatchCategory   MatchCategory `json:"match_category"`
	Strengths       []string      `json:"strengths"`
	Gaps            Gaps          `json:"gaps"`
	Recommendations []string      `json:"recommendations"`
	Reasoning       string        `json:"reasoning"`
}

// MatchingHistoryEntry is one immutable record of a past match attempt
type MatchingHistoryEntry struct {
	ID        uuid.UUID      `json:"id"`
	JobID     int64          `json:"job_id"`
	Result    MatchingResult `json:"result"`
	APIModel  string         `json:"api_model"`
	CreatedAt time.Time      `json:"created_at"`
}

// BatchError records one job that failed during a batch run
type BatchError struct {
	JobTitle string `json:"job_title"`
	Message  string `json:"message"`
}

// BatchSummary reports the outcome of a bulk or selected matching run
type BatchSummary struct {
	Matched int          `json:"matched"`
	Failed  int          `json:"failed"`
	Skipped int          `json:"skipped"`
	Errors  []BatchError `json:"errors"`
}
