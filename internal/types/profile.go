package types

import (
	"strings"
	"time"
)

// Profile is the single user's professional profile
type Profile struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Title           string  `json:"title"`
	Summary         string  `json:"summary,omitempty"`
	YearsExperience float64 `json:"years_experience"`
	Location        string  `json:"location,omitempty"`
}

// Skill confidence levels, as stored in the profile
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Market relevance ratings for a skill
const (
	RelevanceDeclining = "declining"
	RelevanceStable    = "stable"
	RelevanceGrowing   = "growing"
)

// Skill is one entry in the user's skill inventory.
// Level is on a 0-10 scale.
type Skill struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Level           int     `json:"level"`
	YearsExperience float64 `json:"years_experience"`
	Confidence      string  `json:"confidence,omitempty"`
	MarketRelevance string  `json:"market_relevance,omitempty"`
}

// Preferences holds the user's job search preferences
type Preferences struct {
	DesiredRoles     []string `json:"desired_roles,omitempty"`
	Locations        []string `json:"locations,omitempty"`
	RemotePreference string   `json:"remote_preference,omitempty"` // remote, hybrid, onsite
	SalaryMin        int      `json:"salary_min,omitempty"`
	SalaryMax        int      `json:"salary_max,omitempty"`
	Industries       []string `json:"industries,omitempty"`
}

// Job is a stored job posting. MatchScore is a denormalized cache of the
// most recent MatchingResult score; nil means the job has never been matched.
type Job struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Company    string    `json:"company"`
	Location   string    `json:"location,omitempty"`
	Salary     string    `json:"salary,omitempty"`
	RemoteType string    `json:"remote_type,omitempty"`
	FullText   string    `json:"full_text"`
	MatchScore *int      `json:"match_score,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// HasText reports whether the job has any posting text to score against
func (j *Job) HasText() bool {
	return strings.TrimSpace(j.FullText) != ""
}

// JobSummary is a lightweight job listing row used by batch selection
type JobSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}
