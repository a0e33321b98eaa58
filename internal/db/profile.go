package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-matcher/internal/types"
)

// GetProfile retrieves the user's profile, or nil when none exists yet.
// The application is single-user, so at most one row is expected.
func (db *DB) GetProfile(ctx context.Context) (*types.Profile, error) {
	var p types.Profile
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, title, COALESCE(summary, ''), years_experience, COALESCE(location, '')
		 FROM profile ORDER BY id LIMIT 1`,
	).Scan(&p.ID, &p.Name, &p.Title, &p.Summary, &p.YearsExperience, &p.Location)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// GetSkills retrieves the full skill inventory ordered by category and name
func (db *DB) GetSkills(ctx context.Context) ([]types.Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, COALESCE(category, ''), level, years_experience,
		        COALESCE(confidence, ''), COALESCE(market_relevance, '')
		 FROM skills ORDER BY category, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	var skills []types.Skill
	for rows.Next() {
		var s types.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Level, &s.YearsExperience,
			&s.Confidence, &s.MarketRelevance); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// GetPreferences retrieves the user's job search preferences, or nil when
// none are saved
func (db *DB) GetPreferences(ctx context.Context) (*types.Preferences, error) {
	var p types.Preferences
	err := db.pool.QueryRow(ctx,
		`SELECT COALESCE(desired_roles, '{}'), COALESCE(locations, '{}'),
		        COALESCE(remote_preference, ''), COALESCE(salary_min, 0),
		        COALESCE(salary_max, 0), COALESCE(industries, '{}')
		 FROM preferences ORDER BY id LIMIT 1`,
	).Scan(&p.DesiredRoles, &p.Locations, &p.RemotePreference, &p.SalaryMin, &p.SalaryMax, &p.Industries)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &p, nil
}
