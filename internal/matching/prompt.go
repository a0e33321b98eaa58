// Package matching implements the AI-assisted matching core: deterministic
// prompt construction, defensive response parsing, plausibility validation,
// and the single/bulk/selected match runner.
package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/job-matcher/internal/prompts"
	"github.com/jonathan/job-matcher/internal/types"
)

// confidenceLabels translates stored confidence values into prompt wording
var confidenceLabels = map[string]string{
	types.ConfidenceLow:    "low confidence",
	types.ConfidenceMedium: "moderate confidence",
	types.ConfidenceHigh:   "high confidence",
}

// relevanceLabels translates market relevance values into prompt wording
var relevanceLabels = map[string]string{
	types.RelevanceDeclining: "declining market demand",
	types.RelevanceStable:    "stable market demand",
	types.RelevanceGrowing:   "growing market demand",
}

// remoteLabels translates remote preference values into prompt wording
var remoteLabels = map[string]string{
	"remote": "fully remote",
	"hybrid": "hybrid (partly remote)",
	"onsite": "on-site",
}

// SystemPrompt returns the system message sent ahead of every scoring prompt
func SystemPrompt() string {
	return prompts.MustGet("matching.json", "system")
}

// BuildMatchingPrompt renders the scoring prompt for one job. It is a pure
// function: identical inputs always produce an identical prompt, which keeps
// matching runs reproducible and testable.
func BuildMatchingPrompt(profile *types.Profile, skills []types.Skill, prefs *types.Preferences, job *types.Job) string {
	template := prompts.MustGet("matching.json", "score-job-match")
	return prompts.Format(template, map[string]string{
		"ProfileSection":     renderProfile(profile),
		"SkillsSection":      renderSkills(skills),
		"PreferencesSection": renderPreferences(prefs),
		"JobSection":         renderJob(job),
	})
}

func renderProfile(profile *types.Profile) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name: %s\n", profile.Name))
	sb.WriteString(fmt.Sprintf("Current title: %s\n", profile.Title))
	sb.WriteString(fmt.Sprintf("Total professional experience: %s years\n", formatYears(profile.YearsExperience)))
	if profile.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", profile.Location))
	}
	if profile.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", profile.Summary))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderSkills groups skills by category. Categories are emitted in sorted
// order and skills keep their input order within each category, so the
// section is stable for a given skill inventory.
func renderSkills(skills []types.Skill) string {
	if len(skills) == 0 {
		return "No skills recorded."
	}

	byCategory := make(map[string][]types.Skill)
	for _, skill := range skills {
		category := skill.Category
		if category == "" {
			category = "Other"
		}
		byCategory[category] = append(byCategory[category], skill)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var sb strings.Builder
	for _, category := range categories {
		sb.WriteString(fmt.Sprintf("### %s\n", category))
		for _, skill := range byCategory[category] {
			sb.WriteString(renderSkill(skill))
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderSkill(skill types.Skill) string {
	line := fmt.Sprintf("- %s: level %d/10", skill.Name, skill.Level)
	if skill.YearsExperience > 0 {
		line += fmt.Sprintf(", %s years experience", formatYears(skill.YearsExperience))
	}

	var qualifiers []string
	if label, ok := confidenceLabels[skill.Confidence]; ok {
		qualifiers = append(qualifiers, label)
	}
	if label, ok := relevanceLabels[skill.MarketRelevance]; ok {
		qualifiers = append(qualifiers, label)
	}
	if len(qualifiers) > 0 {
		line += fmt.Sprintf(" (%s)", strings.Join(qualifiers, ", "))
	}
	return line
}

func renderPreferences(prefs *types.Preferences) string {
	if prefs == nil {
		return "No preferences specified."
	}

	var sb strings.Builder
	if len(prefs.DesiredRoles) > 0 {
		sb.WriteString(fmt.Sprintf("Desired roles: %s\n", strings.Join(prefs.DesiredRoles, ", ")))
	}
	if len(prefs.Locations) > 0 {
		sb.WriteString(fmt.Sprintf("Preferred locations: %s\n", strings.Join(prefs.Locations, ", ")))
	}
	if prefs.RemotePreference != "" {
		label := prefs.RemotePreference
		if translated, ok := remoteLabels[prefs.RemotePreference]; ok {
			label = translated
		}
		sb.WriteString(fmt.Sprintf("Work arrangement: %s\n", label))
	}
	if prefs.SalaryMin > 0 || prefs.SalaryMax > 0 {
		sb.WriteString(fmt.Sprintf("Salary expectation: %s\n", formatSalaryRange(prefs.SalaryMin, prefs.SalaryMax)))
	}
	if len(prefs.Industries) > 0 {
		sb.WriteString(fmt.Sprintf("Preferred industries: %s\n", strings.Join(prefs.Industries, ", ")))
	}

	if sb.Len() == 0 {
		return "No preferences specified."
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderJob(job *types.Job) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title: %s\n", job.Title))
	sb.WriteString(fmt.Sprintf("Company: %s\n", job.Company))
	if job.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", job.Location))
	}
	if job.RemoteType != "" {
		sb.WriteString(fmt.Sprintf("Remote type: %s\n", job.RemoteType))
	}
	if job.Salary != "" {
		sb.WriteString(fmt.Sprintf("Salary: %s\n", job.Salary))
	}
	sb.WriteString("\nFull posting text:\n")
	sb.WriteString(strings.TrimSpace(job.FullText))
	return sb.String()
}

// formatYears renders fractional years without trailing zeros (5, 2.5)
func formatYears(years float64) string {
	if years == float64(int64(years)) {
		return fmt.Sprintf("%d", int64(years))
	}
	return strings.TrimRight(fmt.Sprintf("%.1f", years), "0")
}

func formatSalaryRange(minSalary, maxSalary int) string {
	switch {
	case minSalary > 0 && maxSalary > 0:
		return fmt.Sprintf("%d - %d", minSalary, maxSalary)
	case minSalary > 0:
		return fmt.Sprintf("at least %d", minSalary)
	default:
		return fmt.Sprintf("up to %d", maxSalary)
	}
}
