package matching

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/types"
)

// ParseMatchingResponse extracts a MatchingResult from an LLM reply.
// The reply may be bare JSON, a ```json fenced block, or JSON surrounded
// by prose. Every field is coerced defensively: missing arrays become
// empty arrays, missing numbers become 0, an unrecognized category falls
// back to needs_work, and the score is clamped to [0,100]. Only a reply
// from which no JSON object can be recovered at all fails, with
// *UnparsableResponseError.
func ParseMatchingResponse(text string) (*types.MatchingResult, error) {
	cleaned := llm.CleanJSONBlock(text)
	if !strings.HasPrefix(cleaned, "{") {
		return nil, &UnparsableResponseError{
			Message: "no JSON object found in reply",
			Raw:     snippet(text),
		}
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &UnparsableResponseError{
			Message: "reply is not valid JSON",
			Raw:     snippet(cleaned),
			Cause:   err,
		}
	}

	result := &types.MatchingResult{
		MatchScore:      clampScore(asInt(raw["match_score"])),
		Strengths:       asStringSlice(raw["strengths"]),
		Recommendations: asStringSlice(raw["recommendations"]),
		Reasoning:       asString(raw["reasoning"]),
	}

	category := types.MatchCategory(asString(raw["match_category"]))
	if !category.IsValid() {
		category = types.CategoryNeedsWork
	}
	result.MatchCategory = category

	gaps := asMap(raw["gaps"])
	result.Gaps = types.Gaps{
		MissingSkills:  parseMissingSkills(gaps["missing_skills"]),
		ExperienceGaps: parseExperienceGaps(gaps["experience_gaps"]),
	}

	return result, nil
}

func parseMissingSkills(v any) []types.MissingSkill {
	items, ok := v.([]any)
	if !ok {
		return []types.MissingSkill{}
	}

	skills := make([]types.MissingSkill, 0, len(items))
	for _, item := range items {
		m := asMap(item)
		if len(m) == 0 {
			continue
		}
		skills = append(skills, types.MissingSkill{
			Skill:         asString(m["skill"]),
			RequiredLevel: clampLevel(asInt(m["required_level"])),
			CurrentLevel:  clampLevel(asInt(m["current_level"])),
			Gap:           asInt(m["gap"]),
		})
	}
	return skills
}

func parseExperienceGaps(v any) []types.ExperienceGap {
	items, ok := v.([]any)
	if !ok {
		return []types.ExperienceGap{}
	}

	gaps := make([]types.ExperienceGap, 0, len(items))
	for _, item := range items {
		m := asMap(item)
		if len(m) == 0 {
			continue
		}
		gaps = append(gaps, types.ExperienceGap{
			Area:          asString(m["area"]),
			RequiredYears: asFloat(m["required_years"]),
			ActualYears:   asFloat(m["actual_years"]),
		})
	}
	return gaps
}

// Coercion helpers. LLM output is untrusted JSON: numbers may arrive as
// floats or strings, fields may be absent or null.

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return 0
}

func asInt(v any) int {
	return int(asFloat(v))
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asMap(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 10 {
		return 10
	}
	return level
}

// snippet truncates raw reply text for error reporting
func snippet(text string) string {
	const maxLen = 200
	text = strings.TrimSpace(text)
	if len(text) > maxLen {
		return text[:maxLen] + "..."
	}
	return text
}
