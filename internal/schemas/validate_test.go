package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conformingReply = `{
	"match_score": 72,
	"match_category": "good",
	"strengths": ["Strong Go background"],
	"gaps": {
		"missing_skills": [
			{"skill": "Kubernetes", "required_level": 7, "current_level": 4, "gap": 3}
		],
		"experience_gaps": [
			{"area": "team leadership", "required_years": 3, "actual_years": 1.5}
		]
	},
	"recommendations": ["Deepen Kubernetes skills"],
	"reasoning": "Solid overlap."
}`

func TestValidateReply_Conforming(t *testing.T) {
	assert.NoError(t, ValidateReply(conformingReply))
}

func TestValidateReply_Deviations(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{
			name:  "missing required fields",
			reply: `{"match_score": 72}`,
		},
		{
			name: "score out of range",
			reply: `{"match_score": 150, "match_category": "good", "strengths": [],
				"gaps": {"missing_skills": [], "experience_gaps": []},
				"recommendations": [], "reasoning": "x"}`,
		},
		{
			name: "unknown category",
			reply: `{"match_score": 70, "match_category": "amazing", "strengths": [],
				"gaps": {"missing_skills": [], "experience_gaps": []},
				"recommendations": [], "reasoning": "x"}`,
		},
		{
			name: "fractional score",
			reply: `{"match_score": 70.5, "match_category": "good", "strengths": [],
				"gaps": {"missing_skills": [], "experience_gaps": []},
				"recommendations": [], "reasoning": "x"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReply(tt.reply)
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.NotEmpty(t, ve.Errors)
			assert.Contains(t, ve.Error(), "deviates from the response schema")
		})
	}
}

func TestValidateReply_NotJSON(t *testing.T) {
	err := ValidateReply("this is not json")
	require.Error(t, err)

	// Malformed input is a plain error, not a field-level report.
	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
}
