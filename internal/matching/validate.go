package matching

import (
	"fmt"

	"github.com/jonathan/job-matcher/internal/types"
)

// Plausibility ceiling bands: average skill fulfillment below each
// threshold caps the reported score.
const (
	fulfillmentLow  = 0.3
	fulfillmentMid  = 0.5
	fulfillmentHigh = 0.7

	ceilingLow  = 50
	ceilingMid  = 65
	ceilingHigh = 80
)

// ValidateAndAdjustScore cross-checks the reported score against the
// reported skill gaps. Models tend to ignore level gaps and score on skill
// presence alone; when the gaps the model itself reported imply a worse
// outcome than its score, the score is capped, the category recomputed,
// and an adjustment note appended to the reasoning. The correction is
// deterministic: no second model call is involved.
func ValidateAndAdjustScore(result *types.MatchingResult) *types.MatchingResult {
	if result == nil || len(result.Gaps.MissingSkills) == 0 {
		return result
	}

	totalFulfillment := 0.0
	counted := 0
	for _, gap := range result.Gaps.MissingSkills {
		if gap.RequiredLevel <= 0 {
			continue
		}
		fulfillment := float64(gap.CurrentLevel) / float64(gap.RequiredLevel)
		if fulfillment > 1.0 {
			fulfillment = 1.0
		}
		totalFulfillment += fulfillment
		counted++
	}
	if counted == 0 {
		return result
	}

	average := totalFulfillment / float64(counted)

	ceiling := 100
	switch {
	case average < fulfillmentLow:
		ceiling = ceilingLow
	case average < fulfillmentMid:
		ceiling = ceilingMid
	case average < fulfillmentHigh:
		ceiling = ceilingHigh
	}

	if result.MatchScore <= ceiling {
		return result
	}

	reported := result.MatchScore
	result.MatchScore = ceiling
	result.MatchCategory = types.CategoryForScore(ceiling)
	result.Reasoning += fmt.Sprintf(
		" [score_adjusted reported=%d ceiling=%d avg_fulfillment=%.2f] Reported score exceeded the plausibility ceiling implied by the reported skill gaps and was capped.",
		reported, ceiling, average,
	)

	return result
}
