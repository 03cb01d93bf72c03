package recommendations

import "sort"

// Rank orders scored tools by descending score and truncates to limit. The
// sort is stable: equal scores keep their catalog order.
func Rank(scored []ScoredTool, limit int) []ScoredTool {
	out := make([]ScoredTool, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DemoPriority maps a suitability score to a 1 (highest) to 5 (lowest) outreach
// tier. Boundaries are inclusive on the lower bound of each tier.
func DemoPriority(score float64) int {
	switch {
	case score >= 85:
		return 1
	case score >= 70:
		return 2
	case score >= 55:
		return 3
	case score >= 40:
		return 4
	default:
		return 5
	}
}
