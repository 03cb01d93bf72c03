package recommendations

import "stackscout-backend/internal/tools"

// MatchReasonType labels one scoring contribution.
type MatchReasonType string

const (
	ReasonIndustry  MatchReasonType = "industry"
	ReasonKeyword   MatchReasonType = "keyword"
	ReasonGap       MatchReasonType = "gap"
	ReasonUseCase   MatchReasonType = "use_case"
	ReasonRedundant MatchReasonType = "redundant"
)

// MatchReason explains one scoring contribution, positive or negative.
type MatchReason struct {
	Type              MatchReasonType `json:"type"`
	Matched           string          `json:"matched"`
	ScoreContribution float64         `json:"score_contribution"`
}

// ScoredTool pairs a tool with its suitability score and reasons. Slices of
// ScoredTool keep the catalog's iteration order until ranked.
type ScoredTool struct {
	Tool    tools.Tool
	Score   float64
	Reasons []MatchReason
}

// Recommendation is the output unit returned to callers.
type Recommendation struct {
	Tool             tools.Tool    `json:"tool"`
	SuitabilityScore float64       `json:"suitability_score"`
	DemoPriority     int           `json:"demo_priority"`
	Explanation      string        `json:"explanation"`
	MatchReasons     []MatchReason `json:"match_reasons"`
}
