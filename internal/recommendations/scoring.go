package recommendations

import (
	"math"
	"strings"

	"stackscout-backend/internal/repos"
	"stackscout-backend/internal/tools"
)

const (
	similarityWeight = 50.0

	industryPerTag = 5.0
	industryCap    = 15.0

	keywordPerHit = 3.0
	keywordCap    = 10.0

	categoryPerHit = 5.0
	categoryCap    = 10.0

	useCasePerHit = 4.0
	useCaseCap    = 8.0

	tagPerHit = 2.0
	tagCap    = 7.0

	redundancyPenalty = 25.0

	maxMatchedDisplay = 120
)

// Engine computes a suitability score for one tool against one fingerprint.
// Scoring is pure: no state beyond the immutable lookup tables.
type Engine struct {
	tables Tables
}

// NewEngine constructs an Engine over the given lookup tables.
func NewEngine(tables Tables) *Engine {
	return &Engine{tables: tables}
}

// Score returns the clamped suitability score in [0,100] (one decimal) and the
// typed reasons behind it. Contributions are summed first; the clamp is applied
// once at the end so a redundancy penalty can cancel out strong boosts.
func (e *Engine) Score(tool tools.Tool, embedding []float32, fp repos.Fingerprint, query []float32) (float64, []MatchReason) {
	var reasons []MatchReason

	nameLower := strings.ToLower(tool.Name)
	categoryLower := strings.ToLower(tool.Category)
	descriptionLower := strings.ToLower(tool.Description)
	tagsLower := make([]string, len(tool.Tags))
	for i, tag := range tool.Tags {
		tagsLower[i] = strings.ToLower(tag)
	}
	tagsJoined := strings.Join(tagsLower, " ")
	haystack := nameLower + " " + descriptionLower + " " + tagsJoined

	score := CosineSimilarity(query, embedding) * similarityWeight

	if boost, reason := e.industryBoost(fp.Industry, tagsLower); boost > 0 {
		score += boost
		reasons = append(reasons, reason)
	}
	if boost, reason := keywordBoost(fp.Keywords, haystack); boost > 0 {
		score += boost
		reasons = append(reasons, reason)
	}
	if boost, reason := e.categoryBoost(fp, categoryLower); boost > 0 {
		score += boost
		reasons = append(reasons, reason)
	}
	if boost, reason := useCaseBoost(fp.UseCases, descriptionLower+" "+tagsJoined); boost > 0 {
		score += boost
		reasons = append(reasons, reason)
	}
	score += tagRelevanceBoost(tagsLower, fp)

	if penalized, reason := e.redundancy(fp.Stack, categoryLower+" "+nameLower+" "+tagsJoined); penalized {
		score -= redundancyPenalty
		reasons = append(reasons, reason)
	}

	return clampScore(score), reasons
}

// CosineSimilarity is the dot product over the product of magnitudes. A zero
// vector on either side yields 0.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	for i := n; i < len(a); i++ {
		normA += float64(a[i]) * float64(a[i])
	}
	for i := n; i < len(b); i++ {
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func (e *Engine) industryBoost(industry string, tagsLower []string) (float64, MatchReason) {
	wanted := e.tables.IndustryTags[strings.ToLower(industry)]
	if len(wanted) == 0 {
		return 0, MatchReason{}
	}

	tagSet := make(map[string]bool, len(tagsLower))
	for _, tag := range tagsLower {
		tagSet[tag] = true
	}

	var matched []string
	for _, tag := range wanted {
		if tagSet[strings.ToLower(tag)] {
			matched = append(matched, tag)
		}
	}
	if len(matched) == 0 {
		return 0, MatchReason{}
	}

	boost := math.Min(industryPerTag*float64(len(matched)), industryCap)
	return boost, MatchReason{
		Type:              ReasonIndustry,
		Matched:           truncateDisplay(industry + ": " + strings.Join(matched, ", ")),
		ScoreContribution: boost,
	}
}

func keywordBoost(keywords []string, haystack string) (float64, MatchReason) {
	var matched []string
	count := 0
	for _, kw := range keywords {
		lower := strings.ToLower(strings.TrimSpace(kw))
		if lower == "" {
			continue
		}
		if strings.Contains(haystack, lower) {
			count++
			if len(matched) < 3 {
				matched = append(matched, kw)
			}
		}
	}
	if count == 0 {
		return 0, MatchReason{}
	}

	boost := math.Min(keywordPerHit*float64(count), keywordCap)
	return boost, MatchReason{
		Type:              ReasonKeyword,
		Matched:           truncateDisplay(strings.Join(matched, ", ")),
		ScoreContribution: boost,
	}
}

func (e *Engine) categoryBoost(fp repos.Fingerprint, categoryLower string) (float64, MatchReason) {
	count := 0
	var matched []string

	for _, rule := range e.tables.GapCategories {
		if !strings.Contains(categoryLower, rule.Category) {
			continue
		}
		if gap, ok := anyGapMentions(fp.Gaps, rule.Keywords); ok {
			count++
			matched = append(matched, gap)
		}
	}

	if relevant := e.tables.ProjectTypeCategories[fp.ProjectType]; len(relevant) > 0 {
		for _, cat := range relevant {
			if strings.Contains(categoryLower, cat) {
				count++
				matched = append(matched, fp.ProjectType+" project")
				break
			}
		}
	}

	if count == 0 {
		return 0, MatchReason{}
	}

	boost := math.Min(categoryPerHit*float64(count), categoryCap)
	return boost, MatchReason{
		Type:              ReasonGap,
		Matched:           truncateDisplay(strings.Join(matched, "; ")),
		ScoreContribution: boost,
	}
}

func anyGapMentions(gaps []string, keywords []string) (string, bool) {
	for _, gap := range gaps {
		gapLower := strings.ToLower(gap)
		for _, kw := range keywords {
			if strings.Contains(gapLower, kw) {
				return gap, true
			}
		}
	}
	return "", false
}

func useCaseBoost(useCases []string, text string) (float64, MatchReason) {
	count := 0
	var matched []string
	for _, uc := range useCases {
		hits := 0
		for _, word := range strings.Fields(strings.ToLower(uc)) {
			if len(word) <= 3 {
				continue
			}
			if strings.Contains(text, word) {
				hits++
			}
			if hits >= 2 {
				break
			}
		}
		if hits >= 2 {
			count++
			if len(matched) < 2 {
				matched = append(matched, uc)
			}
		}
	}
	if count == 0 {
		return 0, MatchReason{}
	}

	boost := math.Min(useCasePerHit*float64(count), useCaseCap)
	return boost, MatchReason{
		Type:              ReasonUseCase,
		Matched:           truncateDisplay(strings.Join(matched, "; ")),
		ScoreContribution: boost,
	}
}

func tagRelevanceBoost(tagsLower []string, fp repos.Fingerprint) float64 {
	var parts []string
	parts = append(parts, fp.Gaps...)
	parts = append(parts, fp.Keywords...)
	parts = append(parts, fp.UseCases...)
	combined := strings.ToLower(strings.Join(parts, " "))
	if combined == "" {
		return 0
	}

	boost := 0.0
	for _, tag := range tagsLower {
		if tag == "" {
			continue
		}
		if strings.Contains(combined, tag) {
			boost += tagPerHit
		}
	}
	return math.Min(boost, tagCap)
}

func (e *Engine) redundancy(stack repos.TechStack, toolText string) (bool, MatchReason) {
	stackText := stack.Flatten()
	if stackText == "" {
		return false, MatchReason{}
	}

	for _, rule := range e.tables.Redundancy {
		if !strings.Contains(stackText, rule.Tech) {
			continue
		}
		for _, cat := range rule.Categories {
			if strings.Contains(toolText, cat) {
				return true, MatchReason{
					Type:              ReasonRedundant,
					Matched:           truncateDisplay(rule.Tech + " already in stack"),
					ScoreContribution: -redundancyPenalty,
				}
			}
		}
	}
	return false, MatchReason{}
}

func clampScore(score float64) float64 {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return math.Round(score*10) / 10
}

func truncateDisplay(s string) string {
	if len(s) <= maxMatchedDisplay {
		return s
	}
	return s[:maxMatchedDisplay-3] + "..."
}
