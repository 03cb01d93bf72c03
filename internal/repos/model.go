package repos

import (
	"strings"
	"time"
)

// TechStack groups detected technologies by layer.
type TechStack struct {
	Frontend       []string `json:"frontend"`
	Backend        []string `json:"backend"`
	Database       []string `json:"database"`
	Infrastructure []string `json:"infrastructure"`
}

// Flatten returns every detected technology name as one lowercase string,
// used for redundancy checks against the tool catalog.
func (s TechStack) Flatten() string {
	parts := make([]string, 0, len(s.Frontend)+len(s.Backend)+len(s.Database)+len(s.Infrastructure))
	parts = append(parts, s.Frontend...)
	parts = append(parts, s.Backend...)
	parts = append(parts, s.Database...)
	parts = append(parts, s.Infrastructure...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Fingerprint is the structured summary of a repository used as the matching query.
type Fingerprint struct {
	Industry               string    `json:"industry"`
	ProjectType            string    `json:"project_type"`
	Keywords               []string  `json:"keywords"`
	UseCases               []string  `json:"use_cases"`
	Stack                  TechStack `json:"stack"`
	Gaps                   []string  `json:"gaps"`
	RiskFlags              []string  `json:"risk_flags"`
	ComplexityScore        int       `json:"complexity_score"`
	RecommendationsContext string    `json:"recommendations_context"`
}

var knownIndustries = map[string]bool{
	"fintech":    true,
	"ecommerce":  true,
	"healthcare": true,
	"devtools":   true,
	"saas":       true,
	"ai-ml":      true,
	"media":      true,
	"education":  true,
	"general":    true,
}

var knownProjectTypes = map[string]bool{
	"api":           true,
	"web_app":       true,
	"mobile":        true,
	"cli":           true,
	"library":       true,
	"data_pipeline": true,
	"ml_model":      true,
}

// Normalize folds unknown enum values to their defaults.
func (f *Fingerprint) Normalize() {
	f.Industry = strings.ToLower(strings.TrimSpace(f.Industry))
	if !knownIndustries[f.Industry] {
		f.Industry = "general"
	}
	f.ProjectType = strings.ToLower(strings.TrimSpace(f.ProjectType))
	if !knownProjectTypes[f.ProjectType] {
		f.ProjectType = "web_app"
	}
}

// SearchText synthesizes the labeled text that gets embedded as the
// recommendation query.
func (f Fingerprint) SearchText() string {
	var b strings.Builder
	writeField := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(value)
	}

	writeField("Industry", f.Industry)
	writeField("Project type", f.ProjectType)
	writeField("Keywords", strings.Join(f.Keywords, ", "))
	writeField("Gaps", strings.Join(f.Gaps, ", "))
	writeField("Use cases", strings.Join(f.UseCases, ", "))
	writeField("Context", f.RecommendationsContext)
	return b.String()
}

// Repo represents an analyzed repository record.
type Repo struct {
	ID          string       `json:"repo_id"`
	GithubURL   string       `json:"github_url"`
	Fingerprint *Fingerprint `json:"fingerprint,omitempty"`
	CreatedAt   time.Time    `json:"-"`
}
