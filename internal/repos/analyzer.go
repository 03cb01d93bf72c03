package repos

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"stackscout-backend/internal/githubapi"
	"stackscout-backend/internal/llm"
)

const maxFileChars = 3000

const analysisPrompt = `Analyze this repository and provide a detailed fingerprint.

Repository files:
%s

Languages (bytes):
%s

Based on the files, identify:
1. **Industry**: One of fintech, ecommerce, healthcare, devtools, saas, ai-ml, media, education, general
2. **Project type**: One of api, web_app, mobile, cli, library, data_pipeline, ml_model
3. **Keywords**: Short domain terms describing what the project does
4. **Use cases**: Short capability statements the project needs to support
5. **Stack**: Categorize technologies into frontend, backend, database, infrastructure
6. **Gaps**: Missing best practices (CI/CD, testing, monitoring, security, docs, etc.)
7. **Risk flags**: Potential issues (outdated deps, security concerns, missing configs)
8. **Complexity score**: 1-10 based on project size, tech diversity, architecture complexity
9. **Recommendations context**: 2-3 sentence summary of what tools/services would help this project

Be specific about versions and technologies detected. Focus on actionable insights.

Respond with valid JSON matching this schema:
%s

Return ONLY the JSON, no markdown or explanation.`

const responseSchema = `{
  "industry": "one of the listed industries",
  "project_type": "one of the listed project types",
  "keywords": ["list of short domain terms"],
  "use_cases": ["list of capability statements"],
  "stack": {
    "frontend": ["list of frontend techs"],
    "backend": ["list of backend techs"],
    "database": ["list of database techs"],
    "infrastructure": ["list of infra techs"]
  },
  "gaps": ["list of missing best practices"],
  "risk_flags": ["list of potential issues"],
  "complexity_score": 1,
  "recommendations_context": "summary string"
}`

// Analyzer produces a structured fingerprint from repository files via an LLM.
type Analyzer struct {
	LLM llm.Client
}

// Analyze asks the LLM for a fingerprint of the given repository files. A
// response that fails JSON parsing is retried once with a repair instruction.
func (a *Analyzer) Analyze(ctx context.Context, files *githubapi.RepoFiles) (Fingerprint, error) {
	if a.LLM == nil {
		return Fingerprint{}, fmt.Errorf("analyzer: no LLM client configured")
	}

	prompt := buildAnalysisPrompt(files)
	raw, err := a.LLM.Complete(ctx, prompt)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("analyze repo: %w", err)
	}

	fp, err := parseFingerprint(raw)
	if err == nil {
		return fp, nil
	}

	repair := fmt.Sprintf("The following was supposed to be valid JSON matching this schema:\n%s\n\nIt failed to parse. Return the corrected JSON only, no markdown:\n%s", responseSchema, raw)
	raw, retryErr := a.LLM.Complete(ctx, repair)
	if retryErr != nil {
		return Fingerprint{}, fmt.Errorf("analyze repo: %w", err)
	}
	fp, err = parseFingerprint(raw)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("analyze repo: %w", err)
	}
	return fp, nil
}

func buildAnalysisPrompt(files *githubapi.RepoFiles) string {
	paths := make([]string, 0, len(files.Files))
	for path := range files.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var fileParts []string
	for _, path := range paths {
		content := files.Files[path]
		if len(content) > maxFileChars {
			content = content[:maxFileChars] + "\n... [truncated]"
		}
		fileParts = append(fileParts, fmt.Sprintf("=== %s ===\n%s", path, content))
	}

	langs, err := json.MarshalIndent(files.Languages, "", "  ")
	if err != nil {
		langs = []byte("{}")
	}

	return fmt.Sprintf(analysisPrompt, strings.Join(fileParts, "\n\n"), string(langs), responseSchema)
}

func parseFingerprint(raw string) (Fingerprint, error) {
	cleaned := llm.StripCodeFences(raw)
	var fp Fingerprint
	if err := json.Unmarshal([]byte(cleaned), &fp); err != nil {
		return Fingerprint{}, fmt.Errorf("parse fingerprint: %w", err)
	}
	fp.Normalize()
	return fp, nil
}
