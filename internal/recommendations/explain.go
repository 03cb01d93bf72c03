package recommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"stackscout-backend/internal/llm"
	"stackscout-backend/internal/repos"
	"stackscout-backend/internal/shared/telemetry"
	"stackscout-backend/internal/tools"
)

const explainConcurrency = 4

// ExplanationGenerator produces short natural-language justifications for the
// top-ranked tools. One batched LLM call is attempted first; if its JSON can't
// be used, each tool is retried individually. Failures degrade to empty
// strings — ExplainBatch never returns an error.
type ExplanationGenerator struct {
	LLM llm.Client
}

// NewExplanationGenerator constructs a generator. A nil client degrades every
// explanation to the empty string.
func NewExplanationGenerator(client llm.Client) *ExplanationGenerator {
	return &ExplanationGenerator{LLM: client}
}

// ExplainBatch returns one explanation per tool, aligned positionally. The
// returned slice always has the same length as toolList.
func (g *ExplanationGenerator) ExplainBatch(ctx context.Context, toolList []tools.Tool, fp repos.Fingerprint) []string {
	out := make([]string, len(toolList))
	if len(toolList) == 0 || g.LLM == nil {
		return out
	}

	explanations, err := g.explainBatchOnce(ctx, toolList, fp)
	if err == nil {
		copy(out, explanations)
		return out
	}
	telemetry.Warn("explain.batch_fallback", map[string]any{
		"tools": len(toolList),
		"error": err.Error(),
	})

	// Per-item fallback: each failure is isolated to its own slot.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(explainConcurrency)
	for i, tool := range toolList {
		i, tool := i, tool
		eg.Go(func() error {
			text, err := g.explainOne(egCtx, tool, fp)
			if err != nil {
				telemetry.Warn("explain.tool_failed", map[string]any{
					"tool_id": tool.ID,
					"error":   err.Error(),
				})
				return nil
			}
			out[i] = text
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

type batchResponse struct {
	Explanations []string `json:"explanations"`
}

func (g *ExplanationGenerator) explainBatchOnce(ctx context.Context, toolList []tools.Tool, fp repos.Fingerprint) ([]string, error) {
	var toolsInfo strings.Builder
	for _, tool := range toolList {
		fmt.Fprintf(&toolsInfo, "- %s (%s): %s\n", tool.Name, tool.Category, tool.Description)
	}

	prompt := fmt.Sprintf(`Given a repository with these identified gaps: %s
And this context: %s

For each tool below, write a 1-2 sentence explanation of why it's recommended.
Be specific about how each tool addresses the gaps. Keep each explanation concise.

Tools:
%s
Respond in JSON format: {"explanations": ["explanation1", "explanation2", ...]}`,
		strings.Join(fp.Gaps, ", "), fp.RecommendationsContext, toolsInfo.String())

	raw, err := g.LLM.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed batchResponse
	if err := json.Unmarshal([]byte(llm.StripCodeFences(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("parse explanations: %w", err)
	}
	if parsed.Explanations == nil {
		return nil, fmt.Errorf("parse explanations: missing explanations key")
	}
	if len(parsed.Explanations) > len(toolList) {
		parsed.Explanations = parsed.Explanations[:len(toolList)]
	}
	return parsed.Explanations, nil
}

func (g *ExplanationGenerator) explainOne(ctx context.Context, tool tools.Tool, fp repos.Fingerprint) (string, error) {
	prompt := fmt.Sprintf(`Given a repository with these identified gaps: %s
And this context: %s

Explain in 1-2 sentences why %s (%s) would be a good fit.
Tool description: %s
Tool tags: %s

Be specific about how it addresses the gaps. Keep it concise.`,
		strings.Join(fp.Gaps, ", "), fp.RecommendationsContext,
		tool.Name, tool.Category, tool.Description, strings.Join(tool.Tags, ", "))

	return g.LLM.Complete(ctx, prompt)
}
