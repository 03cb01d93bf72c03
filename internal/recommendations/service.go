package recommendations

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"stackscout-backend/internal/embeddings"
	"stackscout-backend/internal/repos"
	"stackscout-backend/internal/shared/telemetry"
	"stackscout-backend/internal/tools"
)

const scoringConcurrency = 8

// ErrInvalidLimit indicates a non-positive recommendation limit.
var ErrInvalidLimit = errors.New("limit must be at least 1")

// Service composes fingerprint lookup, embedding, scoring, ranking and
// explanation into the end-to-end recommendation operation.
type Service struct {
	Repos      repos.Store
	Catalog    tools.Catalog
	Embeddings embeddings.Provider
	Engine     *Engine
	Explainer  *ExplanationGenerator
}

// GetRecommendations returns the ranked top-limit tools for a repository.
// Missing repo or fingerprint and embedding/catalog failures are fatal;
// explanation failures degrade to empty strings.
func (s *Service) GetRecommendations(ctx context.Context, repoID string, limit int) ([]Recommendation, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	repo, err := s.Repos.GetByID(ctx, repoID)
	if err != nil {
		return nil, err
	}
	if repo.Fingerprint == nil {
		return nil, repos.ErrNoFingerprint
	}
	fp := *repo.Fingerprint

	// The query embedding and the catalog reads are independent.
	var query []float32
	var catalog []tools.Tool
	var toolEmbeddings []tools.Embedding

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vec, err := s.Embeddings.Embed(gCtx, fp.SearchText())
		if err != nil {
			return fmt.Errorf("embed search text: %w", err)
		}
		query = vec
		return nil
	})
	g.Go(func() error {
		all, err := s.Catalog.ListTools(gCtx)
		if err != nil {
			return err
		}
		embs, err := s.Catalog.ListEmbeddings(gCtx)
		if err != nil {
			return err
		}
		catalog = all
		toolEmbeddings = embs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	toolsByID := make(map[string]tools.Tool, len(catalog))
	for _, tool := range catalog {
		toolsByID[tool.ID] = tool
	}

	// Candidates keep the catalog's embedding order; ties in score resolve
	// to this order.
	type candidate struct {
		tool   tools.Tool
		vector []float32
	}
	candidates := make([]candidate, 0, len(toolEmbeddings))
	for _, emb := range toolEmbeddings {
		tool, ok := toolsByID[emb.ToolID]
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{tool: tool, vector: emb.Vector})
	}

	// Scoring is pure per candidate; fan out with index-addressed writes.
	scored := make([]ScoredTool, len(candidates))
	sg, sgCtx := errgroup.WithContext(ctx)
	sg.SetLimit(scoringConcurrency)
	for i, cand := range candidates {
		i, cand := i, cand
		sg.Go(func() error {
			if err := sgCtx.Err(); err != nil {
				return err
			}
			score, reasons := s.Engine.Score(cand.tool, cand.vector, fp, query)
			scored[i] = ScoredTool{Tool: cand.tool, Score: score, Reasons: reasons}
			return nil
		})
	}
	if err := sg.Wait(); err != nil {
		return nil, err
	}

	ranked := Rank(scored, limit)

	// Explanations only for the survivors; the LLM cost is bounded by limit.
	topTools := make([]tools.Tool, len(ranked))
	for i, st := range ranked {
		topTools[i] = st.Tool
	}
	explanations := s.Explainer.ExplainBatch(ctx, topTools, fp)

	out := make([]Recommendation, len(ranked))
	for i, st := range ranked {
		explanation := ""
		if i < len(explanations) {
			explanation = explanations[i]
		}
		out[i] = Recommendation{
			Tool:             st.Tool,
			SuitabilityScore: st.Score,
			DemoPriority:     DemoPriority(st.Score),
			Explanation:      explanation,
			MatchReasons:     st.Reasons,
		}
	}

	telemetry.Info("recommendations.computed", map[string]any{
		"repo_id":    repoID,
		"candidates": len(candidates),
		"returned":   len(out),
	})
	return out, nil
}
