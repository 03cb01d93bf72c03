package recommendations

import (
	"context"
	"errors"
	"testing"

	"stackscout-backend/internal/repos"
	"stackscout-backend/internal/tools"
)

// fakeEmbedder returns a fixed query vector for any text.
type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}

type serviceFixture struct {
	svc    *Service
	repoID string
}

// newServiceFixture seeds a repo with a neutral fingerprint and three catalog
// tools whose embeddings yield similarities 1.0, 0.8 and 0.0 against the query.
func newServiceFixture(t *testing.T, client *fakeLLM) serviceFixture {
	t.Helper()
	ctx := context.Background()

	store := repos.NewMemoryStore()
	fp := repos.Fingerprint{Industry: "general"}
	fp.Normalize()
	repo, err := store.Upsert(ctx, repos.Repo{
		GithubURL:   "https://github.com/acme/api",
		Fingerprint: &fp,
	})
	if err != nil {
		t.Fatalf("seed repo: %v", err)
	}

	catalog := tools.NewMemoryCatalog()
	seed := []struct {
		tool   tools.Tool
		vector []float32
	}{
		{tools.Tool{ID: "exact", Name: "Exact", Category: "Misc"}, []float32{1, 0}},
		{tools.Tool{ID: "close", Name: "Close", Category: "Misc"}, []float32{0.8, 0.6}},
		{tools.Tool{ID: "far", Name: "Far", Category: "Misc"}, []float32{0, 1}},
	}
	for _, s := range seed {
		if _, err := catalog.InsertTool(ctx, s.tool); err != nil {
			t.Fatalf("seed tool: %v", err)
		}
		if err := catalog.UpsertEmbedding(ctx, s.tool.ID, s.vector); err != nil {
			t.Fatalf("seed embedding: %v", err)
		}
	}

	return serviceFixture{
		svc: &Service{
			Repos:      store,
			Catalog:    catalog,
			Embeddings: &fakeEmbedder{vector: []float32{1, 0}},
			Engine:     NewEngine(DefaultTables()),
			Explainer:  NewExplanationGenerator(client),
		},
		repoID: repo.ID,
	}
}

func TestGetRecommendationsRanked(t *testing.T) {
	fx := newServiceFixture(t, &fakeLLM{
		batchResp: `{"explanations": ["first", "second", "third"]}`,
	})

	recs, err := fx.svc.GetRecommendations(context.Background(), fx.repoID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}

	wantOrder := []string{"exact", "close", "far"}
	wantScores := []float64{50.0, 40.0, 0.0}
	wantPriority := []int{4, 4, 5}
	for i := range recs {
		if recs[i].Tool.ID != wantOrder[i] {
			t.Fatalf("position %d: expected %s, got %s", i, wantOrder[i], recs[i].Tool.ID)
		}
		if recs[i].SuitabilityScore != wantScores[i] {
			t.Fatalf("position %d: expected score %v, got %v", i, wantScores[i], recs[i].SuitabilityScore)
		}
		if recs[i].DemoPriority != wantPriority[i] {
			t.Fatalf("position %d: expected priority %d, got %d", i, wantPriority[i], recs[i].DemoPriority)
		}
	}
	if recs[0].Explanation != "first" || recs[2].Explanation != "third" {
		t.Fatalf("explanations not aligned: %q, %q", recs[0].Explanation, recs[2].Explanation)
	}
}

func TestGetRecommendationsLimit(t *testing.T) {
	fx := newServiceFixture(t, &fakeLLM{
		batchResp: `{"explanations": ["a", "b"]}`,
	})

	recs, err := fx.svc.GetRecommendations(context.Background(), fx.repoID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].Tool.ID != "exact" || recs[1].Tool.ID != "close" {
		t.Fatalf("unexpected order: %s, %s", recs[0].Tool.ID, recs[1].Tool.ID)
	}
}

func TestGetRecommendationsInvalidLimit(t *testing.T) {
	fx := newServiceFixture(t, &fakeLLM{})

	for _, limit := range []int{0, -1} {
		if _, err := fx.svc.GetRecommendations(context.Background(), fx.repoID, limit); !errors.Is(err, ErrInvalidLimit) {
			t.Fatalf("limit %d: expected ErrInvalidLimit, got %v", limit, err)
		}
	}
}

func TestGetRecommendationsRepoNotFound(t *testing.T) {
	fx := newServiceFixture(t, &fakeLLM{})

	_, err := fx.svc.GetRecommendations(context.Background(), "missing-id", 10)
	if !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetRecommendationsNoFingerprint(t *testing.T) {
	fx := newServiceFixture(t, &fakeLLM{})
	bare, err := fx.svc.Repos.Upsert(context.Background(), repos.Repo{
		GithubURL: "https://github.com/acme/bare",
	})
	if err != nil {
		t.Fatalf("seed repo: %v", err)
	}

	_, err = fx.svc.GetRecommendations(context.Background(), bare.ID, 10)
	if !errors.Is(err, repos.ErrNoFingerprint) {
		t.Fatalf("expected ErrNoFingerprint, got %v", err)
	}
}

func TestGetRecommendationsEmbedFailureIsFatal(t *testing.T) {
	fx := newServiceFixture(t, &fakeLLM{})
	fx.svc.Embeddings = &fakeEmbedder{err: errors.New("embedding service down")}

	_, err := fx.svc.GetRecommendations(context.Background(), fx.repoID, 10)
	if err == nil {
		t.Fatal("expected error when embedding fails")
	}
}

func TestGetRecommendationsDegradedExplanations(t *testing.T) {
	fx := newServiceFixture(t, &fakeLLM{
		batchErr: errors.New("down"),
		oneResp: func(string) (string, error) {
			return "", errors.New("down")
		},
	})

	recs, err := fx.svc.GetRecommendations(context.Background(), fx.repoID, 10)
	if err != nil {
		t.Fatalf("explanation failures must not fail the request: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	for i, rec := range recs {
		if rec.Explanation != "" {
			t.Fatalf("position %d: expected empty explanation, got %q", i, rec.Explanation)
		}
	}
	if recs[0].SuitabilityScore != 50.0 {
		t.Fatalf("scores must survive explanation failure, got %v", recs[0].SuitabilityScore)
	}
}

func TestGetRecommendationsStableTieOrder(t *testing.T) {
	fx := newServiceFixture(t, &fakeLLM{
		batchResp: `{"explanations": []}`,
	})
	ctx := context.Background()

	// Two extra tools with identical embeddings tie at the top; catalog
	// insertion order must decide.
	for _, id := range []string{"tie-one", "tie-two"} {
		if _, err := fx.svc.Catalog.InsertTool(ctx, tools.Tool{ID: id, Name: id, Category: "Misc"}); err != nil {
			t.Fatalf("seed tool: %v", err)
		}
		if err := fx.svc.Catalog.UpsertEmbedding(ctx, id, []float32{1, 0}); err != nil {
			t.Fatalf("seed embedding: %v", err)
		}
	}

	recs, err := fx.svc.GetRecommendations(ctx, fx.repoID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOrder := []string{"exact", "tie-one", "tie-two"}
	for i, id := range wantOrder {
		if recs[i].Tool.ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, recs[i].Tool.ID)
		}
	}
}

func TestGetRecommendationsIdempotent(t *testing.T) {
	fx := newServiceFixture(t, &fakeLLM{
		batchResp: `{"explanations": ["a", "b", "c"]}`,
	})
	ctx := context.Background()

	first, err := fx.svc.GetRecommendations(ctx, fx.repoID, 10)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := fx.svc.GetRecommendations(ctx, fx.repoID, 10)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("result count changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Tool.ID != second[i].Tool.ID || first[i].SuitabilityScore != second[i].SuitabilityScore {
			t.Fatalf("position %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGetRecommendationsSkipsEmbeddingWithoutTool(t *testing.T) {
	fx := newServiceFixture(t, &fakeLLM{
		batchResp: `{"explanations": []}`,
	})
	ctx := context.Background()

	// Embedding row whose tool is gone from the catalog must be ignored.
	if err := fx.svc.Catalog.UpsertEmbedding(ctx, "orphan", []float32{1, 0}); err != nil {
		t.Fatalf("seed embedding: %v", err)
	}

	recs, err := fx.svc.GetRecommendations(ctx, fx.repoID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	for _, rec := range recs {
		if rec.Tool.ID == "orphan" {
			t.Fatal("orphan embedding must not produce a recommendation")
		}
	}
}
