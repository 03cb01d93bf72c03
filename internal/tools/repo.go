package tools

import "context"

// Catalog defines read and seed operations for the tool catalog. ListTools and
// ListEmbeddings return entries in a stable order; the recommendation ranker
// relies on it for deterministic tie-breaking.
type Catalog interface {
	ListTools(ctx context.Context) ([]Tool, error)
	GetTool(ctx context.Context, id string) (Tool, error)
	ListEmbeddings(ctx context.Context) ([]Embedding, error)
	InsertTool(ctx context.Context, tool Tool) (Tool, error)
	UpsertEmbedding(ctx context.Context, toolID string, vector []float32) error
}
