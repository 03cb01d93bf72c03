package tools

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryCatalog is an in-memory implementation of Catalog. Iteration order is
// insertion order.
type MemoryCatalog struct {
	mu         sync.RWMutex
	tools      []Tool
	embeddings map[string][]float32
	order      []string // tool ids in embedding insertion order
}

// NewMemoryCatalog constructs a MemoryCatalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		embeddings: make(map[string][]float32),
	}
}

// ListTools returns all tools in insertion order.
func (c *MemoryCatalog) ListTools(ctx context.Context) ([]Tool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Tool, len(c.tools))
	copy(out, c.tools)
	return out, nil
}

// GetTool returns the tool with the given id.
func (c *MemoryCatalog) GetTool(ctx context.Context, id string) (Tool, error) {
	if err := ctx.Err(); err != nil {
		return Tool{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.tools {
		if c.tools[i].ID == id {
			return c.tools[i], nil
		}
	}
	return Tool{}, ErrNotFound
}

// ListEmbeddings returns all embeddings in insertion order.
func (c *MemoryCatalog) ListEmbeddings(ctx context.Context) ([]Embedding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Embedding, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, Embedding{ToolID: id, Vector: c.embeddings[id]})
	}
	return out, nil
}

// InsertTool appends a tool, assigning an id if absent.
func (c *MemoryCatalog) InsertTool(ctx context.Context, tool Tool) (Tool, error) {
	if err := ctx.Err(); err != nil {
		return Tool{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if tool.ID == "" {
		tool.ID = uuid.NewString()
	}
	c.tools = append(c.tools, tool)
	return tool, nil
}

// UpsertEmbedding stores the vector for a tool.
func (c *MemoryCatalog) UpsertEmbedding(ctx context.Context, toolID string, vector []float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.embeddings[toolID]; !ok {
		c.order = append(c.order, toolID)
	}
	c.embeddings[toolID] = vector
	return nil
}

var _ Catalog = (*MemoryCatalog)(nil)
