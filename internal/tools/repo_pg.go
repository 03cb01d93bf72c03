package tools

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stackscout-backend/internal/shared/telemetry"
)

// PGCatalog implements Catalog using Postgres. Tags and embeddings are jsonb.
type PGCatalog struct {
	DB *sql.DB
}

// ListTools returns all tools ordered by creation time.
func (c *PGCatalog) ListTools(ctx context.Context) ([]Tool, error) {
	const query = `
SELECT id, name, category, description, url, booking_url, tags
FROM tools
ORDER BY created_at, id`

	rows, err := c.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	defer rows.Close()

	var out []Tool
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tool)
	}
	return out, rows.Err()
}

// GetTool returns the tool with the given id.
func (c *PGCatalog) GetTool(ctx context.Context, id string) (Tool, error) {
	const query = `
SELECT id, name, category, description, url, booking_url, tags
FROM tools
WHERE id = $1`

	row := c.DB.QueryRowContext(ctx, query, id)
	tool, err := scanTool(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tool{}, ErrNotFound
		}
		return Tool{}, err
	}
	return tool, nil
}

// ListEmbeddings returns all tool embeddings in catalog order. A row whose
// stored vector fails to decode is logged and skipped so one bad record
// cannot take down the whole ranking.
func (c *PGCatalog) ListEmbeddings(ctx context.Context) ([]Embedding, error) {
	const query = `
SELECT e.tool_id, e.embedding
FROM tool_embeddings e
JOIN tools t ON t.id = e.tool_id
ORDER BY t.created_at, t.id`

	rows, err := c.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}
	defer rows.Close()

	var out []Embedding
	for rows.Next() {
		var toolID string
		var raw []byte
		if err := rows.Scan(&toolID, &raw); err != nil {
			return nil, err
		}
		vec, err := decodeVector(raw)
		if err != nil {
			telemetry.Warn("catalog.embedding_skipped", map[string]any{
				"tool_id": toolID,
				"error":   err.Error(),
			})
			continue
		}
		out = append(out, Embedding{ToolID: toolID, Vector: vec})
	}
	return out, rows.Err()
}

// InsertTool inserts a tool, assigning an id if absent.
func (c *PGCatalog) InsertTool(ctx context.Context, tool Tool) (Tool, error) {
	const query = `
INSERT INTO tools (id, name, category, description, url, booking_url, tags, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if tool.ID == "" {
		tool.ID = uuid.NewString()
	}
	tags, err := json.Marshal(tool.Tags)
	if err != nil {
		return Tool{}, fmt.Errorf("marshal tags: %w", err)
	}

	_, err = c.DB.ExecContext(ctx, query,
		tool.ID,
		tool.Name,
		tool.Category,
		nullable(tool.Description),
		nullable(tool.URL),
		nullable(tool.BookingURL),
		tags,
		time.Now().UTC(),
	)
	if err != nil {
		return Tool{}, fmt.Errorf("insert tool: %w", err)
	}
	return tool, nil
}

// UpsertEmbedding stores the vector for a tool as a jsonb array.
func (c *PGCatalog) UpsertEmbedding(ctx context.Context, toolID string, vector []float32) error {
	const query = `
INSERT INTO tool_embeddings (id, tool_id, embedding, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (tool_id) DO UPDATE SET embedding = EXCLUDED.embedding`

	raw, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}
	_, err = c.DB.ExecContext(ctx, query, uuid.NewString(), toolID, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert embedding: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTool(row rowScanner) (Tool, error) {
	var tool Tool
	var description, toolURL, bookingURL sql.NullString
	var tags []byte
	if err := row.Scan(&tool.ID, &tool.Name, &tool.Category, &description, &toolURL, &bookingURL, &tags); err != nil {
		return Tool{}, err
	}
	tool.Description = description.String
	tool.URL = toolURL.String
	tool.BookingURL = bookingURL.String
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &tool.Tags); err != nil {
			return Tool{}, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if tool.Tags == nil {
		tool.Tags = []string{}
	}
	return tool, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Catalog = (*PGCatalog)(nil)
