package tools

import "strings"

// Tool is one catalog entry offered for recommendation.
type Tool struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	BookingURL  string   `json:"booking_url,omitempty"`
	Tags        []string `json:"tags"`
}

// EmbeddingText is the text a tool's vector is computed from.
func (t Tool) EmbeddingText() string {
	return t.Name + " - " + t.Category + ": " + t.Description + " Tags: " + strings.Join(t.Tags, ", ")
}

// Embedding pairs a tool with its precomputed vector.
type Embedding struct {
	ToolID string
	Vector []float32
}
