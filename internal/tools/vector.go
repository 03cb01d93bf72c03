package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeVector normalizes a stored embedding into a []float32. Vectors arrive
// either as a JSON array or, from older writers, as a JSON string containing a
// serialized array; both decode to the same in-memory representation here so
// scoring never sees the storage quirk.
func decodeVector(raw []byte) ([]float32, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty embedding")
	}
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, fmt.Errorf("decode embedding wrapper: %w", err)
		}
		trimmed = []byte(inner)
	}
	var vec []float32
	if err := json.Unmarshal(trimmed, &vec); err != nil {
		return nil, fmt.Errorf("decode embedding: %w", err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("empty embedding")
	}
	return vec, nil
}
