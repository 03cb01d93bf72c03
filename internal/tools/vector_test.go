package tools

import (
	"math"
	"testing"
)

func TestDecodeVectorArray(t *testing.T) {
	vec, err := decodeVector([]byte(`[0.1, -0.2, 0.3]`))
	if err != nil {
		t.Fatalf("decodeVector: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3 components, got %d", len(vec))
	}
	if math.Abs(float64(vec[1])+0.2) > 1e-6 {
		t.Fatalf("expected -0.2, got %v", vec[1])
	}
}

func TestDecodeVectorDoubleEncoded(t *testing.T) {
	// Older writers stored the array serialized inside a JSON string.
	vec, err := decodeVector([]byte(`"[1, 2, 3]"`))
	if err != nil {
		t.Fatalf("decodeVector: %v", err)
	}
	if len(vec) != 3 || vec[0] != 1 || vec[2] != 3 {
		t.Fatalf("unexpected vector: %v", vec)
	}
}

func TestDecodeVectorRejectsGarbage(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "whitespace", raw: "   "},
		{name: "not_json", raw: "abc"},
		{name: "empty_array", raw: "[]"},
		{name: "object", raw: `{"v": [1]}`},
		{name: "string_not_array", raw: `"hello"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodeVector([]byte(tc.raw)); err == nil {
				t.Fatalf("expected error for %q", tc.raw)
			}
		})
	}
}

func TestEmbeddingText(t *testing.T) {
	tool := Tool{
		Name:        "Sentry",
		Category:    "Monitoring",
		Description: "Error tracking",
		Tags:        []string{"errors", "apm"},
	}
	got := tool.EmbeddingText()
	want := "Sentry - Monitoring: Error tracking Tags: errors, apm"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
