package llm

import (
	"context"
	"strings"
)

// Client abstracts chat-completion providers. Implementations take a single
// free-text prompt and return the model's text response.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// StripCodeFences removes markdown code fences that some models wrap around JSON.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i != -1 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```json")
			s = strings.TrimPrefix(s, "```")
		}
		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
