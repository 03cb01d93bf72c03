package embeddings

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Provider converts text into fixed-dimension vectors. All vectors returned
// by one provider share the same dimensionality.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

const (
	maxBatchSize   = 256
	maxAttempts    = 5
	retryBaseDelay = time.Second
)

// OpenAIProvider implements Provider against an OpenAI-compatible embeddings endpoint.
type OpenAIProvider struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIProvider constructs an embedding provider.
func NewOpenAIProvider(baseURL, apiKey, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.EmbeddingModel(model),
	}
}

// Embed returns the vector for a single text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return vecs[0], nil
}

// EmbedBatch returns one vector per input text, preserving order. Requests are
// chunked to stay under the provider's batch limit, with backoff on transient errors.
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		resp, err := p.createWithRetry(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("creating embeddings (batch %d-%d): %w", start, end, err)
		}
		for _, emb := range resp.Data {
			vectors[start+emb.Index] = emb.Embedding
		}
	}
	return vectors, nil
}

func (p *OpenAIProvider) createWithRetry(ctx context.Context, batch []string) (openai.EmbeddingResponse, error) {
	var lastErr error
	delay := retryBaseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: p.model,
		})
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !shouldRetry(err) {
			return openai.EmbeddingResponse{}, err
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return openai.EmbeddingResponse{}, ctx.Err()
		}
		delay *= 2
	}
	return openai.EmbeddingResponse{}, lastErr
}

func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "eof")
}

var _ Provider = (*OpenAIProvider)(nil)
