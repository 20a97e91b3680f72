package ingest

import (
	"context"
	"fmt"

	"rsai/internal/ai"
)

// MaxBatchSize caps how many texts go to the embedding provider per call.
const MaxBatchSize = 100

// Batcher groups chunk texts into bounded batches for the embedding
// provider. Batches run one after another, not concurrently: the provider's
// rate limits bound total throughput, not per-document latency.
type Batcher struct {
	provider  ai.Provider
	batchSize int
}

// NewBatcher returns a batcher using the default batch size.
func NewBatcher(provider ai.Provider) *Batcher {
	return &Batcher{provider: provider, batchSize: MaxBatchSize}
}

// EmbedAll embeds every text, preserving input order across batch
// boundaries. An empty input returns immediately without touching the
// provider. Any batch failure fails the whole operation; there is no
// partial-success path, so the caller never persists a partial chunk set.
func (b *Batcher) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := b.provider.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch %d: %w", start/b.batchSize+1, err)
		}
		if len(vectors) != end-start {
			return nil, fmt.Errorf("embed batch %d: got %d vectors for %d texts", start/b.batchSize+1, len(vectors), end-start)
		}
		out = append(out, vectors...)
	}
	return out, nil
}
