// Package ingest implements the document ingestion pipeline: extracted text
// is split into overlapping chunks, embedded in batches through an external
// provider, and persisted as the per-category retrieval index source.
package ingest

import (
	"fmt"
	"strings"
)

// Chunking defaults used by the pipeline. Fragments at or below
// MinChunkLen runes are never kept.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 100
	MinChunkLen         = 50
)

// Chunker splits normalized text into fixed-width overlapping windows.
// Splits may fall mid-word; the retrieval quality cost is accepted in
// exchange for a deterministic, language-agnostic algorithm.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker validates the window configuration once at construction.
// overlap >= size would never terminate, so it is rejected here instead of
// being re-validated on every call.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunker: size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunker: overlap must be in [0, size), got %d for size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk splits text into chunks. Whitespace runs are collapsed to single
// spaces and the ends trimmed before windowing, so window math is stable
// regardless of the source formatting. Texts that normalize to MinChunkLen
// runes or fewer yield no chunks at all. A short tail window is dropped,
// not padded.
func (c *Chunker) Chunk(text string) []string {
	norm := normalize(text)
	runes := []rune(norm)

	if len(runes) <= c.size {
		if len(runes) > MinChunkLen {
			return []string{norm}
		}
		return nil
	}

	var out []string
	step := c.size - c.overlap
	for start := 0; ; start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		window := strings.TrimSpace(string(runes[start:end]))
		if len([]rune(window)) > MinChunkLen {
			out = append(out, window)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}

// normalize collapses all whitespace runs to a single space and trims.
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
