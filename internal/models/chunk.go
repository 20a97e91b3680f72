package models

import (
	"time"

	"github.com/google/uuid"
)

// Chunk is a bounded slice of a document's extracted text together with its
// embedding vector. CategoryID is denormalized so the retrieval index can
// query a whole category without joining through documents.
type Chunk struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	CategoryID uuid.UUID `json:"category_id"`
	Position   int       `json:"position"` // zero-based ordinal within the document
	Content    string    `json:"content"`
	Embedding  []float32 `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
