package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a named grouping that scopes reference documents and their
// derived chunks. Deleting a category is refused while documents reference it.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual fields populated by store queries.
	DocumentCount int `json:"document_count"` // documents with status done
	ChunkCount    int `json:"chunk_count"`    // live aggregate over chunks
}
