package models

import (
	"time"

	"github.com/google/uuid"
)

// Document status values. The lifecycle is a one-way state machine:
// pending → processing → done | error. Both done and error are terminal.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusError      = "error"
)

// Document is the lifecycle record for one uploaded reference file.
// Only the ingestion pipeline mutates a document after creation.
type Document struct {
	ID           uuid.UUID `json:"id"`
	CategoryID   uuid.UUID `json:"category_id"`
	OriginalName string    `json:"original_name"`
	StorageKey   string    `json:"storage_key"`
	SizeBytes    int64     `json:"size_bytes"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	ChunkCount   int       `json:"chunk_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Terminal reports whether the document has reached a final status.
func (d *Document) Terminal() bool {
	return d.Status == StatusDone || d.Status == StatusError
}
