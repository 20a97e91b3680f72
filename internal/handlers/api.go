// Package handlers contains the JSON HTTP handlers for the document
// ingestion API. Handlers receive their dependencies through the API
// struct; storage-layer interfaces are narrow so tests can substitute
// in-memory fakes.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"rsai/internal/models"
)

// CategoryStore is the category persistence surface the handlers need.
type CategoryStore interface {
	Create(c *models.Category) (*models.Category, error)
	List() ([]models.Category, error)
	FindByID(id uuid.UUID) (*models.Category, error)
	Delete(id uuid.UUID) error
}

// DocumentStore is the document persistence surface the handlers need.
type DocumentStore interface {
	Create(d *models.Document) (*models.Document, error)
	FindByID(id uuid.UUID) (*models.Document, error)
	ListByCategory(categoryID uuid.UUID) ([]models.Document, error)
	Delete(id uuid.UUID) error
}

// ChunkStore deletes derived chunks when a document goes away.
type ChunkStore interface {
	DeleteByDocument(documentID uuid.UUID) error
}

// FileStore is the object-storage surface: upload on ingest, delete on
// document removal.
type FileStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Enqueuer hands a created document over to the ingestion workers.
type Enqueuer interface {
	Enqueue(documentID uuid.UUID)
}

// Invalidator drops the cached index for a category after a mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, categoryID uuid.UUID)
}

// API groups the ingestion API handlers and their dependencies.
type API struct {
	categories CategoryStore
	documents  DocumentStore
	chunks     ChunkStore
	files      FileStore
	pipeline   Enqueuer
	cache      Invalidator
}

// NewAPI creates the handler group with the given dependencies.
func NewAPI(categories CategoryStore, documents DocumentStore, chunks ChunkStore,
	files FileStore, pipeline Enqueuer, cache Invalidator) *API {
	return &API{
		categories: categories,
		documents:  documents,
		chunks:     chunks,
		files:      files,
		pipeline:   pipeline,
		cache:      cache,
	}
}

// Health reports liveness. No dependency checks: the process being up
// and serving is the signal the load balancer wants.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
