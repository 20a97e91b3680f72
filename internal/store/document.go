package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"rsai/internal/models"
)

// DocumentStore manages document lifecycle records in the database.
type DocumentStore struct {
	db *sql.DB
}

// NewDocumentStore returns a new DocumentStore.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

const documentColumns = `id, category_id, original_name, storage_key, size_bytes,
	status, error_message, chunk_count, created_at, updated_at`

// scanDocument scans a row into a Document struct.
func scanDocument(scanner interface{ Scan(...any) error }) (*models.Document, error) {
	var d models.Document
	err := scanner.Scan(
		&d.ID, &d.CategoryID, &d.OriginalName, &d.StorageKey, &d.SizeBytes,
		&d.Status, &d.ErrorMessage, &d.ChunkCount, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document record and returns it. Uploads always start
// in status pending with a zero chunk count.
func (s *DocumentStore) Create(d *models.Document) (*models.Document, error) {
	row := s.db.QueryRow(`
		INSERT INTO documents (id, category_id, original_name, storage_key, size_bytes, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+documentColumns,
		d.ID, d.CategoryID, d.OriginalName, d.StorageKey, d.SizeBytes, models.StatusPending,
	)
	result, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return result, nil
}

// FindByID retrieves a document by ID. Returns nil if not found.
func (s *DocumentStore) FindByID(id uuid.UUID) (*models.Document, error) {
	row := s.db.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find document by id: %w", err)
	}
	return d, nil
}

// ListByCategory returns all documents in a category, newest first.
func (s *DocumentStore) ListByCategory(categoryID uuid.UUID) ([]models.Document, error) {
	rows, err := s.db.Query(`
		SELECT `+documentColumns+`
		FROM documents
		WHERE category_id = $1
		ORDER BY created_at DESC
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var items []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

// UpdateStatus transitions a document from one status to another. The update
// is guarded on the expected current status, so a raced duplicate job or a
// write against a terminal document matches no row and returns ErrNotFound.
//
// A nil chunkCount or errorMessage preserves the stored value; a pointer to
// the empty string explicitly clears error_message so stale failure text
// never survives a later transition.
func (s *DocumentStore) UpdateStatus(id uuid.UUID, from, to string, chunkCount *int, errorMessage *string) error {
	var cc sql.NullInt64
	if chunkCount != nil {
		cc = sql.NullInt64{Int64: int64(*chunkCount), Valid: true}
	}
	var em sql.NullString
	if errorMessage != nil {
		em = sql.NullString{String: *errorMessage, Valid: true}
	}

	res, err := s.db.Exec(`
		UPDATE documents SET
			status = $3,
			chunk_count = COALESCE($4, chunk_count),
			error_message = COALESCE($5, error_message),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, from, to, cc, em)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("document %s not in status %q: %w", id, from, ErrNotFound)
	}
	return nil
}

// Delete removes the document row only. Chunk deletion, file removal and
// cache invalidation belong to the caller.
func (s *DocumentStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}
