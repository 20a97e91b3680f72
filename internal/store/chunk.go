package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"rsai/internal/models"
)

// ChunkStore manages persisted text chunks and their embedding vectors.
type ChunkStore struct {
	db *sql.DB
}

// NewChunkStore returns a new ChunkStore.
func NewChunkStore(db *sql.DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// InsertBatch writes all chunks of one document in a single transaction.
// The insert is all-or-nothing: a crash or failure mid-batch leaves no
// partial chunk set behind.
func (s *ChunkStore) InsertBatch(chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO document_chunks (id, document_id, category_id, position, content, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("prepare chunk insert: %w", err)
	}
	defer stmt.Close()

	for i := range chunks {
		c := &chunks[i]
		if _, err := stmt.Exec(
			c.ID, c.DocumentID, c.CategoryID, c.Position, c.Content,
			pgvector.NewVector(c.Embedding),
		); err != nil {
			return fmt.Errorf("insert chunk %d of document %s: %w", c.Position, c.DocumentID, err)
		}
	}

	return tx.Commit()
}

// ListByDocument returns a document's chunks ordered by position.
func (s *ChunkStore) ListByDocument(documentID uuid.UUID) ([]models.Chunk, error) {
	rows, err := s.db.Query(`
		SELECT id, document_id, category_id, position, content, embedding, created_at
		FROM document_chunks
		WHERE document_id = $1
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	defer rows.Close()

	var items []models.Chunk
	for rows.Next() {
		var (
			c   models.Chunk
			emb pgvector.Vector
		)
		err := rows.Scan(&c.ID, &c.DocumentID, &c.CategoryID, &c.Position, &c.Content, &emb, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		c.Embedding = emb.Slice()
		items = append(items, c)
	}
	return items, rows.Err()
}

// CountByDocument returns the number of persisted chunks for a document.
func (s *ChunkStore) CountByDocument(documentID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM document_chunks WHERE document_id = $1`, documentID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// DeleteByDocument removes every chunk belonging to a document. Deleting a
// document with no chunks is not an error.
func (s *ChunkStore) DeleteByDocument(documentID uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM document_chunks WHERE document_id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return nil
}
