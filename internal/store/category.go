package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"rsai/internal/models"
)

// CategoryStore manages reference-document categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, icon, color, description, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Icon, &c.Color, &c.Description,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new category and returns it. Input validation (required
// name/icon/color) happens at the handler layer before this is called.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (id, name, icon, color, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		uuid.New(), c.Name, c.Icon, c.Color, c.Description,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// List returns all categories with their aggregate counts. The document
// count includes only documents that finished ingestion (status done);
// the chunk count is computed live from the chunk table, never cached.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.icon, c.color, c.description,
		       c.created_at, c.updated_at,
		       COALESCE(d.done_count, 0)  AS document_count,
		       COALESCE(ch.chunk_count, 0) AS chunk_count
		FROM categories c
		LEFT JOIN (
			SELECT category_id, COUNT(*) AS done_count
			FROM documents
			WHERE status = 'done'
			GROUP BY category_id
		) d ON d.category_id = c.id
		LEFT JOIN (
			SELECT category_id, COUNT(*) AS chunk_count
			FROM document_chunks
			GROUP BY category_id
		) ch ON ch.category_id = c.id
		ORDER BY c.created_at, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Icon, &c.Color, &c.Description,
			&c.CreatedAt, &c.UpdatedAt,
			&c.DocumentCount, &c.ChunkCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Delete removes a category by ID. The delete is refused with ErrConflict
// while any document still references the category, regardless of that
// document's status. The referential check runs in the same transaction as
// the delete so a concurrent upload cannot slip between check and delete.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var docCount int
	err = tx.QueryRow(`SELECT COUNT(*) FROM documents WHERE category_id = $1`, id).Scan(&docCount)
	if err != nil {
		return fmt.Errorf("count documents for category: %w", err)
	}
	if docCount > 0 {
		return fmt.Errorf("category has %d documents: %w", docCount, ErrConflict)
	}

	res, err := tx.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}

	return tx.Commit()
}
