// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL (with the pgvector
// extension) is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"rsai/internal/database"
	"rsai/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "rsai")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "rsai")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable (or lacks pgvector), the test is skipped.
// A cleanup function is registered to close the connection when the test
// finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current. The init migration
	// needs the pgvector extension; skip rather than fail when missing.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Skipf("skipping integration test: migrations failed (pgvector installed?): %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testCategory inserts a category for tests and registers cleanup of the
// category and everything hanging off it.
func testCategory(t *testing.T, db *sql.DB, name string) *models.Category {
	t.Helper()

	cat, err := NewCategoryStore(db).Create(&models.Category{
		Name: name, Icon: "folder", Color: "blue", Description: "test category",
	})
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() {
		db.Exec(`DELETE FROM document_chunks WHERE category_id = $1`, cat.ID)
		db.Exec(`DELETE FROM documents WHERE category_id = $1`, cat.ID)
		db.Exec(`DELETE FROM categories WHERE id = $1`, cat.ID)
	})
	return cat
}

// testDocument inserts a pending document record under the given category.
func testDocument(t *testing.T, db *sql.DB, categoryID uuid.UUID, name string) *models.Document {
	t.Helper()

	doc, err := NewDocumentStore(db).Create(&models.Document{
		ID:           uuid.New(),
		CategoryID:   categoryID,
		OriginalName: name,
		StorageKey:   "docs/" + categoryID.String() + "/" + name,
		SizeBytes:    int64(len(name)),
	})
	if err != nil {
		t.Fatalf("create test document: %v", err)
	}
	return doc
}

// intPtr and strPtr are small helpers for UpdateStatus arguments.
func intPtr(n int) *int          { return &n }
func strPtr(s string) *string    { return &s }
