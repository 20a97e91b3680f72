// Package store implements PostgreSQL persistence for categories, documents
// and chunks. Stores are dumb CRUD layers: cascading deletes, file removal
// and cache invalidation are orchestration concerns handled by callers.
package store

import "errors"

// Sentinel errors returned by stores. Callers match them with errors.Is
// and translate them to HTTP statuses at the handler layer.
var (
	// ErrNotFound means the row does not exist, or a guarded update
	// matched no row because the expected state has moved on.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the operation is blocked by referencing rows,
	// e.g. deleting a category that still has documents.
	ErrConflict = errors.New("conflict")
)
