// handler_test.go provides shared in-memory fakes and the test router
// for handler tests.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rsai/internal/models"
	"rsai/internal/store"
)

type fakeCategoryStore struct {
	categories map[uuid.UUID]*models.Category
	createErr  error
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: make(map[uuid.UUID]*models.Category)}
}

func (f *fakeCategoryStore) Create(c *models.Category) (*models.Category, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.categories[c.ID] = c
	return c, nil
}

func (f *fakeCategoryStore) List() ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (f *fakeCategoryStore) Delete(id uuid.UUID) error {
	if _, ok := f.categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

// conflictCategoryStore refuses every delete, standing in for a category
// that still has documents.
type conflictCategoryStore struct{ *fakeCategoryStore }

func (f *conflictCategoryStore) Delete(uuid.UUID) error { return store.ErrConflict }

type fakeDocumentStore struct {
	docs []*models.Document
}

func (f *fakeDocumentStore) Create(d *models.Document) (*models.Document, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.Status = models.StatusPending
	d.CreatedAt = time.Now()
	f.docs = append(f.docs, d)
	return d, nil
}

func (f *fakeDocumentStore) FindByID(id uuid.UUID) (*models.Document, error) {
	for _, d := range f.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDocumentStore) ListByCategory(categoryID uuid.UUID) ([]models.Document, error) {
	var out []models.Document
	for i := len(f.docs) - 1; i >= 0; i-- {
		if f.docs[i].CategoryID == categoryID {
			out = append(out, *f.docs[i])
		}
	}
	return out, nil
}

func (f *fakeDocumentStore) Delete(id uuid.UUID) error {
	for i, d := range f.docs {
		if d.ID == id {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeChunkStore struct {
	deleted []uuid.UUID
	err     error
}

func (f *fakeChunkStore) DeleteByDocument(documentID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, documentID)
	return nil
}

type fakeFileStore struct {
	objects   map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{objects: make(map[string][]byte)}
}

func (f *fakeFileStore) Upload(_ context.Context, key, _ string, data []byte) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.objects[key] = data
	return nil
}

func (f *fakeFileStore) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}

type fakeEnqueuer struct {
	queued []uuid.UUID
}

func (f *fakeEnqueuer) Enqueue(documentID uuid.UUID) {
	f.queued = append(f.queued, documentID)
}

type fakeCacheInvalidator struct {
	calls []uuid.UUID
}

func (f *fakeCacheInvalidator) Invalidate(_ context.Context, categoryID uuid.UUID) {
	f.calls = append(f.calls, categoryID)
}

// apiFixture bundles an API over fakes with a routed test handler.
type apiFixture struct {
	categories *fakeCategoryStore
	documents  *fakeDocumentStore
	chunks     *fakeChunkStore
	files      *fakeFileStore
	queue      *fakeEnqueuer
	inval      *fakeCacheInvalidator
	handler    http.Handler
}

func newAPIFixture() *apiFixture {
	fx := &apiFixture{
		categories: newFakeCategoryStore(),
		documents:  &fakeDocumentStore{},
		chunks:     &fakeChunkStore{},
		files:      newFakeFileStore(),
		queue:      &fakeEnqueuer{},
		inval:      &fakeCacheInvalidator{},
	}
	fx.handler = routeAPI(NewAPI(fx.categories, fx.documents, fx.chunks, fx.files, fx.queue, fx.inval))
	return fx
}

// routeAPI mounts the handlers on the same paths the real router uses.
func routeAPI(a *API) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", a.Health)
	r.Post("/api/categories", a.CreateCategory)
	r.Get("/api/categories", a.ListCategories)
	r.Delete("/api/categories/{id}", a.DeleteCategory)
	r.Post("/api/documents", a.UploadDocument)
	r.Get("/api/documents", a.ListDocuments)
	r.Delete("/api/documents/{id}", a.DeleteDocument)
	return r
}

var errBoom = errors.New("boom")
