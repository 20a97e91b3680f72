package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"rsai/internal/models"
)

func TestDocumentCreateDefaults(t *testing.T) {
	db := testDB(t)
	cat := testCategory(t, db, "test-doc-create")

	doc := testDocument(t, db, cat.ID, "budget-2026.pdf")
	if doc.Status != models.StatusPending {
		t.Errorf("Status = %q, want pending", doc.Status)
	}
	if doc.ChunkCount != 0 {
		t.Errorf("ChunkCount = %d, want 0", doc.ChunkCount)
	}
	if doc.ErrorMessage != "" {
		t.Errorf("ErrorMessage = %q, want empty", doc.ErrorMessage)
	}
}

func TestDocumentListNewestFirst(t *testing.T) {
	db := testDB(t)
	cat := testCategory(t, db, "test-doc-order")

	first := testDocument(t, db, cat.ID, "first.txt")
	time.Sleep(10 * time.Millisecond)
	second := testDocument(t, db, cat.ID, "second.txt")

	list, err := NewDocumentStore(db).ListByCategory(cat.ID)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("list not newest-first: got [%s, %s]", list[0].OriginalName, list[1].OriginalName)
	}
}

func TestDocumentStatusTransitions(t *testing.T) {
	db := testDB(t)
	cat := testCategory(t, db, "test-doc-fsm")
	doc := testDocument(t, db, cat.ID, "fsm.txt")
	docs := NewDocumentStore(db)

	// pending → processing
	if err := docs.UpdateStatus(doc.ID, models.StatusPending, models.StatusProcessing, nil, nil); err != nil {
		t.Fatalf("pending→processing: %v", err)
	}

	// A second pending→processing must fail: the guard sees processing.
	err := docs.UpdateStatus(doc.ID, models.StatusPending, models.StatusProcessing, nil, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("raced pending→processing: got %v, want ErrNotFound", err)
	}

	// processing → done with chunk count, clearing the error message.
	if err := docs.UpdateStatus(doc.ID, models.StatusProcessing, models.StatusDone, intPtr(3), strPtr("")); err != nil {
		t.Fatalf("processing→done: %v", err)
	}

	got, err := docs.FindByID(doc.ID)
	if err != nil || got == nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Status != models.StatusDone || got.ChunkCount != 3 {
		t.Errorf("after done: status=%q chunk_count=%d, want done/3", got.Status, got.ChunkCount)
	}

	// done is terminal: no guard matches it as a source of further writes.
	err = docs.UpdateStatus(doc.ID, models.StatusProcessing, models.StatusError, nil, strPtr("late failure"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("write after terminal status: got %v, want ErrNotFound", err)
	}
	got, _ = docs.FindByID(doc.ID)
	if got.Status != models.StatusDone {
		t.Errorf("terminal status changed to %q", got.Status)
	}
}

func TestDocumentStatusPreservesAndClearsFields(t *testing.T) {
	db := testDB(t)
	cat := testCategory(t, db, "test-doc-fields")
	doc := testDocument(t, db, cat.ID, "fields.txt")
	docs := NewDocumentStore(db)

	if err := docs.UpdateStatus(doc.ID, models.StatusPending, models.StatusProcessing, nil, strPtr("transient note")); err != nil {
		t.Fatalf("set message: %v", err)
	}

	// nil pointers must preserve the stored values.
	if err := docs.UpdateStatus(doc.ID, models.StatusProcessing, models.StatusProcessing, nil, nil); err != nil {
		t.Fatalf("no-op update: %v", err)
	}
	got, _ := docs.FindByID(doc.ID)
	if got.ErrorMessage != "transient note" {
		t.Errorf("nil errorMessage overwrote stored value: %q", got.ErrorMessage)
	}

	// An empty-string pointer must clear it.
	if err := docs.UpdateStatus(doc.ID, models.StatusProcessing, models.StatusDone, intPtr(0), strPtr("")); err != nil {
		t.Fatalf("clear message: %v", err)
	}
	got, _ = docs.FindByID(doc.ID)
	if got.ErrorMessage != "" {
		t.Errorf("error message not cleared: %q", got.ErrorMessage)
	}
}

func TestDocumentDelete(t *testing.T) {
	db := testDB(t)
	cat := testCategory(t, db, "test-doc-delete")
	doc := testDocument(t, db, cat.ID, "gone.txt")
	docs := NewDocumentStore(db)

	if err := docs.Delete(doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	found, err := docs.FindByID(doc.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found != nil {
		t.Error("document still exists after Delete")
	}

	if err := docs.Delete(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete of missing document: got %v, want ErrNotFound", err)
	}
}
