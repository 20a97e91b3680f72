package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rsai/internal/extract"
	"rsai/internal/models"
	"rsai/internal/store"
)

// maxUploadSize is the maximum allowed document upload size (50 MB).
const maxUploadSize = 50 << 20

// UploadDocument handles POST /api/documents. The file is stored, a
// pending document row is created and the job is queued; the response
// returns immediately while ingestion runs in the background.
func (a *API) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 50 MB.")
		return
	}

	categoryID, err := uuid.Parse(r.FormValue("category_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing category_id.")
		return
	}

	category, err := a.categories.FindByID(categoryID)
	if err != nil {
		slog.Error("load category failed", "category_id", categoryID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load category.")
		return
	}
	if category == nil {
		writeError(w, http.StatusNotFound, "Category not found.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided.")
		return
	}
	defer file.Close()

	if !extract.Supported(header.Filename) {
		writeError(w, http.StatusBadRequest, "Unsupported file type. Allowed: .pdf, .docx, .txt.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file.")
		return
	}

	docID := uuid.New()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("docs/%s/%s%s", categoryID, docID, ext)

	if err := a.files.Upload(r.Context(), key, extract.ContentType(header.Filename), data); err != nil {
		slog.Error("store file failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to store file.")
		return
	}

	doc, err := a.documents.Create(&models.Document{
		ID:           docID,
		CategoryID:   categoryID,
		OriginalName: header.Filename,
		StorageKey:   key,
		SizeBytes:    int64(len(data)),
	})
	if err != nil {
		slog.Error("create document failed", "key", key, "error", err)
		// The row failed, so the stored file is an orphan. Best effort.
		a.files.Delete(r.Context(), key)
		writeError(w, http.StatusInternalServerError, "Failed to create document.")
		return
	}

	a.pipeline.Enqueue(doc.ID)
	slog.Info("document queued for ingestion",
		"document_id", doc.ID, "category_id", categoryID, "file", header.Filename, "bytes", len(data))

	writeJSON(w, http.StatusAccepted, map[string]string{
		"document_id": doc.ID.String(),
		"status":      "processing",
	})
}

// ListDocuments handles GET /api/documents?category_id=, newest first.
func (a *API) ListDocuments(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuid.Parse(r.URL.Query().Get("category_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing category_id.")
		return
	}

	docs, err := a.documents.ListByCategory(categoryID)
	if err != nil {
		slog.Error("list documents failed", "category_id", categoryID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list documents.")
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// DeleteDocument handles DELETE /api/documents/{id}: chunks first, then
// the row, then a best-effort removal of the backing file, and finally
// the category index cache so the next read rebuilds without this
// document's chunks.
func (a *API) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid document id.")
		return
	}

	doc, err := a.documents.FindByID(id)
	if err != nil {
		slog.Error("load document failed", "document_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load document.")
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "Document not found.")
		return
	}

	if err := a.chunks.DeleteByDocument(id); err != nil {
		slog.Error("delete chunks failed", "document_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete document chunks.")
		return
	}

	if err := a.documents.Delete(id); err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Error("delete document failed", "document_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete document.")
		return
	}

	// Losing the object leaves garbage in the bucket, not inconsistency.
	if err := a.files.Delete(r.Context(), doc.StorageKey); err != nil {
		slog.Warn("delete stored file failed", "key", doc.StorageKey, "error", err)
	}

	a.cache.Invalidate(r.Context(), doc.CategoryID)
	slog.Info("document deleted", "document_id", id, "category_id", doc.CategoryID)

	w.WriteHeader(http.StatusNoContent)
}
