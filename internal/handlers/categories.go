package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rsai/internal/models"
	"rsai/internal/store"
)

// createCategoryRequest is the JSON body for POST /api/categories.
type createCategoryRequest struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// CreateCategory handles POST /api/categories.
func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	if msg := validateCategory(req.Name, req.Icon, req.Color, req.Description); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := a.categories.Create(&models.Category{
		Name:        strings.TrimSpace(req.Name),
		Icon:        strings.TrimSpace(req.Icon),
		Color:       strings.TrimSpace(req.Color),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		slog.Error("create category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create category.")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListCategories handles GET /api/categories. Document counts include
// only fully ingested documents; chunk counts are live aggregates.
func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list categories.")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// DeleteCategory handles DELETE /api/categories/{id}. A category that
// still has documents is never deleted out from under them.
func (a *API) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category id.")
		return
	}

	switch err := a.categories.Delete(id); {
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "Category still has documents.")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Category not found.")
	case err != nil:
		slog.Error("delete category failed", "category_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete category.")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
