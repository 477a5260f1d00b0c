package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/store"
)

// ListCategories returns all category definitions in display order.
func ListCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := d.Taxonomy.Categories(r.Context())
		if err != nil {
			writeError(w, d, http.StatusInternalServerError, "failed to list categories", err)
			return
		}
		domain.SortCategories(cats)
		writeJSON(w, http.StatusOK, cats)
	}
}

type categoryRequest struct {
	Name   string `json:"name"`
	Emoji  string `json:"emoji,omitempty"`
	Parent string `json:"parent,omitempty"`
}

// CreateCategory mints a new category from a display name. Slug
// collisions resolve with numeric suffixes.
func CreateCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if !decodeBody(w, r, d, &req) {
			return
		}

		cat, err := d.Taxonomy.Create(r.Context(), req.Name, req.Emoji, req.Parent)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error(), err)
			return
		}
		writeJSON(w, http.StatusCreated, cat)
	}
}

// RenameCategory changes a category's display name and emoji,
// regenerating the slug and rebuilding its folder.
func RenameCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		var req categoryRequest
		if !decodeBody(w, r, d, &req) {
			return
		}

		cat, err := d.Taxonomy.Rename(r.Context(), slug, req.Name, req.Emoji)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, d, http.StatusNotFound, "category not found", nil)
				return
			}
			writeError(w, d, http.StatusBadRequest, err.Error(), err)
			return
		}
		writeJSON(w, http.StatusOK, cat)
	}
}

// DeleteCategory removes one category, draining its members into
// the fallback category first.
func DeleteCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		if err := d.Taxonomy.Delete(r.Context(), slug); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, d, http.StatusNotFound, "category not found", nil)
				return
			}
			writeError(w, d, http.StatusInternalServerError, "failed to delete category", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type replaceTaxonomyRequest struct {
	Categories []domain.Category `json:"categories"`
}

// ReplaceTaxonomy applies a full replacement definition set: removed
// categories are drained, survivors get their folders materialized.
func ReplaceTaxonomy(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req replaceTaxonomyRequest
		if !decodeBody(w, r, d, &req) {
			return
		}
		if len(req.Categories) == 0 {
			writeError(w, d, http.StatusBadRequest, "categories must not be empty", nil)
			return
		}

		if err := d.Taxonomy.Reconcile(r.Context(), req.Categories); err != nil {
			writeError(w, d, http.StatusInternalServerError, "failed to reconcile taxonomy", err)
			return
		}

		cats, err := d.Taxonomy.Categories(r.Context())
		if err != nil {
			writeError(w, d, http.StatusInternalServerError, "failed to list categories", err)
			return
		}
		domain.SortCategories(cats)
		writeJSON(w, http.StatusOK, cats)
	}
}
