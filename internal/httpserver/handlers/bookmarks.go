package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/curator/internal/engine"
	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/sources/netscape"
	"github.com/MrSnakeDoc/curator/internal/store"
)

type addBookmarkRequest struct {
	URL      string   `json:"url"`
	Title    string   `json:"title,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

type addBookmarkResponse struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// AddBookmark classifies a single URL and places it directly into
// its category folder. An explicit category pins the record as
// manual.
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addBookmarkRequest
		if !decodeBody(w, r, d, &req) {
			return
		}

		var ov *engine.AddOverride
		if req.Category != "" || len(req.Tags) > 0 {
			ov = &engine.AddOverride{Category: req.Category, Tags: req.Tags}
		}

		node, rec, err := d.Engine.ClassifyAndPlace(r.Context(), req.URL, req.Title, ov)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error(), err)
			return
		}

		writeJSON(w, http.StatusCreated, addBookmarkResponse{
			ID:          node.ID,
			Category:    rec.Primary,
			Description: rec.Description,
			Tags:        rec.Tags,
		})
	}
}

type updateCategoryRequest struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
}

// UpdateBookmarkCategory is the manual-override entry point: the
// record becomes manual and automatic runs leave it alone from then
// on.
func UpdateBookmarkCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req updateCategoryRequest
		if !decodeBody(w, r, d, &req) {
			return
		}
		if req.Category == "" {
			writeError(w, d, http.StatusBadRequest, "category must not be empty", nil)
			return
		}

		rec, err := d.Engine.UpdateItemCategory(r.Context(), id, req.Category, req.Tags)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, d, http.StatusNotFound, "bookmark not found", nil)
				return
			}
			writeError(w, d, http.StatusInternalServerError, "failed to update category", err)
			return
		}

		writeJSON(w, http.StatusOK, addBookmarkResponse{
			ID:          rec.ItemID,
			Category:    rec.Primary,
			Description: rec.Description,
			Tags:        rec.Tags,
		})
	}
}

// MarkBookmarkStale flags one item for reclassification on the next
// organize run.
func MarkBookmarkStale(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := d.Engine.MarkStale(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, d, http.StatusNotFound, "bookmark not found", nil)
				return
			}
			writeError(w, d, http.StatusInternalServerError, "failed to mark stale", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ImportBookmarks loads a Netscape-format bookmark export into the
// tree. The body is the raw HTML file every browser writes.
func ImportBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := netscape.Parse(r.Body)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, "failed to parse bookmark export", err)
			return
		}

		res, err := d.Importer.Import(r.Context(), entries, "")
		if err != nil {
			writeError(w, d, http.StatusInternalServerError, "failed to import bookmarks", err)
			return
		}

		d.Logger.Info("bookmark export imported",
			logger.Int("folders", res.Folders),
			logger.Int("bookmarks", res.Bookmarks))
		writeJSON(w, http.StatusCreated, res)
	}
}

// OrganizedView renders the organized subtree grouped by category.
func OrganizedView(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := d.Engine.OrganizedView(r.Context())
		if err != nil {
			writeError(w, d, http.StatusInternalServerError, "failed to build organized view", err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// RemoveDuplicates runs the duplicate reconciler on demand.
func RemoveDuplicates(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := d.Engine.RemoveDuplicates(r.Context())
		if err != nil {
			writeError(w, d, http.StatusInternalServerError, "failed to remove duplicates", err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
