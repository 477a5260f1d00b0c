package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/search"
)

type searchResponse struct {
	Query string           `json:"query"`
	Hits  []*search.Result `json:"hits"`
}

// Search runs a full-text query over the organized bookmarks.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeError(w, d, http.StatusBadRequest, "query parameter q is required", nil)
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				limit = n
			}
		}

		hits, err := d.SearchIndex.Search(query, limit)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, "search failed", err)
			return
		}

		d.Logger.Debug("search request",
			logger.String("query", query),
			logger.Int("hits", len(hits)))
		writeJSON(w, http.StatusOK, searchResponse{Query: query, Hits: hits})
	}
}
