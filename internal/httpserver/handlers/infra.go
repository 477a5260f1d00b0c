package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Mode       string `json:"mode,omitempty"`
	Documents  *int   `json:"documents,omitempty"`
	JobStatus  string `json:"job_status,omitempty"`
	Categories *int   `json:"categories,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the health of the store, the search index and the
// organize engine in one shot.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		components := map[string]componentStatus{
			"store":    checkStore(r.Context(), d),
			"search":   checkSearch(d),
			"organize": checkOrganize(r.Context(), d),
		}

		response := infraResponse{
			Status:     overallStatus(components),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func overallStatus(components map[string]componentStatus) string {
	if store, exists := components["store"]; exists && !store.OK {
		// Everything routes through the store; without it nothing works.
		return "critical"
	}
	for _, c := range components {
		if !c.OK {
			return "degraded"
		}
	}
	return "ok"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	status := componentStatus{Mode: d.StoreMode}

	if d.RedisClient != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := d.RedisClient.Ping(pingCtx).Err(); err != nil {
			status.Error = err.Error()
			return status
		}
	}

	cats, err := d.Store.Categories(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	n := len(cats)
	status.OK = true
	status.Categories = &n
	return status
}

func checkSearch(d deps.Deps) componentStatus {
	if d.SearchIndex == nil {
		return componentStatus{Error: "index not initialized"}
	}

	count, err := d.SearchIndex.Count()
	if err != nil {
		return componentStatus{Error: err.Error()}
	}
	n := int(count)
	return componentStatus{OK: true, Documents: &n}
}

func checkOrganize(ctx context.Context, d deps.Deps) componentStatus {
	state, err := d.Engine.State(ctx)
	if err != nil {
		return componentStatus{Error: err.Error()}
	}
	return componentStatus{OK: true, JobStatus: string(state.Status)}
}
