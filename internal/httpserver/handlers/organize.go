package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/engine"
	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/logger"
)

type organizeStartRequest struct {
	Strategy string `json:"strategy,omitempty"`
}

// OrganizeStart launches an organize job. A second start while one
// is running is rejected with 409, not queued.
func OrganizeStart(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req organizeStartRequest
		if r.ContentLength > 0 && !decodeBody(w, r, d, &req) {
			return
		}

		state, err := d.Engine.Start(r.Context(), domain.Strategy(req.Strategy))
		if err != nil {
			if errors.Is(err, engine.ErrJobRunning) {
				writeError(w, d, http.StatusConflict, "organize job already running", nil)
				return
			}
			writeError(w, d, http.StatusBadRequest, err.Error(), err)
			return
		}

		writeJSON(w, http.StatusAccepted, state)
	}
}

// OrganizeState returns the persisted job state snapshot.
func OrganizeState(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := d.Engine.State(r.Context())
		if err != nil {
			writeError(w, d, http.StatusInternalServerError, "failed to read job state", err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

// OrganizeReset returns the job to idle, cancelling a running one.
func OrganizeReset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := d.Engine.Reset(r.Context())
		if err != nil {
			writeError(w, d, http.StatusInternalServerError, "failed to reset job state", err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

// OrganizeStats returns the aggregate stats snapshot.
func OrganizeStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := d.Engine.StatsSnapshot(r.Context())
		if err != nil {
			writeError(w, d, http.StatusInternalServerError, "failed to read stats", err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// OrganizeEvents streams job state snapshots as server-sent events.
// The current persisted state is sent first so observers attaching
// mid-job start from truth instead of waiting for the next step.
func OrganizeEvents(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, d, http.StatusInternalServerError, "streaming unsupported", nil)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Connection", "keep-alive")

		events, cancel := d.Engine.Broadcaster().Subscribe()
		defer cancel()

		send := func(s domain.JobState) bool {
			data, err := json.Marshal(s)
			if err != nil {
				return false
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return false
			}
			flusher.Flush()
			return true
		}

		state, err := d.Engine.State(r.Context())
		if err != nil {
			d.Logger.Warn("failed to read job state for event stream", logger.Error(err))
		} else if !send(*state) {
			return
		}

		for {
			select {
			case <-r.Context().Done():
				return
			case s, open := <-events:
				if !open || !send(s) {
					return
				}
			}
		}
	}
}
