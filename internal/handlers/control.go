package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"media-indexer/internal/indexer"
	"media-indexer/internal/media"
)

// selectRootRequest is the POST /api/root body.
type selectRootRequest struct {
	Path string `json:"path"`
}

// SelectRoot switches the indexer to a new root directory.
func (h *Handlers) SelectRoot(w http.ResponseWriter, r *http.Request) {
	var req selectRootRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		writeJSONError(w, "missing path", http.StatusBadRequest)
		return
	}

	if err := h.indexer.SelectRoot(req.Path); err != nil {
		if errors.Is(err, media.ErrRootNotFound) {
			writeJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"status": "loading"})
}

// Refresh triggers another load cycle for the current root.
func (h *Handlers) Refresh(w http.ResponseWriter, _ *http.Request) {
	if err := h.indexer.Refresh(); err != nil {
		if errors.Is(err, indexer.ErrNoRoot) {
			writeJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"status": "loading"})
}
