package handlers

import (
	"net/http"

	"media-indexer/internal/media"
	"media-indexer/internal/mediatypes"

	"github.com/gorilla/mux"
)

// CategorySummary is the per-category row in a snapshot listing.
type CategorySummary struct {
	Label   string `json:"label"`
	Entries int    `json:"entries"`
}

// SnapshotResponse summarizes the current snapshot.
type SnapshotResponse struct {
	State      string            `json:"state"`
	Generation uint64            `json:"generation,omitempty"`
	Categories []CategorySummary `json:"categories,omitempty"`
	Root       string            `json:"root,omitempty"`
}

// GetSnapshot returns the generation and category summaries of the current
// snapshot, or the bare state while nothing is published.
func (h *Handlers) GetSnapshot(w http.ResponseWriter, _ *http.Request) {
	response := SnapshotResponse{
		State: h.indexer.State().String(),
		Root:  h.indexer.Root(),
	}

	if snap, ok := h.indexer.Snapshot(); ok {
		response.Generation = snap.Generation
		response.Categories = make([]CategorySummary, 0, len(snap.Categories))
		for _, c := range snap.Categories {
			response.Categories = append(response.Categories, CategorySummary{
				Label:   c.Label,
				Entries: len(c.Entries),
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}

// GetCategory returns the full entry list for one category label.
func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	label := mux.Vars(r)["label"]

	snap, ok := h.indexer.Snapshot()
	if !ok {
		writeJSONError(w, "no snapshot", http.StatusNotFound)
		return
	}

	for _, c := range snap.Categories {
		if c.Label == label {
			w.Header().Set("Content-Type", "application/json")
			writeJSON(w, c)
			return
		}
	}

	writeJSONError(w, "unknown category", http.StatusNotFound)
}

// GetTree returns the directory tree of the current snapshot.
func (h *Handlers) GetTree(w http.ResponseWriter, _ *http.Request) {
	snap, ok := h.indexer.Snapshot()
	if !ok || snap.Tree == nil {
		writeJSONError(w, "no tree", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, snap.Tree)
}

// GetContent serves the eager bytes of a content-bearing entry, verbatim.
func (h *Handlers) GetContent(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "missing path parameter", http.StatusBadRequest)
		return
	}

	snap, ok := h.indexer.Snapshot()
	if !ok {
		writeJSONError(w, "no snapshot", http.StatusNotFound)
		return
	}

	entry, ok := findEntry(snap.Categories, path)
	if !ok {
		writeJSONError(w, "unknown entry", http.StatusNotFound)
		return
	}
	if !mediatypes.RequiresContent(entry.Category) || entry.Bytes == nil {
		writeJSONError(w, "entry carries no content", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", entry.Category)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(entry.Bytes); err != nil {
		return
	}
}

func findEntry(categories []media.Category, path string) (media.Entry, bool) {
	for _, c := range categories {
		for _, e := range c.Entries {
			if e.Path == path {
				return e, true
			}
		}
	}
	return media.Entry{}, false
}

// GetCacheStats reports content cache size and traffic.
func (h *Handlers) GetCacheStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.contentCache.Stats())
}
