package handlers

import (
	"net/http"
	"runtime"

	"media-indexer/internal/cache"
	"media-indexer/internal/indexer"
)

const (
	statusHealthy  = "healthy"
	statusLoading  = "loading"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status string `json:"status"`

	Indexer indexer.Status `json:"indexer"`
	Cache   cache.Stats    `json:"cache"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	st := h.indexer.Status()

	response := HealthResponse{
		Indexer:      st,
		Cache:        h.contentCache.Stats(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	switch {
	case st.LastError != "":
		response.Status = statusDegraded
	case st.State == "loading":
		response.Status = statusLoading
	default:
		response.Status = statusHealthy
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if the
// server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, "alive")
}

// ReadinessCheck reports 503 only while the first load cycle for a root is
// still in flight. Idle (no root selected) counts as ready: the service can
// take commands.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	_, hasSnapshot := h.indexer.Snapshot()
	if h.indexer.State() == indexer.StateLoading && !hasSnapshot {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{"status": "loading"})
		return
	}
	writeJSONStatus(w, "ready")
}
