package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"media-indexer/internal/indexer"
	"media-indexer/internal/logging"
)

// wireEvent is the SSE payload; indexer.Event carries the error as a value,
// the wire form carries its message.
type wireEvent struct {
	Type       string `json:"type"`
	Generation uint64 `json:"generation,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Events streams publication and error events as Server-Sent Events until
// the client disconnects.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	events, cancel := h.indexer.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case ev, open := <-events:
			if !open {
				return
			}
			if err := writeEvent(w, ev); err != nil {
				logging.Debug("Event stream write failed: %v", err)
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, ev indexer.Event) error {
	we := wireEvent{
		Type:       string(ev.Type),
		Generation: ev.Generation,
	}
	if ev.Err != nil {
		we.Error = ev.Err.Error()
	}

	data, err := json.Marshal(we)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", we.Type, data)
	return err
}
