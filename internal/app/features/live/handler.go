// internal/app/features/live/handler.go

// Package live bridges the in-process notification hub onto an SSE stream
// so dashboards refresh the moment a session changes.
package live

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kevyamon/lokolink/internal/app/system/notify"
)

// heartbeatInterval keeps idle connections alive through proxies.
const heartbeatInterval = 25 * time.Second

// Handler owns the event-stream endpoint.
type Handler struct {
	Hub *notify.Hub
	Log *zap.Logger
}

// NewHandler constructs a live Handler.
func NewHandler(hub *notify.Hub, logger *zap.Logger) *Handler {
	return &Handler{Hub: hub, Log: logger}
}

// Stream handles GET /api/live. The connection stays open until the client
// goes away; each session change arrives as one SSE event.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	fl, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	events, cancel := h.Hub.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fl.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			fl.Flush()
		case ev, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				h.Log.Error("event marshal failed", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, payload)
			fl.Flush()
		}
	}
}
