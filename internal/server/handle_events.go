package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

func handleEvents(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		ch := e.Broker.Subscribe()
		defer e.Broker.Unsubscribe(ch)

		// A new subscriber sees the current snapshot right away, not
		// just the one after the next mutation.
		if data, err := json.Marshal(SSEEvent{
			Type:  "state",
			State: stateResponse(e.Session.Snapshot(), e.Playback),
		}); err == nil {
			fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
			flusher.Flush()
		}

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
