package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mechanical-burger/internal/model"

	"github.com/rs/zerolog"
)

// keepAliveInterval is how often idle streams get a comment line.
const keepAliveInterval = 25 * time.Second

// sseWriter writes server-sent events.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// newSSEWriter sets the event-stream headers. It answers 500 itself when the
// response cannot be flushed.
func newSSEWriter(w http.ResponseWriter, logger zerolog.Logger) (*sseWriter, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "streaming unsupported", logger)
		return nil, false
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &sseWriter{w: w, flusher: flusher}, true
}

// Event writes one named event with a JSON payload.
func (s *sseWriter) Event(name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// KeepAlive writes a comment line.
func (s *sseWriter) KeepAlive() error {
	if _, err := fmt.Fprint(s.w, ": ping\n\n"); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
