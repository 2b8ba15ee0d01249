package server

import (
	"fmt"
	"net/http"
)

// SSEWriter writes Server-Sent Events, flushing after every record so
// clients see chunks as they arrive.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter prepares the response for event streaming.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteRaw writes an already-framed SSE record verbatim and flushes.
func (s *SSEWriter) WriteRaw(record string) {
	if _, err := fmt.Fprint(s.w, record); err != nil {
		return
	}
	s.flusher.Flush()
}
