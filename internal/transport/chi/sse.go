package chi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/cognicart/cognicart/internal/domain/progress"
)

// SearchStream handles POST /api/v1/search/stream. It runs the same
// pipeline as Search but relays each stage transition to the client as
// a server-sent event; the terminal event carries the full response.
func (s *Server) SearchStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchRequest(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, codeInternalError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	stream := progress.NewStream(0)
	go func() {
		// Search publishes the terminal event itself; the error return
		// is already reflected in the stream.
		_, _ = s.pipeline.Search(r.Context(), req.Query, req.priorContext(), stream)
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-stream.Events():
			if !open {
				return
			}
			if err := writeSSE(w, ev); err != nil {
				s.logger.Debug("sse write failed, client gone", zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev progress.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Stage, payload)
	return err
}
