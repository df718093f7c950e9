// internal/app/features/posts/stream.go
package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/collabboard/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeStream handles GET /api/posts/stream: a Server-Sent Events stream
// of the post list. Every delivery is the complete snapshot, newest first;
// a new snapshot goes out after each mutation signal and on a periodic
// refresh. The stream ends when the client disconnects.
func (h *Handler) ServeStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	wake, unsubscribe := h.Feed.Subscribe()
	defer unsubscribe()

	h.Log.Debug("post stream opened")

	// Initial snapshot straight away, then on every signal.
	if !h.sendSnapshot(r.Context(), w, flusher) {
		return
	}

	refresh := time.NewTicker(h.StreamRefresh)
	defer refresh.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.Log.Debug("post stream closed by client")
			return
		case _, open := <-wake:
			if !open {
				// Hub shut down; end the stream cleanly.
				return
			}
			if !h.sendSnapshot(r.Context(), w, flusher) {
				return
			}
		case <-refresh.C:
			if !h.sendSnapshot(r.Context(), w, flusher) {
				return
			}
		}
	}
}

// sendSnapshot writes one SSE event carrying the full post list. Returns
// false when the stream should end.
func (h *Handler) sendSnapshot(ctx context.Context, w http.ResponseWriter, flusher http.Flusher) bool {
	dbCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	posts, err := h.Posts.List(dbCtx)
	if err != nil {
		h.Log.Error("post stream: list failed", zap.Error(err))
		// Leave the stream open; the next signal or refresh retries.
		return ctx.Err() == nil
	}

	payload, err := json.Marshal(toViews(posts))
	if err != nil {
		h.Log.Error("post stream: marshal failed", zap.Error(err))
		return false
	}

	if _, err := fmt.Fprintf(w, "event: posts\ndata: %s\n\n", payload); err != nil {
		return false
	}
	flusher.Flush()
	return true
}
