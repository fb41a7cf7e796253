package interview

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/presscoach/backend/pkg/utils"
)

// handleEvents streams question events for a session over Server-Sent
// Events. The client submits an answer, then listens here for the
// asynchronously generated next question; heartbeats keep the
// connection alive while the model thinks.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	events, cancel, err := h.svc.Subscribe(sessionID)
	if err != nil {
		h.respondServiceError(w, err, "failed to subscribe")
		return
	}
	defer cancel()

	utils.SetupSSEHeaders(w)

	ctx := r.Context()
	ticker := time.NewTicker(8 * time.Second)
	defer ticker.Stop()

	utils.SendSSEChunk(w, flusher, map[string]any{
		"event":   "status",
		"message": "stream established",
	})

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			utils.SendSSEEvent(w, flusher, "question", event)
		case t := <-ticker.C:
			utils.SendSSEChunk(w, flusher, map[string]any{
				"event": "heartbeat",
				"time":  t.UTC().Format(time.RFC3339),
			})
		}
	}
}
