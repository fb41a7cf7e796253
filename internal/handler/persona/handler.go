package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/presscoach/backend/internal/model/persona"
	"github.com/presscoach/backend/pkg/utils"
)

// Handler serves the journalist persona catalog.
type Handler struct {
	personas persona.Store
}

// New creates the persona handler.
func New(personas persona.Store) *Handler {
	return &Handler{personas: personas}
}

// RegisterRoutes mounts the persona routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
}

// handleListPersonas returns the personas together with the supported
// difficulty levels, everything the setup form needs in one call.
func (h *Handler) handleListPersonas(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"personas":     h.personas.List(),
		"difficulties": persona.Difficulties(),
	})
}
