package setup

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/presscoach/backend/pkg/utils"
)

// Handler serves interview setup defaults.
type Handler struct {
	startupFile string
}

// New creates the setup handler. startupFile points at the optional
// plain-text file seeding the default startup description.
func New(startupFile string) *Handler {
	return &Handler{startupFile: startupFile}
}

// RegisterRoutes mounts the setup routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/setup/defaults", h.handleDefaults)
}

// handleDefaults returns the default startup description, empty when the
// seed file is absent or unreadable.
func (h *Handler) handleDefaults(w http.ResponseWriter, _ *http.Request) {
	description := ""
	if h.startupFile != "" {
		data, err := os.ReadFile(h.startupFile)
		switch {
		case err == nil:
			description = strings.TrimSpace(string(data))
		case !os.IsNotExist(err):
			log.Printf("[setup] failed to read startup file: %v", err)
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"startupDescription": description})
}
