package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	interviewHandler "github.com/presscoach/backend/internal/handler/interview"
	personaHandler "github.com/presscoach/backend/internal/handler/persona"
	setupHandler "github.com/presscoach/backend/internal/handler/setup"
	middlewarePkg "github.com/presscoach/backend/internal/middleware"
	personaModel "github.com/presscoach/backend/internal/model/persona"
	interviewService "github.com/presscoach/backend/internal/service/interview"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(personas personaModel.Store, interviewSvc *interviewService.Service, startupFile string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		personaHandler.New(personas).RegisterRoutes(api)
		setupHandler.New(startupFile).RegisterRoutes(api)
		interviewHandler.New(interviewSvc).RegisterRoutes(api)
	})

	return r
}
