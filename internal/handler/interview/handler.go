package interview

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/presscoach/backend/internal/model/interview"
	interviewservice "github.com/presscoach/backend/internal/service/interview"
	"github.com/presscoach/backend/pkg/utils"
)

const maxAudioUpload = 32 << 20 // 32MB

// Handler exposes the interview session lifecycle over HTTP.
type Handler struct {
	svc *interviewservice.Service
}

// New creates the interview handler.
func New(svc *interviewservice.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the interview routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/interviews", func(r chi.Router) {
		r.Post("/", h.handleStart)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Post("/answers", h.handleSubmitAnswer)
			r.Post("/end", h.handleEnd)
			r.Get("/evaluation", h.handleEvaluation)
			r.Get("/report", h.handleReport)
			r.Get("/portrait", h.handlePortrait)
			r.Get("/logo", h.handleLogo)
			r.Get("/events", h.handleEvents)
		})
	})
}

// handleStart begins a new interview session.
func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		StartupDescription string `json:"startupDescription"`
		PersonaID          string `json:"personaId"`
		Difficulty         string `json:"difficulty"`
		NewsContext        string `json:"newsContext"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot, err := h.svc.Start(r.Context(), interview.Settings{
		StartupDescription: payload.StartupDescription,
		PersonaID:          payload.PersonaID,
		Difficulty:         payload.Difficulty,
		NewsContext:        payload.NewsContext,
	})
	if err != nil {
		h.respondServiceError(w, err, "failed to start interview")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, snapshot)
}

// handleGet returns a session snapshot.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.svc.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err, "failed to load session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, snapshot)
}

// handleSubmitAnswer accepts the answer to the pending question, either
// as a multipart audio recording or as typed JSON text. The appended
// turn comes back immediately; the next question arrives asynchronously
// via the events stream or a later snapshot.
func (h *Handler) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var (
		turn interview.Turn
		err  error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		turn, err = h.submitAudio(w, r, sessionID)
		if err != nil && errors.Is(err, errBadUpload) {
			return // response already written
		}
	} else {
		var payload struct {
			Text string `json:"text"`
		}
		if decodeErr := json.NewDecoder(r.Body).Decode(&payload); decodeErr != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		turn, err = h.svc.SubmitAnswerText(r.Context(), sessionID, payload.Text)
	}
	if err != nil {
		h.respondServiceError(w, err, "failed to submit answer")
		return
	}

	utils.RespondJSON(w, http.StatusAccepted, map[string]any{
		"turn":          turn,
		"questionState": interview.QuestionAwaiting,
	})
}

var errBadUpload = errors.New("bad upload")

func (h *Handler) submitAudio(w http.ResponseWriter, r *http.Request, sessionID string) (interview.Turn, error) {
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return interview.Turn{}, errBadUpload
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return interview.Turn{}, errBadUpload
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read audio file")
		return interview.Turn{}, errBadUpload
	}

	format := r.FormValue("format")
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	}
	if format == "" {
		format = "wav"
	}

	return h.svc.SubmitAnswer(r.Context(), sessionID, audio, format)
}

// handleEnd closes the interview.
func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.svc.End(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err, "failed to end interview")
		return
	}
	utils.RespondJSON(w, http.StatusOK, snapshot)
}

// handleEvaluation returns the lazily computed evaluation. A degraded
// evaluation still answers 200: the error record is data, not a fault.
func (h *Handler) handleEvaluation(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Evaluation(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err, "failed to evaluate interview")
		return
	}

	if result.Failed() {
		utils.RespondJSON(w, http.StatusOK, result)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"evaluation": result.Record,
		"progress":   result.Record.NormalizedScore(),
	})
}

// handleReport streams the plain-text report as a download.
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Report(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err, "failed to build report")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="interview_report.txt"`)
	if _, err := w.Write([]byte(report)); err != nil {
		log.Printf("[interview] failed to write report: %v", err)
	}
}

func (h *Handler) handlePortrait(w http.ResponseWriter, r *http.Request) {
	h.serveImage(w, r, h.svc.Portrait)
}

func (h *Handler) handleLogo(w http.ResponseWriter, r *http.Request) {
	h.serveImage(w, r, h.svc.Logo)
}

func (h *Handler) serveImage(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, id string) ([]byte, error)) {
	img, err := fetch(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err, "failed to load image")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(img); err != nil {
		log.Printf("[interview] failed to write image: %v", err)
	}
}

// respondServiceError maps service sentinels onto HTTP statuses; unknown
// errors surface as a generic 500 with the details kept in the log.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, interviewservice.ErrSessionNotFound),
		errors.Is(err, interviewservice.ErrImageNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, interviewservice.ErrDescriptionRequired),
		errors.Is(err, interviewservice.ErrPersonaNotFound),
		errors.Is(err, interviewservice.ErrInvalidDifficulty),
		errors.Is(err, interviewservice.ErrEmptyAnswer):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, interviewservice.ErrSessionNotActive),
		errors.Is(err, interviewservice.ErrSessionStillActive),
		errors.Is(err, interviewservice.ErrGenerationInFlight),
		errors.Is(err, interviewservice.ErrNoPendingQuestion),
		errors.Is(err, interviewservice.ErrNoTranscript),
		errors.Is(err, interviewservice.ErrEvaluationFailed):
		utils.RespondError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("[interview] %s: %v", fallback, err)
		utils.RespondError(w, http.StatusInternalServerError, fallback)
	}
}
