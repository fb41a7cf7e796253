package interview

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/presscoach/backend/internal/model/interview"
	"github.com/presscoach/backend/internal/model/persona"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrDescriptionRequired = errors.New("startup description is required")
	ErrPersonaNotFound     = errors.New("persona not found")
	ErrInvalidDifficulty   = errors.New("invalid difficulty")
	ErrSessionNotActive    = errors.New("session is not active")
	ErrSessionStillActive  = errors.New("session is still active")
	ErrNoPendingQuestion   = errors.New("no pending question to answer")
	ErrGenerationInFlight  = errors.New("next question is still being generated")
	ErrEmptyAnswer         = errors.New("answer must not be empty")
	ErrNoTranscript        = errors.New("session has no transcript")
	ErrEvaluationFailed    = errors.New("evaluation failed")
	ErrImageNotFound       = errors.New("image not available")
)

// Questioner generates the next interview question from the history.
type Questioner interface {
	GenerateQuestion(ctx context.Context, history []interview.Turn) (string, error)
}

// Evaluator turns the finished transcript into an evaluation result.
type Evaluator interface {
	EvaluateInterview(ctx context.Context, transcript []interview.Turn, startupDescription, difficulty string) interview.EvaluationResult
}

// IdentityGenerator produces the journalist identity at session start.
type IdentityGenerator interface {
	Generate(ctx context.Context, p persona.Persona, startupDescription string) (interview.Identity, error)
}

// Transcriber converts recorded answer audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
}

// QuestionerFactory builds the per-session journalist agent; persona and
// settings are fixed for the session's lifetime.
type QuestionerFactory func(p persona.Persona, settings interview.Settings) Questioner

// Deps wires the service to its collaborators.
type Deps struct {
	Personas      persona.Store
	NewQuestioner QuestionerFactory
	Evaluator     Evaluator
	Identity      IdentityGenerator
	Transcriber   Transcriber
	TranscriptDir string
}

// Service owns every interview session for the lifetime of the process.
// Each session is a small state machine (setup → active → closed →
// evaluated) with at most one outstanding question generation.
type Service struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*sessionState
}

// QuestionEvent notifies subscribers that a pending question generation
// completed, successfully or not.
type QuestionEvent struct {
	Question string `json:"question,omitempty"`
	Err      string `json:"error,omitempty"`
}

type sessionState struct {
	mu            sync.Mutex
	sess          *interview.Session
	questioner    Questioner
	generationErr string
	watchers      map[chan QuestionEvent]struct{}
}

// Snapshot is the read view of a session handed to the HTTP layer.
// Images travel separately; the snapshot only says whether they exist.
type Snapshot struct {
	ID              string                  `json:"id"`
	Phase           interview.Phase         `json:"phase"`
	IsActive        bool                    `json:"isActive"`
	Settings        interview.Settings      `json:"settings"`
	JournalistName  string                  `json:"journalistName"`
	OutletName      string                  `json:"outletName"`
	HasPortrait     bool                    `json:"hasPortrait"`
	HasLogo         bool                    `json:"hasLogo"`
	Transcript      []interview.Turn        `json:"transcript"`
	CurrentQuestion string                  `json:"currentQuestion,omitempty"`
	QuestionState   interview.QuestionState `json:"questionState"`
	GenerationError string                  `json:"generationError,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
}

// New bootstraps the in-memory interview service.
func New(deps Deps) *Service {
	return &Service{
		deps:     deps,
		sessions: make(map[string]*sessionState),
	}
}

// Start validates the settings, generates the journalist identity and
// the first question, and activates a fresh session. Gateway failures
// here abort the start; nothing is stored.
func (s *Service) Start(ctx context.Context, settings interview.Settings) (Snapshot, error) {
	settings.StartupDescription = strings.TrimSpace(settings.StartupDescription)
	if settings.StartupDescription == "" {
		return Snapshot{}, ErrDescriptionRequired
	}

	p, ok := s.deps.Personas.FindByID(settings.PersonaID)
	if !ok {
		return Snapshot{}, ErrPersonaNotFound
	}

	if settings.Difficulty == "" {
		settings.Difficulty = "Medium"
	} else if !persona.ValidDifficulty(settings.Difficulty) {
		return Snapshot{}, ErrInvalidDifficulty
	}

	identity, err := s.deps.Identity.Generate(ctx, p, settings.StartupDescription)
	if err != nil {
		return Snapshot{}, fmt.Errorf("start session: %w", err)
	}

	questioner := s.deps.NewQuestioner(p, settings)
	first, err := questioner.GenerateQuestion(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("start session: %w", err)
	}

	sess := interview.NewSession(uuid.NewString())
	sess.Start(settings, identity)
	sess.SetCurrentQuestion(first)

	st := &sessionState{
		sess:       sess,
		questioner: questioner,
		watchers:   make(map[chan QuestionEvent]struct{}),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = st
	s.mu.Unlock()

	log.Printf("[interview] session %s started, persona=%s difficulty=%s", sess.ID, settings.PersonaID, settings.Difficulty)
	return snapshot(st), nil
}

// Get returns a point-in-time snapshot of the session.
func (s *Service) Get(_ context.Context, id string) (Snapshot, error) {
	st, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	return snapshot(st), nil
}

// SubmitAnswer transcribes the recorded audio and records it as the
// answer to the pending question. Transcription is one blocking call;
// its failure propagates to the caller untouched by any retry.
func (s *Service) SubmitAnswer(ctx context.Context, id string, audio []byte, format string) (interview.Turn, error) {
	st, err := s.lookup(id)
	if err != nil {
		return interview.Turn{}, err
	}

	question, err := pendingQuestion(st)
	if err != nil {
		return interview.Turn{}, err
	}

	answer, err := s.deps.Transcriber.Transcribe(ctx, audio, format)
	if err != nil {
		return interview.Turn{}, fmt.Errorf("transcribe answer: %w", err)
	}

	return s.recordAnswer(st, question, answer)
}

// SubmitAnswerText records a typed answer, skipping transcription.
func (s *Service) SubmitAnswerText(_ context.Context, id, text string) (interview.Turn, error) {
	st, err := s.lookup(id)
	if err != nil {
		return interview.Turn{}, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return interview.Turn{}, ErrEmptyAnswer
	}

	question, err := pendingQuestion(st)
	if err != nil {
		return interview.Turn{}, err
	}

	return s.recordAnswer(st, question, text)
}

// End closes the interview. With any recorded turns the session moves to
// the evaluation phase and the transcript is persisted best-effort.
func (s *Service) End(_ context.Context, id string) (Snapshot, error) {
	st, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	st.mu.Lock()
	if !st.sess.IsActive {
		st.mu.Unlock()
		return Snapshot{}, ErrSessionNotActive
	}
	st.sess.End()
	settings := st.sess.Settings
	identity := st.sess.Identity
	transcript := append([]interview.Turn(nil), st.sess.Transcript...)
	st.mu.Unlock()

	if len(transcript) > 0 && s.deps.TranscriptDir != "" {
		if path, err := writeTranscript(s.deps.TranscriptDir, settings, identity, transcript); err != nil {
			log.Printf("[interview] transcript save failed for session %s: %v", id, err)
		} else {
			log.Printf("[interview] transcript saved to %s", path)
		}
	}

	log.Printf("[interview] session %s ended with %d turns", id, len(transcript))
	return snapshot(st), nil
}

// Evaluation lazily computes and memoizes the evaluation. The evaluator
// is invoked at most once per session; a failed result is terminal and
// returned as data on every subsequent read.
func (s *Service) Evaluation(ctx context.Context, id string) (interview.EvaluationResult, error) {
	st, err := s.lookup(id)
	if err != nil {
		return interview.EvaluationResult{}, err
	}

	// The session lock is held across the evaluator call. That blocks
	// concurrent readers of this session for the call's duration, which
	// is exactly the at-most-once guarantee the memoization needs.
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.sess.IsActive {
		return interview.EvaluationResult{}, ErrSessionStillActive
	}
	if st.sess.Evaluation != nil {
		return *st.sess.Evaluation, nil
	}
	if len(st.sess.Transcript) == 0 {
		return interview.EvaluationResult{}, ErrNoTranscript
	}

	transcript := append([]interview.Turn(nil), st.sess.Transcript...)
	result := s.deps.Evaluator.EvaluateInterview(ctx, transcript, st.sess.Settings.StartupDescription, st.sess.Settings.Difficulty)
	st.sess.SetEvaluation(result)

	if result.Failed() {
		log.Printf("[interview] evaluation degraded to error record for session %s", id)
	} else {
		log.Printf("[interview] evaluation completed for session %s, score=%d", id, result.Record.Score)
	}
	return result, nil
}

// Report assembles the downloadable plain-text report. It computes the
// evaluation first if needed and fails if the evaluation degraded.
func (s *Service) Report(ctx context.Context, id string) (string, error) {
	result, err := s.Evaluation(ctx, id)
	if err != nil {
		return "", err
	}
	if result.Failed() {
		return "", ErrEvaluationFailed
	}

	st, err := s.lookup(id)
	if err != nil {
		return "", err
	}

	st.mu.Lock()
	settings := st.sess.Settings
	identity := st.sess.Identity
	transcript := append([]interview.Turn(nil), st.sess.Transcript...)
	st.mu.Unlock()

	return buildReport(settings, identity, result.Record, transcript), nil
}

// Portrait returns the generated journalist portrait, if any.
func (s *Service) Portrait(_ context.Context, id string) ([]byte, error) {
	return s.image(id, func(i interview.Identity) []byte { return i.Portrait })
}

// Logo returns the generated outlet logo, if any.
func (s *Service) Logo(_ context.Context, id string) ([]byte, error) {
	return s.image(id, func(i interview.Identity) []byte { return i.Logo })
}

// Subscribe registers for question events on a session. The returned
// cancel func must be called to release the subscription.
func (s *Service) Subscribe(id string) (<-chan QuestionEvent, func(), error) {
	st, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan QuestionEvent, 4)
	st.mu.Lock()
	st.watchers[ch] = struct{}{}
	st.mu.Unlock()

	cancel := func() {
		st.mu.Lock()
		delete(st.watchers, ch)
		st.mu.Unlock()
	}
	return ch, cancel, nil
}

func (s *Service) lookup(id string) (*sessionState, error) {
	s.mu.RLock()
	st, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return st, nil
}

func (s *Service) image(id string, pick func(interview.Identity) []byte) ([]byte, error) {
	st, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	img := pick(st.sess.Identity)
	st.mu.Unlock()

	if len(img) == 0 {
		return nil, ErrImageNotFound
	}
	return append([]byte(nil), img...), nil
}

func pendingQuestion(st *sessionState) (string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.sess.IsActive {
		return "", ErrSessionNotActive
	}
	if st.sess.QuestionState == interview.QuestionAwaiting {
		return "", ErrGenerationInFlight
	}
	if st.sess.CurrentQuestion == "" {
		return "", ErrNoPendingQuestion
	}
	return st.sess.CurrentQuestion, nil
}

// recordAnswer appends the turn, clears the pending question, and kicks
// off the single asynchronous next-question generation.
func (s *Service) recordAnswer(st *sessionState, question, answer string) (interview.Turn, error) {
	st.mu.Lock()
	if !st.sess.IsActive {
		st.mu.Unlock()
		return interview.Turn{}, ErrSessionNotActive
	}
	if st.sess.CurrentQuestion != question {
		st.mu.Unlock()
		return interview.Turn{}, ErrNoPendingQuestion
	}
	if err := st.sess.AddTurn(question, answer); err != nil {
		st.mu.Unlock()
		return interview.Turn{}, err
	}
	st.sess.SetCurrentQuestion("")
	st.sess.QuestionState = interview.QuestionAwaiting
	st.generationErr = ""
	history := append([]interview.Turn(nil), st.sess.Transcript...)
	st.mu.Unlock()

	go s.generateNextQuestion(st, history)

	return interview.Turn{Question: question, Answer: answer}, nil
}

func (s *Service) generateNextQuestion(st *sessionState, history []interview.Turn) {
	// context.Background on purpose: the generation outlives the request
	// that triggered it and there is no cancellation path.
	question, err := st.questioner.GenerateQuestion(context.Background(), history)

	st.mu.Lock()
	// The awaiting flag is cleared unconditionally once the one
	// outstanding call returns.
	st.sess.QuestionState = interview.QuestionIdle

	var event QuestionEvent
	switch {
	case err != nil:
		st.generationErr = err.Error()
		event = QuestionEvent{Err: err.Error()}
		log.Printf("[interview] next question generation failed for session %s: %v", st.sess.ID, err)
	case st.sess.IsActive:
		st.sess.SetCurrentQuestion(question)
		event = QuestionEvent{Question: question}
	default:
		// Session ended while generating; drop the question.
		st.mu.Unlock()
		return
	}

	watchers := make([]chan QuestionEvent, 0, len(st.watchers))
	for ch := range st.watchers {
		watchers = append(watchers, ch)
	}
	st.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- event:
		default:
		}
	}
}

func snapshot(st *sessionState) Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess := st.sess
	return Snapshot{
		ID:              sess.ID,
		Phase:           sess.Phase,
		IsActive:        sess.IsActive,
		Settings:        sess.Settings,
		JournalistName:  sess.Identity.JournalistName,
		OutletName:      sess.Identity.OutletName,
		HasPortrait:     len(sess.Identity.Portrait) > 0,
		HasLogo:         len(sess.Identity.Logo) > 0,
		Transcript:      append([]interview.Turn{}, sess.Transcript...),
		CurrentQuestion: sess.CurrentQuestion,
		QuestionState:   sess.QuestionState,
		GenerationError: st.generationErr,
		CreatedAt:       sess.CreatedAt,
	}
}
