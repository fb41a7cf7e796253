package interview

import (
	"errors"
	"time"
)

// Phase tracks the session lifecycle: Setup until the interview starts,
// Active while turns accumulate, ClosedPendingEval once ended with a
// non-empty transcript, Evaluated after the evaluation is memoized.
type Phase string

const (
	PhaseSetup             Phase = "setup"
	PhaseActive            Phase = "active"
	PhaseClosedPendingEval Phase = "closed_pending_eval"
	PhaseEvaluated         Phase = "evaluated"
)

// QuestionState signals whether a next-question generation is in flight.
// Only one generation is ever outstanding per session.
type QuestionState string

const (
	QuestionIdle     QuestionState = "idle"
	QuestionAwaiting QuestionState = "awaiting_next_question"
)

var (
	ErrEmptyQuestion    = errors.New("interview: turn question must not be empty")
	ErrSessionNotActive = errors.New("interview: session is not active")
)

// Settings are fixed at session start and never change mid-interview.
type Settings struct {
	StartupDescription string `json:"startupDescription"`
	PersonaID          string `json:"personaId"`
	Difficulty         string `json:"difficulty"`
	NewsContext        string `json:"newsContext,omitempty"`
}

// Identity is the generated journalist identity. Portrait and Logo are
// best-effort: nil means generation failed and the shell renders without.
type Identity struct {
	JournalistName string `json:"journalistName"`
	OutletName     string `json:"outletName"`
	Portrait       []byte `json:"-"`
	Logo           []byte `json:"-"`
}

// Session is the full mutable state of one interview attempt. Callers
// are responsible for serializing access; the methods only enforce the
// lifecycle transitions.
type Session struct {
	ID              string
	Settings        Settings
	Identity        Identity
	Transcript      []Turn
	CurrentQuestion string
	QuestionState   QuestionState
	Phase           Phase
	IsActive        bool
	Evaluation      *EvaluationResult
	CreatedAt       time.Time
}

// NewSession returns an empty session in the Setup phase.
func NewSession(id string) *Session {
	return &Session{
		ID:            id,
		Phase:         PhaseSetup,
		QuestionState: QuestionIdle,
		CreatedAt:     time.Now().UTC(),
	}
}

// Start populates the settings and identity, clears any prior transcript
// and evaluation, and activates the session. Safe to call on a reused
// session: nothing leaks across starts.
func (s *Session) Start(settings Settings, identity Identity) {
	s.Settings = settings
	s.Identity = identity
	s.Transcript = nil
	s.CurrentQuestion = ""
	s.QuestionState = QuestionIdle
	s.Evaluation = nil
	s.IsActive = true
	s.Phase = PhaseActive
}

// AddTurn appends a turn to the transcript. The question must be
// non-empty and the session active.
func (s *Session) AddTurn(question, answer string) error {
	if !s.IsActive {
		return ErrSessionNotActive
	}
	if question == "" {
		return ErrEmptyQuestion
	}
	s.Transcript = append(s.Transcript, Turn{Question: question, Answer: answer})
	return nil
}

// SetCurrentQuestion replaces the pending question. An empty value means
// "awaiting generation".
func (s *Session) SetCurrentQuestion(question string) {
	s.CurrentQuestion = question
}

// End deactivates the session. With a non-empty transcript the session
// moves to ClosedPendingEval; an interview ended before any answer goes
// back to Setup.
func (s *Session) End() {
	s.IsActive = false
	if len(s.Transcript) > 0 {
		s.Phase = PhaseClosedPendingEval
	} else {
		s.Phase = PhaseSetup
	}
}

// SetEvaluation memoizes the evaluation result and completes the
// lifecycle. The result is terminal either way: a failed evaluation is
// never re-run on the same session.
func (s *Session) SetEvaluation(result EvaluationResult) {
	s.Evaluation = &result
	s.Phase = PhaseEvaluated
}
