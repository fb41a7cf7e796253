package interview_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presscoach/backend/internal/model/interview"
)

func activeSession() *interview.Session {
	s := interview.NewSession("test-session")
	s.Start(interview.Settings{
		StartupDescription: "We build AI tooling.",
		PersonaID:          "techcrunch",
		Difficulty:         "Hard",
	}, interview.Identity{JournalistName: "Sam Reed", OutletName: "The Signal"})
	return s
}

func TestSessionTranscriptAppendOnly(t *testing.T) {
	s := activeSession()

	const turns = 5
	for i := 0; i < turns; i++ {
		err := s.AddTurn(fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i))
		require.NoError(t, err)
	}

	require.Len(t, s.Transcript, turns)
	for i, turn := range s.Transcript {
		assert.Equal(t, fmt.Sprintf("question %d", i), turn.Question)
		assert.Equal(t, fmt.Sprintf("answer %d", i), turn.Answer)
	}
}

func TestSessionAddTurnRequiresQuestion(t *testing.T) {
	s := activeSession()

	err := s.AddTurn("", "an answer without a question")
	assert.ErrorIs(t, err, interview.ErrEmptyQuestion)
	assert.Empty(t, s.Transcript)
}

func TestSessionAddTurnRequiresActive(t *testing.T) {
	s := interview.NewSession("inactive")

	err := s.AddTurn("q", "a")
	assert.ErrorIs(t, err, interview.ErrSessionNotActive)
}

func TestSessionStartResetsState(t *testing.T) {
	s := activeSession()
	require.NoError(t, s.AddTurn("q1", "a1"))
	s.SetCurrentQuestion("q2")
	s.End()
	s.SetEvaluation(interview.EvaluationResult{Record: &interview.Evaluation{Score: 5}})

	s.Start(interview.Settings{
		StartupDescription: "Something new.",
		PersonaID:          "forbes",
		Difficulty:         "Easy",
	}, interview.Identity{})

	assert.Empty(t, s.Transcript)
	assert.Empty(t, s.CurrentQuestion)
	assert.Nil(t, s.Evaluation)
	assert.True(t, s.IsActive)
	assert.Equal(t, interview.PhaseActive, s.Phase)
	assert.Equal(t, interview.QuestionIdle, s.QuestionState)
	assert.Equal(t, "forbes", s.Settings.PersonaID)
}

func TestSessionEndPhases(t *testing.T) {
	s := activeSession()
	require.NoError(t, s.AddTurn("q1", "a1"))
	s.End()
	assert.False(t, s.IsActive)
	assert.Equal(t, interview.PhaseClosedPendingEval, s.Phase)

	empty := activeSession()
	empty.End()
	assert.Equal(t, interview.PhaseSetup, empty.Phase)
}

func TestSessionSetEvaluationCompletesLifecycle(t *testing.T) {
	s := activeSession()
	require.NoError(t, s.AddTurn("q1", "a1"))
	s.End()

	s.SetEvaluation(interview.EvaluationResult{Record: &interview.Evaluation{Score: 8}})
	assert.Equal(t, interview.PhaseEvaluated, s.Phase)
	require.NotNil(t, s.Evaluation)
	assert.False(t, s.Evaluation.Failed())
}
