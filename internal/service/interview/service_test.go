package interview_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interviewmodel "github.com/presscoach/backend/internal/model/interview"
	"github.com/presscoach/backend/internal/model/persona"
	interviewservice "github.com/presscoach/backend/internal/service/interview"
)

type fakeQuestioner struct {
	mu       sync.Mutex
	calls    int
	question string
	err      error
	// block, when non-nil, gates every call after the first (the first
	// call happens synchronously during Start).
	block chan struct{}
}

func (f *fakeQuestioner) GenerateQuestion(context.Context, []interviewmodel.Turn) (string, error) {
	f.mu.Lock()
	f.calls++
	calls := f.calls
	f.mu.Unlock()

	if f.block != nil && calls > 1 {
		<-f.block
	}
	return f.question, f.err
}

type fakeEvaluator struct {
	mu     sync.Mutex
	calls  int
	result interviewmodel.EvaluationResult
}

func (f *fakeEvaluator) EvaluateInterview(context.Context, []interviewmodel.Turn, string, string) interviewmodel.EvaluationResult {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.result
}

type fakeIdentity struct{}

func (fakeIdentity) Generate(context.Context, persona.Persona, string) (interviewmodel.Identity, error) {
	return interviewmodel.Identity{
		JournalistName: "Dana Wu",
		OutletName:     "The Circuit Ledger",
		Portrait:       []byte("png-portrait"),
	}, nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(context.Context, []byte, string) (string, error) {
	return f.text, f.err
}

type fixture struct {
	svc        *interviewservice.Service
	questioner *fakeQuestioner
	evaluator  *fakeEvaluator
	dir        string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	questioner := &fakeQuestioner{question: "What does the company do?"}
	evaluator := &fakeEvaluator{result: interviewmodel.EvaluationResult{
		Record: &interviewmodel.Evaluation{
			Score:    7,
			Headline: "Founder stays on message",
			Quotes:   []string{"we ship every week"},
		},
	}}
	dir := t.TempDir()

	svc := interviewservice.New(interviewservice.Deps{
		Personas: persona.NewMemoryStore(persona.Seed()),
		NewQuestioner: func(persona.Persona, interviewmodel.Settings) interviewservice.Questioner {
			return questioner
		},
		Evaluator:     evaluator,
		Identity:      fakeIdentity{},
		Transcriber:   &fakeTranscriber{text: "We build developer tools."},
		TranscriptDir: dir,
	})

	return &fixture{svc: svc, questioner: questioner, evaluator: evaluator, dir: dir}
}

func validSettings() interviewmodel.Settings {
	return interviewmodel.Settings{
		StartupDescription: "We build developer tools.",
		PersonaID:          "techcrunch",
		Difficulty:         "Hard",
	}
}

func (f *fixture) startAndAnswer(t *testing.T, answers int) string {
	t.Helper()
	ctx := context.Background()

	snap, err := f.svc.Start(ctx, validSettings())
	require.NoError(t, err)

	for i := 0; i < answers; i++ {
		events, cancel, err := f.svc.Subscribe(snap.ID)
		require.NoError(t, err)

		_, err = f.svc.SubmitAnswerText(ctx, snap.ID, "a considered answer")
		require.NoError(t, err)

		select {
		case <-events:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for next question")
		}
		cancel()
	}
	return snap.ID
}

func TestStartValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, interviewmodel.Settings{PersonaID: "techcrunch"})
	assert.ErrorIs(t, err, interviewservice.ErrDescriptionRequired)

	settings := validSettings()
	settings.PersonaID = "unknown"
	_, err = f.svc.Start(ctx, settings)
	assert.ErrorIs(t, err, interviewservice.ErrPersonaNotFound)

	settings = validSettings()
	settings.Difficulty = "Impossible"
	_, err = f.svc.Start(ctx, settings)
	assert.ErrorIs(t, err, interviewservice.ErrInvalidDifficulty)
}

func TestStartProducesActiveSessionWithFirstQuestion(t *testing.T) {
	f := newFixture(t)

	snap, err := f.svc.Start(context.Background(), validSettings())
	require.NoError(t, err)

	assert.True(t, snap.IsActive)
	assert.Equal(t, interviewmodel.PhaseActive, snap.Phase)
	assert.Equal(t, "What does the company do?", snap.CurrentQuestion)
	assert.Equal(t, interviewmodel.QuestionIdle, snap.QuestionState)
	assert.Empty(t, snap.Transcript)
	assert.Equal(t, "Dana Wu", snap.JournalistName)
	assert.True(t, snap.HasPortrait)
	assert.False(t, snap.HasLogo)
	assert.Equal(t, 1, f.questioner.calls)
}

func TestSubmitAnswerAppendsTurnAndGeneratesNext(t *testing.T) {
	f := newFixture(t)
	id := f.startAndAnswer(t, 3)

	snap, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)

	require.Len(t, snap.Transcript, 3)
	assert.Equal(t, "What does the company do?", snap.Transcript[0].Question)
	assert.Equal(t, "a considered answer", snap.Transcript[0].Answer)
	assert.Equal(t, interviewmodel.QuestionIdle, snap.QuestionState)
	assert.NotEmpty(t, snap.CurrentQuestion)
	// Start plus one generation per answered turn.
	assert.Equal(t, 4, f.questioner.calls)
}

func TestSubmitAnswerUsesTranscriptVerbatim(t *testing.T) {
	f := newFixture(t)
	snap, err := f.svc.Start(context.Background(), validSettings())
	require.NoError(t, err)

	turn, err := f.svc.SubmitAnswer(context.Background(), snap.ID, []byte("audio-bytes"), "wav")
	require.NoError(t, err)
	assert.Equal(t, "We build developer tools.", turn.Answer)
}

func TestSubmitAnswerRejectedWhileGenerationInFlight(t *testing.T) {
	f := newFixture(t)
	f.questioner.block = make(chan struct{})

	snap, err := f.svc.Start(context.Background(), validSettings())
	require.NoError(t, err)

	events, cancel, err := f.svc.Subscribe(snap.ID)
	require.NoError(t, err)
	defer cancel()

	_, err = f.svc.SubmitAnswerText(context.Background(), snap.ID, "first answer")
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswerText(context.Background(), snap.ID, "too eager")
	assert.ErrorIs(t, err, interviewservice.ErrGenerationInFlight)

	close(f.questioner.block)
	select {
	case <-events:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for next question")
	}
}

func TestSubmitAnswerRequiresActiveSession(t *testing.T) {
	f := newFixture(t)
	id := f.startAndAnswer(t, 1)

	_, err := f.svc.End(context.Background(), id)
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswerText(context.Background(), id, "late answer")
	assert.ErrorIs(t, err, interviewservice.ErrSessionNotActive)
}

func TestEvaluationMemoized(t *testing.T) {
	f := newFixture(t)
	id := f.startAndAnswer(t, 2)

	_, err := f.svc.End(context.Background(), id)
	require.NoError(t, err)

	first, err := f.svc.Evaluation(context.Background(), id)
	require.NoError(t, err)
	second, err := f.svc.Evaluation(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, 1, f.evaluator.calls, "two reads must trigger exactly one gateway call")
	assert.Equal(t, first, second)
	require.False(t, first.Failed())
	assert.Equal(t, 7, first.Record.Score)

	snap, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, interviewmodel.PhaseEvaluated, snap.Phase)
}

func TestEvaluationFailureIsTerminal(t *testing.T) {
	f := newFixture(t)
	f.evaluator.result = interviewmodel.EvaluationResult{Failure: &interviewmodel.EvaluationError{
		Message: "Failed to parse evaluation",
		RawText: "garbage",
	}}

	id := f.startAndAnswer(t, 1)
	_, err := f.svc.End(context.Background(), id)
	require.NoError(t, err)

	first, err := f.svc.Evaluation(context.Background(), id)
	require.NoError(t, err)
	require.True(t, first.Failed())

	second, err := f.svc.Evaluation(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, second.Failed())
	assert.Equal(t, 1, f.evaluator.calls, "a failed evaluation must never be re-run")
}

func TestEvaluationGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.svc.Start(ctx, validSettings())
	require.NoError(t, err)

	_, err = f.svc.Evaluation(ctx, snap.ID)
	assert.ErrorIs(t, err, interviewservice.ErrSessionStillActive)

	_, err = f.svc.End(ctx, snap.ID)
	require.NoError(t, err)

	_, err = f.svc.Evaluation(ctx, snap.ID)
	assert.ErrorIs(t, err, interviewservice.ErrNoTranscript)

	_, err = f.svc.Evaluation(ctx, "missing")
	assert.ErrorIs(t, err, interviewservice.ErrSessionNotFound)
}

func TestEndWritesTranscriptFile(t *testing.T) {
	f := newFixture(t)
	id := f.startAndAnswer(t, 2)

	snap, err := f.svc.End(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, snap.IsActive)
	assert.Equal(t, interviewmodel.PhaseClosedPendingEval, snap.Phase)

	files, err := filepath.Glob(filepath.Join(f.dir, "interview_*.txt"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Q1: What does the company do?")
	assert.Contains(t, string(data), "Journalist Persona: techcrunch")
}

func TestReportContainsSettingsEvaluationAndTranscript(t *testing.T) {
	f := newFixture(t)
	id := f.startAndAnswer(t, 1)
	_, err := f.svc.End(context.Background(), id)
	require.NoError(t, err)

	report, err := f.svc.Report(context.Background(), id)
	require.NoError(t, err)

	assert.Contains(t, report, "INTERVIEW REPORT")
	assert.Contains(t, report, "Score: 7/10")
	assert.Contains(t, report, "Headline: Founder stays on message")
	assert.Contains(t, report, `"we ship every week"`)
	assert.Contains(t, report, "Q1: What does the company do?")
	assert.Contains(t, report, "Dana Wu (The Circuit Ledger)")
}

func TestReportFailsWhenEvaluationDegraded(t *testing.T) {
	f := newFixture(t)
	f.evaluator.result = interviewmodel.EvaluationResult{Failure: &interviewmodel.EvaluationError{Message: "Failed to parse evaluation"}}

	id := f.startAndAnswer(t, 1)
	_, err := f.svc.End(context.Background(), id)
	require.NoError(t, err)

	_, err = f.svc.Report(context.Background(), id)
	assert.ErrorIs(t, err, interviewservice.ErrEvaluationFailed)
}

func TestNextQuestionErrorSurfacesInSnapshot(t *testing.T) {
	f := newFixture(t)

	snap, err := f.svc.Start(context.Background(), validSettings())
	require.NoError(t, err)

	events, cancel, err := f.svc.Subscribe(snap.ID)
	require.NoError(t, err)
	defer cancel()

	f.questioner.mu.Lock()
	f.questioner.err = errors.New("model unavailable")
	f.questioner.mu.Unlock()

	_, err = f.svc.SubmitAnswerText(context.Background(), snap.ID, "an answer")
	require.NoError(t, err)

	select {
	case event := <-events:
		assert.Contains(t, event.Err, "model unavailable")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for generation failure event")
	}

	got, err := f.svc.Get(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, interviewmodel.QuestionIdle, got.QuestionState, "the awaiting flag is cleared even on failure")
	assert.Empty(t, got.CurrentQuestion)
	assert.Contains(t, got.GenerationError, "model unavailable")
}

func TestPortraitAndLogoRetrieval(t *testing.T) {
	f := newFixture(t)
	snap, err := f.svc.Start(context.Background(), validSettings())
	require.NoError(t, err)

	img, err := f.svc.Portrait(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-portrait"), img)

	_, err = f.svc.Logo(context.Background(), snap.ID)
	assert.ErrorIs(t, err, interviewservice.ErrImageNotFound)
}
