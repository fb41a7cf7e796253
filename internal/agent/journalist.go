package agent

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/presscoach/backend/internal/model/interview"
	"github.com/presscoach/backend/internal/model/persona"
)

// Journalist generates interview questions in a fixed persona. Persona,
// difficulty, startup description, and news context are set at
// construction and never change mid-session.
type Journalist struct {
	gw           TextGateway
	persona      persona.Persona
	difficulty   string
	startupDesc  string
	newsContext  string
	usageLogPath string
}

// NewJournalist builds a journalist agent for one interview session.
// usageLogPath may be empty to disable the usage log.
func NewJournalist(gw TextGateway, p persona.Persona, settings interview.Settings, usageLogPath string) *Journalist {
	return &Journalist{
		gw:           gw,
		persona:      p,
		difficulty:   settings.Difficulty,
		startupDesc:  settings.StartupDescription,
		newsContext:  settings.NewsContext,
		usageLogPath: usageLogPath,
	}
}

// GenerateQuestion produces the next question from the history so far.
// The history may be empty (first question). The gateway's trimmed text
// is returned verbatim; the single-question and no-repetition rules live
// in the prompt, not in code.
func (j *Journalist) GenerateQuestion(ctx context.Context, history []interview.Turn) (string, error) {
	j.logUsage(len(history))

	text, err := j.gw.GenerateText(ctx, j.buildPrompt(history))
	if err != nil {
		return "", fmt.Errorf("generate question: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (j *Journalist) buildPrompt(history []interview.Turn) string {
	var b strings.Builder
	b.WriteString("You are a professional journalist conducting an interview with a startup founder.\n\n")
	fmt.Fprintf(&b, "**Your Persona:** %s (%s)\n", j.persona.Name, j.persona.Style)
	if j.persona.PromptHint != "" {
		fmt.Fprintf(&b, "**Persona Notes:** %s\n", j.persona.PromptHint)
	}
	fmt.Fprintf(&b, "**Difficulty Level:** %s (Adjust your tone and skepticism accordingly)\n", j.difficulty)
	fmt.Fprintf(&b, "**Startup Description:** %s\n", j.startupDesc)
	newsContext := j.newsContext
	if newsContext == "" {
		newsContext = "None"
	}
	fmt.Fprintf(&b, "**News Context:** %s\n", newsContext)
	b.WriteString(`
**Instructions:**
1. Ask ONE clear, relevant question.
2. Do not repeat previous questions.
3. If this is the first question, start with a standard opening relevant to the startup.
4. If there is history, follow up on the previous answer or pivot to a new relevant topic.
5. Keep the question realistic and challenging but fair (based on difficulty).
6. Output ONLY the question text.
`)

	if len(history) > 0 {
		b.WriteString("\n**Interview History:**\n")
		for i, turn := range history {
			fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n", i+1, turn.Question, i+1, turn.Answer)
		}
	}

	b.WriteString("\n**Next Question:**")
	return b.String()
}

// logUsage appends one timestamped line before each call. Strictly
// fire-and-forget: any failure is logged and swallowed so question
// generation is never interrupted by the log sink.
func (j *Journalist) logUsage(historyLen int) {
	if j.usageLogPath == "" {
		return
	}

	f, err := os.OpenFile(j.usageLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("[agent] usage log unavailable: %v", err)
		return
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Persona: %s, History Length: %d\n",
		time.Now().Format("2006-01-02 15:04:05"), j.persona.Name, historyLen)
	if _, err := f.WriteString(line); err != nil {
		log.Printf("[agent] usage log write failed: %v", err)
	}
}
