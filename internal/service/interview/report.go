package interview

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/presscoach/backend/internal/model/interview"
)

// buildReport renders the downloadable plain-text report: settings,
// evaluation fields, and the full transcript. Empty list fields render
// as empty sections, never as faults.
func buildReport(settings interview.Settings, identity interview.Identity, eval *interview.Evaluation, transcript []interview.Turn) string {
	var b strings.Builder

	b.WriteString("INTERVIEW REPORT\n")
	b.WriteString("================\n\n")

	b.WriteString("SETTINGS\n")
	b.WriteString("--------\n")
	fmt.Fprintf(&b, "Startup Description: %s\n", settings.StartupDescription)
	fmt.Fprintf(&b, "Journalist Persona: %s\n", settings.PersonaID)
	fmt.Fprintf(&b, "Difficulty: %s\n", settings.Difficulty)
	fmt.Fprintf(&b, "News Context: %s\n", settings.NewsContext)
	fmt.Fprintf(&b, "Journalist: %s (%s)\n", identity.JournalistName, identity.OutletName)

	b.WriteString("\nEVALUATION\n")
	b.WriteString("----------\n")
	fmt.Fprintf(&b, "Score: %d/10\n", eval.Score)
	fmt.Fprintf(&b, "Headline: %s\n", eval.Headline)

	writeList(&b, "Strengths", eval.Strengths, "- %s\n")
	writeList(&b, "Weaknesses", eval.Weaknesses, "- %s\n")
	writeList(&b, "Best Quotes", eval.Quotes, "- %q\n")
	writeList(&b, "Risky Statements", eval.RiskyStatements, "- %q\n")

	b.WriteString("\nRewrites:\n")
	for _, r := range eval.Rewrites {
		fmt.Fprintf(&b, "- Original: %s\n  Better: %s\n", r.Original, r.Better)
	}

	writeList(&b, "Training Plan", eval.TrainingPlan, "- %s\n")

	b.WriteString("\nTRANSCRIPT\n")
	b.WriteString("----------\n")
	for i, turn := range transcript {
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n\n", i+1, turn.Question, i+1, turn.Answer)
	}

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string, format string) {
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, format, item)
	}
}

// writeTranscript persists the transcript to a timestamped file in dir:
// a settings header followed by the numbered Q/A pairs. This is the only
// durable artifact the service produces.
func writeTranscript(dir string, settings interview.Settings, identity interview.Identity, transcript []interview.Turn) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Interview Transcript - %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Startup Description: %s\n", settings.StartupDescription)
	fmt.Fprintf(&b, "Journalist Persona: %s\n", settings.PersonaID)
	fmt.Fprintf(&b, "Difficulty: %s\n", settings.Difficulty)
	fmt.Fprintf(&b, "News Context: %s\n", settings.NewsContext)
	fmt.Fprintf(&b, "Journalist: %s (%s)\n\n", identity.JournalistName, identity.OutletName)
	for i, turn := range transcript {
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n\n", i+1, turn.Question, i+1, turn.Answer)
	}

	path := filepath.Join(dir, fmt.Sprintf("interview_%s.txt", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
