package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/presscoach/backend/internal/model/interview"
)

// Evaluator turns a finished transcript into a structured evaluation.
// It never returns a Go error: upstream or parse failures degrade to the
// EvaluationError variant so the presentation layer always receives a
// record.
type Evaluator struct {
	gw     TextGateway
	schema string
}

// NewEvaluator builds the evaluator. The JSON schema for the evaluation
// record is reflected from the struct once, so the prompt instruction
// and the parse target cannot drift apart.
func NewEvaluator(gw TextGateway) *Evaluator {
	return &Evaluator{gw: gw, schema: evaluationSchema()}
}

// EvaluateInterview sends one JSON-mode prompt over the full transcript.
func (e *Evaluator) EvaluateInterview(ctx context.Context, transcript []interview.Turn, startupDescription, difficulty string) interview.EvaluationResult {
	raw, err := e.gw.GenerateJSON(ctx, e.buildPrompt(transcript, startupDescription, difficulty))
	if err != nil {
		log.Printf("[agent] evaluation call failed: %v", err)
		return interview.EvaluationResult{Failure: &interview.EvaluationError{
			Message: "Failed to generate evaluation",
			RawText: err.Error(),
		}}
	}

	text := stripCodeFences(string(raw))

	var eval interview.Evaluation
	if err := json.Unmarshal([]byte(text), &eval); err != nil {
		return interview.EvaluationResult{Failure: &interview.EvaluationError{
			Message: "Failed to parse evaluation",
			RawText: string(raw),
		}}
	}

	eval.Normalize()
	return interview.EvaluationResult{Record: &eval}
}

func (e *Evaluator) buildPrompt(transcript []interview.Turn, startupDescription, difficulty string) string {
	var b strings.Builder
	b.WriteString("You are an expert PR consultant and media coach. Evaluate the following interview transcript for a startup founder.\n\n")
	fmt.Fprintf(&b, "**Startup Description:** %s\n", startupDescription)
	if difficulty != "" {
		fmt.Fprintf(&b, "**Interview Difficulty:** %s\n", difficulty)
	}

	b.WriteString("\n**Transcript:**\n")
	for i, turn := range transcript {
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n", i+1, turn.Question, i+1, turn.Answer)
	}

	b.WriteString(`
**Task:**
Analyze the founder's performance and provide a structured evaluation in JSON format with the following fields:

1. "strengths": list of strings (what they did well).
2. "weaknesses": list of strings (areas for improvement).
3. "score": integer 1-10 (overall performance).
4. "quotes": list of strings (best/worst quotes from the founder).
5. "risky_statements": list of strings (anything that could be taken out of context or damage reputation).
6. "rewrites": list of objects {"original": str, "better": str} (suggested improvements for specific answers).
7. "headline": string (a likely headline a journalist would write based on this interview).
8. "training_plan": list of strings (7-day plan to improve).

The response must conform to this JSON schema:
`)
	b.WriteString(e.schema)
	b.WriteString("\n\n**Output JSON ONLY.**")
	return b.String()
}

// stripCodeFences removes a leading ```json / ``` marker and a trailing
// ``` marker. The JSON response mode should make this unnecessary, but
// models occasionally wrap output anyway.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func evaluationSchema() string {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := r.Reflect(&interview.Evaluation{})
	data, err := json.Marshal(schema)
	if err != nil {
		// Reflection over a plain struct cannot realistically fail; fall
		// back to the prose field list already present in the prompt.
		log.Printf("[agent] evaluation schema reflection failed: %v", err)
		return "{}"
	}
	return string(data)
}
