package interview

import "encoding/json"

// Rewrite suggests a better phrasing for a specific founder answer.
type Rewrite struct {
	Original string `json:"original"`
	Better   string `json:"better"`
}

// Evaluation is the structured post-interview feedback document. The
// json tags double as the contract the model is instructed to follow.
type Evaluation struct {
	Strengths       []string  `json:"strengths"`
	Weaknesses      []string  `json:"weaknesses"`
	Score           int       `json:"score" jsonschema:"minimum=1,maximum=10"`
	Quotes          []string  `json:"quotes"`
	RiskyStatements []string  `json:"risky_statements"`
	Rewrites        []Rewrite `json:"rewrites"`
	Headline        string    `json:"headline"`
	TrainingPlan    []string  `json:"training_plan"`
}

// NormalizedScore maps the 1..10 score onto [0,1] for progress-style
// rendering. Out-of-range values are clamped rather than rejected.
func (e *Evaluation) NormalizedScore() float64 {
	score := e.Score
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return float64(score) / 10
}

// Normalize replaces nil list fields with empty slices so every consumer
// can range over them without nil checks and JSON renders [] not null.
func (e *Evaluation) Normalize() {
	if e.Strengths == nil {
		e.Strengths = []string{}
	}
	if e.Weaknesses == nil {
		e.Weaknesses = []string{}
	}
	if e.Quotes == nil {
		e.Quotes = []string{}
	}
	if e.RiskyStatements == nil {
		e.RiskyStatements = []string{}
	}
	if e.Rewrites == nil {
		e.Rewrites = []Rewrite{}
	}
	if e.TrainingPlan == nil {
		e.TrainingPlan = []string{}
	}
}

// EvaluationError is the degraded form returned when the model output
// could not be parsed or the evaluation call failed. RawText carries the
// unparsed model output verbatim for diagnostics.
type EvaluationError struct {
	Message string `json:"error"`
	RawText string `json:"rawText,omitempty"`
}

// EvaluationResult is a sum of Evaluation and EvaluationError. Exactly
// one side is set once the result exists.
type EvaluationResult struct {
	Record  *Evaluation
	Failure *EvaluationError
}

// Failed reports whether the result is the error variant.
func (r EvaluationResult) Failed() bool {
	return r.Failure != nil
}

// MarshalJSON renders whichever variant is populated.
func (r EvaluationResult) MarshalJSON() ([]byte, error) {
	if r.Failure != nil {
		return json.Marshal(r.Failure)
	}
	return json.Marshal(r.Record)
}
