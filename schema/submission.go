package schema

import (
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

// SubmissionInput is one expert's raw questionnaire answers as read from a file or request body.
// Judgment values stay loosely typed until they pass through ParseJudgments.
type SubmissionInput struct {
	Expert        string         `json:"expert" yaml:"expert"`
	Questionnaire string         `json:"questionnaire,omitempty" yaml:"questionnaire,omitempty"`
	Main          any            `json:"main" yaml:"main"`
	Sub           map[string]any `json:"sub,omitempty" yaml:"sub,omitempty"`
}

// Submission is an immutable, evaluated expert answer set.
type Submission struct {
	ID            string               `json:"id"`
	Expert        string               `json:"expert"`
	Questionnaire string               `json:"questionnaire"`
	CreatedAt     time.Time            `json:"created_at"`
	MainPairs     Judgments            `json:"main_pairs"`
	SubPairs      map[string]Judgments `json:"sub_pairs"`
	Result        Result               `json:"result"`
}

// MainCR returns the main consistency ratio, or NaN when undefined.
func (s Submission) MainCR() float64 {
	if !s.Result.Main.Cons.Defined() {
		return math.NaN()
	}
	return s.Result.Main.Cons.CR
}

// HasGroup reports whether the expert supplied judgments for the criterion.
func (s Submission) HasGroup(criterion string) bool {
	j, ok := s.SubPairs[criterion]
	return ok && len(j) > 0
}

// SubmissionSummary is the listing view of a stored submission.
type SubmissionSummary struct {
	ID            string      `json:"id"`
	Expert        string      `json:"expert"`
	Questionnaire string      `json:"questionnaire"`
	CreatedAt     time.Time   `json:"created_at"`
	MainCons      Consistency `json:"main_cons"`
}

// Summary returns the listing view of s.
func (s Submission) Summary() SubmissionSummary {
	return SubmissionSummary{
		ID:            s.ID,
		Expert:        s.Expert,
		Questionnaire: s.Questionnaire,
		CreatedAt:     s.CreatedAt,
		MainCons:      s.Result.Main.Cons,
	}
}

// UnmarshalYAML lets judgments be written in any supported shape inside YAML files.
func (j *Judgments) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode judgments: %w", err)
	}
	*j = NormalizeJudgments(raw)
	return nil
}
