// Package core wires the AHP engine to inputs, persistence, events and output.
package core

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/ahp/core/agg"
	"github.com/huangsam/ahp/core/algo"
	"github.com/huangsam/ahp/schema"
)

// Evaluation is one evaluated submission plus everything the key adapter dropped on the way.
type Evaluation struct {
	Source     string
	Submission schema.Submission
	Skipped    map[string][]schema.SkippedEntry // by group, "" for the main criteria
	Warnings   []string
}

// Evaluate turns raw answers into an immutable submission against h.
//
// Malformed judgments are skipped and reported, never fatal. Sub-criteria
// groups naming a criterion outside h are dropped with a warning. The only
// errors are a missing expert name and a questionnaire mismatch.
func Evaluate(h schema.Hierarchy, in schema.SubmissionInput, now time.Time) (Evaluation, error) {
	expert := schema.NormalizeLabel(in.Expert)
	if expert == "" {
		return Evaluation{}, errors.New("expert is required")
	}
	if in.Questionnaire != "" && in.Questionnaire != h.Name {
		return Evaluation{}, fmt.Errorf("submission of %s answers %q, not %q: %w", expert, in.Questionnaire, h.Name, schema.ErrHierarchyMismatch)
	}

	ev := Evaluation{Skipped: make(map[string][]schema.SkippedEntry)}

	main, skipped := schema.ParseJudgments(in.Main)
	if len(skipped) > 0 {
		ev.Skipped[""] = skipped
	}

	sub := make(map[string]schema.Judgments, len(in.Sub))
	for _, name := range sortedKeys(in.Sub) {
		criterion := schema.NormalizeLabel(name)
		if _, ok := h.SubCriteria(criterion); !ok {
			ev.Warnings = append(ev.Warnings, fmt.Sprintf("%s: %v", name, schema.ErrUnknownCriterion))
			continue
		}
		j, skipped := schema.ParseJudgments(in.Sub[name])
		if len(skipped) > 0 {
			ev.Skipped[criterion] = append(ev.Skipped[criterion], skipped...)
		}
		if len(j) == 0 {
			continue
		}
		if existing, ok := sub[criterion]; ok {
			for p, v := range j {
				existing[p] = v
			}
			continue
		}
		sub[criterion] = j
	}

	for group, entries := range ev.Skipped {
		for _, e := range entries {
			ev.Warnings = append(ev.Warnings, fmt.Sprintf("%s: skipped %q (%s)", displayGroup(group), e.Key, e.Reason))
		}
	}
	sort.Strings(ev.Warnings)

	result := agg.EvaluateHierarchy(h, main, sub)
	result.Global = algo.RankGlobal(result.Global, 0)

	ev.Submission = schema.Submission{
		ID:            uuid.NewString(),
		Expert:        expert,
		Questionnaire: h.Name,
		CreatedAt:     now.UTC(),
		MainPairs:     main,
		SubPairs:      sub,
		Result:        result,
	}
	return ev, nil
}

// displayGroup names a comparison set in messages.
func displayGroup(group string) string {
	if group == "" {
		return "main criteria"
	}
	return group
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
