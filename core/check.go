package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/internal/outwriter"
	"github.com/huangsam/ahp/schema"
)

// ErrPolicyViolation is returned by ExecuteCheck when at least one comparison set fails.
var ErrPolicyViolation = errors.New("consistency policy violated")

// BuildCheckResult checks the main matrix and every answered sub-criteria group of each
// evaluation. A set fails when its CR exceeds threshold or cannot be computed.
// Unanswered groups are neutral and therefore skipped.
func BuildCheckResult(evals []Evaluation, threshold float64) schema.CheckResult {
	result := schema.CheckResult{
		Threshold:  threshold,
		Checked:    len(evals),
		Violations: []schema.CheckViolation{},
	}

	for _, ev := range evals {
		sub := ev.Submission
		check := func(group string, cons schema.Consistency) {
			result.Sets++
			reason := ""
			switch {
			case !cons.Defined():
				reason = "consistency is undefined"
			case cons.CR > threshold:
				reason = fmt.Sprintf("CR %.4f exceeds %.4f", cons.CR, threshold)
			default:
				return
			}
			result.Violations = append(result.Violations, schema.CheckViolation{
				Source: ev.Source,
				Expert: sub.Expert,
				Group:  group,
				Cons:   cons,
				Reason: reason,
			})
		}

		check("", sub.Result.Main.Cons)
		for _, criterion := range sub.Result.Main.Keys {
			g, ok := sub.Result.Local[criterion]
			if !ok || !sub.HasGroup(criterion) {
				continue
			}
			check(criterion, g.Cons)
		}
	}

	result.Passed = len(result.Violations) == 0
	return result
}

// ExecuteCheck evaluates submission files and enforces the consistency threshold.
// It returns ErrPolicyViolation after printing when any set fails.
func ExecuteCheck(ctx context.Context, cfg *contract.Config) error {
	evals, err := EvaluateFiles(ctx, cfg)
	if err != nil {
		return err
	}

	result := BuildCheckResult(evals, cfg.CRThreshold)
	if err := outwriter.NewOutWriter().WriteCheck(result, cfg); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%d violation(s) found: %w", len(result.Violations), ErrPolicyViolation)
	}
	return nil
}
