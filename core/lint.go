package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/internal/outwriter"
	"github.com/huangsam/ahp/schema"
	"golang.org/x/text/cases"
)

// ErrLintErrors is returned by ExecuteLint when any finding has error severity.
var ErrLintErrors = errors.New("questionnaire answers have errors")

// Saaty scale bounds; ratios outside are accepted but flagged.
const (
	scaleMin = 1.0 / 9.0
	scaleMax = 9.0
)

// LintInput reports problems in one expert's raw answers: entries the key
// adapter cannot parse, labels outside the questionnaire (with the closest
// known label as a suggestion), self comparisons, non-positive ratios, pairs
// given in both orientations, and missing pairs.
func LintInput(h schema.Hierarchy, source string, in schema.SubmissionInput) []schema.LintIssue {
	l := &linter{source: source}

	criteria := h.CriteriaKeys()
	if in.Main == nil {
		l.add("", "", schema.LintError, "main criteria judgments are missing", "")
	} else {
		l.group("", criteria, in.Main)
	}

	answered := make(map[string]bool, len(in.Sub))
	for _, name := range sortedKeys(in.Sub) {
		criterion := schema.NormalizeLabel(name)
		items, ok := h.SubCriteria(criterion)
		if !ok {
			l.add(name, "", schema.LintError, fmt.Sprintf("unknown criterion %q", name), suggest(criterion, criteria))
			continue
		}
		answered[criterion] = true
		l.group(criterion, items, in.Sub[name])
	}

	for _, criterion := range criteria {
		items, _ := h.SubCriteria(criterion)
		if len(items) > 1 && !answered[criterion] {
			l.add(criterion, "", schema.LintWarning, "group not answered; neutral weights assumed", "")
		}
	}
	return l.issues
}

// linter accumulates issues for one submission.
type linter struct {
	source string
	issues []schema.LintIssue
}

func (l *linter) add(group, key string, severity schema.LintSeverity, message, suggestion string) {
	l.issues = append(l.issues, schema.LintIssue{
		Source:     l.source,
		Group:      group,
		Key:        key,
		Severity:   severity,
		Message:    message,
		Suggestion: suggestion,
	})
}

// group lints one comparison set.
func (l *linter) group(group string, items []string, raw any) {
	judgments, skipped := schema.ParseJudgments(raw)
	for _, s := range skipped {
		l.add(group, s.Key, schema.LintError, "skipped: "+s.Reason, "")
	}

	known := make(map[string]bool, len(items))
	for _, it := range items {
		known[it] = true
	}

	seen := make(map[schema.Pair]schema.Pair)
	for _, p := range judgments.SortedPairs() {
		v := judgments[p]
		switch {
		case p.A == p.B:
			l.add(group, p.Key(), schema.LintError, "self comparison is ignored", "")
			continue
		case !known[p.A]:
			l.add(group, p.Key(), schema.LintError, fmt.Sprintf("unknown label %q", p.A), suggest(p.A, items))
			continue
		case !known[p.B]:
			l.add(group, p.Key(), schema.LintError, fmt.Sprintf("unknown label %q", p.B), suggest(p.B, items))
			continue
		case v == 0:
			l.add(group, p.Key(), schema.LintError, "zero ratio is ignored", "")
			continue
		case v < 0:
			l.add(group, p.Key(), schema.LintError, fmt.Sprintf("negative ratio %g", v), fmt.Sprintf("%g", math.Abs(v)))
			continue
		case v < scaleMin-1e-9 || v > scaleMax+1e-9:
			l.add(group, p.Key(), schema.LintWarning, fmt.Sprintf("ratio %g is outside the 1/9..9 scale", v), "")
		}

		canonical := p
		if canonical.A > canonical.B {
			canonical = canonical.Reverse()
		}
		if prev, dup := seen[canonical]; dup {
			l.add(group, p.Key(), schema.LintWarning,
				fmt.Sprintf("both %s and %s are given; %s is used", prev.Key(), p.Key(), p.Key()), "")
		}
		seen[canonical] = p
	}

	for i := range items {
		for j := i + 1; j < len(items); j++ {
			canonical := schema.NewPair(items[i], items[j])
			if canonical.A > canonical.B {
				canonical = canonical.Reverse()
			}
			if _, ok := seen[canonical]; !ok {
				l.add(group, schema.NewPair(items[i], items[j]).Key(), schema.LintWarning, "missing judgment; neutral 1 assumed", "")
			}
		}
	}
}

// suggest returns the candidate closest to label by case-folded edit distance,
// or "" when nothing is close enough to be a plausible typo.
func suggest(label string, candidates []string) string {
	fold := cases.Fold()
	target := fold.String(label)
	best, bestDist := "", math.MaxInt
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(target, fold.String(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := max(2, utf8.RuneCountInString(target)/3)
	if bestDist > limit {
		return ""
	}
	return best
}

// ExecuteLint lints every submission file and prints the findings.
// It returns ErrLintErrors after printing when any finding is an error.
func ExecuteLint(_ context.Context, cfg *contract.Config) error {
	inputs, err := loadInputs(cfg.InputFiles, cfg.Expert)
	if err != nil {
		return err
	}

	var issues []schema.LintIssue
	for _, in := range inputs {
		issues = append(issues, LintInput(cfg.Hierarchy, in.source, in.input)...)
	}
	if err := outwriter.NewOutWriter().WriteLint(issues, cfg); err != nil {
		return err
	}

	errCount := 0
	for _, issue := range issues {
		if issue.Severity == schema.LintError {
			errCount++
		}
	}
	if errCount > 0 {
		return fmt.Errorf("%d lint error(s): %w", errCount, ErrLintErrors)
	}
	return nil
}
