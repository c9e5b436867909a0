package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/schema"
)

// WriteCheckResult prints the outcome of a consistency policy check.
// Only text, CSV and JSON are meaningful here; other formats fall back to text.
func WriteCheckResult(result schema.CheckResult, cfg *contract.Config) error {
	_, fmtMetric := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"source", "expert", "group", "lambda_max", "ci", "cr", "reason"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, v := range result.Violations {
					rec := []string{v.Source, v.Expert, groupName(v.Group), fmtMetric(v.Cons.LambdaMax), fmtMetric(v.Cons.CI), fmtMetric(v.Cons.CR), v.Reason}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if len(result.Violations) > 0 {
				var rows [][]string
				for _, v := range result.Violations {
					rows = append(rows, []string{v.Expert, groupName(v.Group), fmtMetric(v.Cons.CR), consistencyLabel(v.Cons, cfg), v.Reason})
				}
				if err := renderTable(w, []string{"Expert", "Group", "CR", "Label", "Reason"}, rows); err != nil {
					return err
				}
			}
			status := "PASS"
			if !result.Passed {
				status = "FAIL"
			}
			if cfg.UseEmojis {
				status = map[bool]string{true: "✅ ", false: "❌ "}[result.Passed] + status
			}
			_, err := fmt.Fprintf(w, "%s: %d submission(s), %d comparison set(s), %d violation(s) at CR threshold %s\n",
				status, result.Checked, result.Sets, len(result.Violations), fmtMetric(result.Threshold))
			return err
		}, "Wrote check report")
	}
}

// WriteLintIssues prints questionnaire lint findings.
func WriteLintIssues(issues []schema.LintIssue, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if issues == nil {
				issues = []schema.LintIssue{}
			}
			return writeJSON(w, issues)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"source", "group", "key", "severity", "message", "suggestion"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, issue := range issues {
					rec := []string{issue.Source, groupName(issue.Group), issue.Key, string(issue.Severity), issue.Message, issue.Suggestion}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if len(issues) == 0 {
				_, err := fmt.Fprintln(w, "No issues found")
				return err
			}
			var rows [][]string
			errCount := 0
			for _, issue := range issues {
				severity := string(issue.Severity)
				if issue.Severity == schema.LintError {
					errCount++
					if cfg.UseColors {
						severity = contract.InconsistentColor.Sprint(severity)
					}
				}
				rows = append(rows, []string{issue.Source, groupName(issue.Group), issue.Key, severity, issue.Message, issue.Suggestion})
			}
			if err := renderTable(w, []string{"Source", "Group", "Key", "Severity", "Message", "Suggestion"}, rows); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "%d issue(s), %d error(s)\n", len(issues), errCount)
			return err
		}, "Wrote lint report")
	}
}

// groupName labels the main criteria matrix, which has no group name.
func groupName(group string) string {
	if group == "" {
		return "(main)"
	}
	return group
}
