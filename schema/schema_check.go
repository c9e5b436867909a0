package schema

// CheckViolation is one comparison set whose consistency breaches the policy.
type CheckViolation struct {
	Source string      `json:"source"`
	Expert string      `json:"expert"`
	Group  string      `json:"group"` // empty for the main criteria matrix
	Cons   Consistency `json:"cons"`
	Reason string      `json:"reason"`
}

// CheckResult is the outcome of a consistency policy check.
type CheckResult struct {
	Threshold  float64          `json:"threshold"`
	Checked    int              `json:"checked"`
	Sets       int              `json:"sets"`
	Passed     bool             `json:"passed"`
	Violations []CheckViolation `json:"violations"`
}

// LintSeverity classifies lint findings.
type LintSeverity string

// Lint severities.
const (
	LintError   LintSeverity = "error"
	LintWarning LintSeverity = "warning"
)

// LintIssue is one problem found in raw questionnaire answers.
type LintIssue struct {
	Source     string       `json:"source"`
	Group      string       `json:"group"`
	Key        string       `json:"key"`
	Severity   LintSeverity `json:"severity"`
	Message    string       `json:"message"`
	Suggestion string       `json:"suggestion,omitempty"`
}
