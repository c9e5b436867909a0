// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSubmissions prints evaluated submissions using the configured output format.
func (ow *OutWriter) WriteSubmissions(subs []schema.Submission, cfg *contract.Config, duration time.Duration) error {
	return WriteSubmissionResults(subs, cfg, duration)
}

// WriteConsensus prints a consensus using the configured output format.
func (ow *OutWriter) WriteConsensus(c schema.Consensus, cfg *contract.Config, duration time.Duration) error {
	return WriteConsensusResults(c, cfg, duration)
}

// WriteCheck prints a consistency policy check.
func (ow *OutWriter) WriteCheck(result schema.CheckResult, cfg *contract.Config) error {
	return WriteCheckResult(result, cfg)
}

// WriteLint prints questionnaire lint findings.
func (ow *OutWriter) WriteLint(issues []schema.LintIssue, cfg *contract.Config) error {
	return WriteLintIssues(issues, cfg)
}

// WriteSubmissionList prints stored submission summaries.
func (ow *OutWriter) WriteSubmissionList(summaries []schema.SubmissionSummary, cfg *contract.Config) error {
	return WriteSubmissionList(summaries, cfg)
}
