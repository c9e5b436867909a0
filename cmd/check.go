package cmd

import (
	"github.com/huangsam/ahp/core"
	"github.com/huangsam/ahp/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check <submission-file>...",
	Short: "Enforce the consistency threshold (fails on violations)",
	Long: `Evaluate submission files and fail with a non-zero exit code when any comparison
set is inconsistent.

A set violates the policy when its CR exceeds --cr-threshold (default 0.1), or when
its consistency is undefined. Unanswered groups are not checked.

Examples:
  # Gate a batch of answers
  ahp check answers/*.json

  # A looser threshold
  ahp check answers/*.json --cr-threshold 0.15`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCheck(rootCtx, cfg); err != nil {
			contract.LogFatal("Policy check failed", err)
		}
	},
}
