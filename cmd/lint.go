package cmd

import (
	"github.com/huangsam/ahp/core"
	"github.com/huangsam/ahp/internal/contract"
	"github.com/spf13/cobra"
)

// lintCmd reports problems in raw answers.
var lintCmd = &cobra.Command{
	Use:   "lint <submission-file>...",
	Short: "Report unusable, unknown or missing judgments",
	Long: `Inspect submission files without computing weights.

Errors:
- Keys or values that cannot be parsed
- Labels outside the questionnaire (with the closest known label)
- Self comparisons, zero or negative ratios

Warnings:
- Ratios outside the 1/9..9 scale
- Pairs given in both orientations
- Missing pairs and unanswered groups

Exits non-zero when any error is found.

Examples:
  ahp lint answers/*.yaml
  ahp lint answers/alice.json --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLint(rootCtx, cfg); err != nil {
			contract.LogFatal("Lint failed", err)
		}
	},
}
