package cmd

import (
	"github.com/huangsam/ahp/core"
	"github.com/huangsam/ahp/internal/contract"
	"github.com/spf13/cobra"
)

// computeCmd evaluates individual experts.
var computeCmd = &cobra.Command{
	Use:   "compute <submission-file>...",
	Short: "Derive weights, consistency and the global ranking for each expert",
	Long: `Evaluate one or more submission files (JSON or YAML) against the questionnaire.

For every expert this prints:
- Main criteria weights with lambda_max, CI and CR
- Local weights inside every answered criterion
- The global ranking (main weight x local weight)

A file may hold one submission or a list of them. Malformed judgments are
skipped and reported; missing pairs default to 1.

Examples:
  # Evaluate a single expert
  ahp compute answers/alice.json

  # Evaluate and store for later aggregation
  ahp compute answers/*.yaml --save

  # Export the result as a spreadsheet
  ahp compute answers/bob.json --output xlsx --output-file bob.xlsx`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompute(rootCtx, cfg, storeManager, publisher); err != nil {
			contract.LogFatal("Cannot evaluate submissions", err)
		}
	},
}
