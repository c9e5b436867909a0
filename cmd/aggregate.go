package cmd

import (
	"github.com/huangsam/ahp/core"
	"github.com/huangsam/ahp/internal/contract"
	"github.com/spf13/cobra"
)

// aggregateCmd builds a group consensus.
var aggregateCmd = &cobra.Command{
	Use:   "aggregate [submission-file]...",
	Short: "Combine several experts into one consensus (AIJ and AIP)",
	Long: `Aggregate experts' judgments into group weights.

Two rules are computed:
- AIJ aggregates individual judgments by geometric mean, then derives weights
- AIP aggregates each expert's derived weights by geometric mean and renormalizes

Submissions come from the given files, from the store (--from-store), or both.
Only the latest submission of each expert is used. Every run is recorded in
the consensus store and can be exported later.

Examples:
  # Aggregate answer files
  ahp aggregate answers/*.json

  # Aggregate everything stored so far, AIJ only
  ahp aggregate --from-store --mode aij

  # Write the consensus as JSON
  ahp aggregate --from-store --output json --output-file consensus.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAggregate(rootCtx, cfg, storeManager, publisher); err != nil {
			contract.LogFatal("Cannot aggregate experts", err)
		}
	},
}
