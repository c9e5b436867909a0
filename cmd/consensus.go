package cmd

import (
	"fmt"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/internal/persist"
	"github.com/spf13/cobra"
)

// consensusCmd focused on recorded consensus runs.
var consensusCmd = &cobra.Command{
	Use:   "consensus",
	Short: "Manage recorded consensus runs and exports",
	Long: `Every aggregation is recorded with its configuration, expert count and the
global weights of each mode. This keeps a history of how the group consensus
moved as experts were added.

Subcommands:
  status - Show run statistics
  export - Write runs and weights to Parquet
  clear  - Remove all stored data

Examples:
  ahp consensus status
  ahp consensus export --output-file consensus`,
}

var consensusStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display consensus tracking statistics and connection details",
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := storeManager.GetConsensusStore()
		if store == nil {
			contract.LogFatal("Failed to get consensus status", fmt.Errorf("store backend %q keeps no consensus runs", cfg.StoreBackend))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get consensus status", err)
		}
		persist.PrintConsensusStatus(status)
	},
}

var consensusExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs and weights to Parquet",
	Long: `Export every recorded consensus run and weight row to two Parquet files:
<output-file>.consensus_runs.parquet and <output-file>.consensus_weights.parquet.

Requires: --output-file parameter

Examples:
  ahp consensus export --output-file consensus
  duckdb -c "SELECT * FROM read_parquet('consensus.consensus_weights.parquet') LIMIT 10"`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := persist.ExportConsensus(storeManager.GetConsensusStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export consensus data", err)
		}
	},
}

var consensusClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove all stored submissions and consensus runs",
	Long:    `Alias of 'ahp submissions clear'; both share one store.`,
	PreRunE: migrateSetup,
	Run:     submissionsClearCmd.Run,
}
