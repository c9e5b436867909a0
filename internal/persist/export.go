package persist

import (
	"errors"
	"fmt"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/internal/parquet"
)

// ExportConsensus writes every recorded consensus run and weight of store to
// <outputFile>.consensus_runs.parquet and <outputFile>.consensus_weights.parquet.
func ExportConsensus(store contract.ConsensusStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("consensus store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get consensus status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no consensus data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total consensus runs: %d\n", status.TotalRuns)
	fmt.Printf("Total weight records: %d\n", status.TableSizes[consensusWeightsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve consensus runs: %w", err)
	}
	weights, err := store.GetAllWeights()
	if err != nil {
		return fmt.Errorf("failed to retrieve consensus weights: %w", err)
	}

	parquetRuns := parquet.ConvertConsensusRunRecords(runs)
	runsFile := outputFile + ".consensus_runs.parquet"
	if err := parquet.WriteConsensusRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write consensus runs: %w", err)
	}
	fmt.Printf("Exported %d consensus runs to: %s\n", len(parquetRuns), runsFile)

	parquetWeights := parquet.ConvertConsensusWeightRecords(weights)
	weightsFile := outputFile + ".consensus_weights.parquet"
	if err := parquet.WriteConsensusWeightsParquet(parquetWeights, weightsFile); err != nil {
		return fmt.Errorf("failed to write consensus weights: %w", err)
	}
	fmt.Printf("Exported %d weight records to: %s\n", len(parquetWeights), weightsFile)

	return nil
}
