// Package parquet provides data structures and functions for exporting AHP
// rankings and consensus runs to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/ahp/schema"
	"github.com/parquet-go/parquet-go"
)

// GlobalWeight is one row of a flattened global ranking.
type GlobalWeight struct {
	// Source is the expert name or aggregation mode that produced the ranking
	Source string `parquet:"source,snappy,dict"`

	// Rank is the 1-based position after sorting by global weight
	Rank int32 `parquet:"rank,snappy"`

	// Criterion is the main criterion the sub-criterion belongs to
	Criterion string `parquet:"criterion,snappy"`

	// SubCriterion is the leaf being weighted
	SubCriterion string `parquet:"sub_criterion,snappy"`

	LocalWeight  float64 `parquet:"local_weight,snappy"`
	MainWeight   float64 `parquet:"main_weight,snappy"`
	GlobalWeight float64 `parquet:"global_weight,snappy"`
}

// ConsensusRun represents a single consensus run with metadata.
// This struct maps to the ahp_consensus_runs database table.
type ConsensusRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when aggregation began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when aggregation completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	// ExpertCount is the number of experts that took part (nullable)
	ExpertCount *int64 `parquet:"expert_count,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ConsensusWeight is one persisted global row of a consensus run.
// This struct maps to the ahp_consensus_weights database table.
type ConsensusWeight struct {
	RunID        int64   `parquet:"run_id,snappy"`
	Mode         string  `parquet:"mode,snappy,dict"`
	Criterion    string  `parquet:"criterion,snappy,dict"`
	SubCriterion string  `parquet:"sub_criterion,snappy"`
	LocalWeight  float64 `parquet:"local_weight,snappy"`
	MainWeight   float64 `parquet:"main_weight,snappy"`
	GlobalWeight float64 `parquet:"global_weight,snappy"`
}

// WriteRows writes rows to w using the schema inferred from T's struct tags.
func WriteRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows into it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteConsensusRunsParquet writes consensus runs to a Parquet file.
func WriteConsensusRunsParquet(data []ConsensusRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteConsensusWeightsParquet writes consensus weights to a Parquet file.
func WriteConsensusWeightsParquet(data []ConsensusWeight, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertGlobalRows converts ranked global rows for Parquet export.
func ConvertGlobalRows(source string, rows []schema.GlobalRow) []GlobalWeight {
	result := make([]GlobalWeight, len(rows))
	for i, row := range rows {
		result[i] = GlobalWeight{
			Source:       source,
			Rank:         int32(i + 1),
			Criterion:    row.Criterion,
			SubCriterion: row.SubCriterion,
			LocalWeight:  row.LocalWeight,
			MainWeight:   row.MainWeight,
			GlobalWeight: row.GlobalWeight,
		}
	}
	return result
}

// ConvertConsensusRunRecords converts schema.ConsensusRunRecord to ConsensusRun for Parquet export.
func ConvertConsensusRunRecords(records []schema.ConsensusRunRecord) []ConsensusRun {
	result := make([]ConsensusRun, len(records))
	for i, record := range records {
		result[i] = ConsensusRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			ExpertCount:   record.ExpertCount,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertConsensusWeightRecords converts schema.ConsensusWeightRecord to ConsensusWeight for Parquet export.
func ConvertConsensusWeightRecords(records []schema.ConsensusWeightRecord) []ConsensusWeight {
	result := make([]ConsensusWeight, len(records))
	for i, record := range records {
		result[i] = ConsensusWeight{
			RunID:        record.RunID,
			Mode:         string(record.Mode),
			Criterion:    record.Criterion,
			SubCriterion: record.SubCriterion,
			LocalWeight:  record.LocalWeight,
			MainWeight:   record.MainWeight,
			GlobalWeight: record.GlobalWeight,
		}
	}
	return result
}
