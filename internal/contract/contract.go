// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/ahp/schema"
)

// StoreManager defines the interface for reaching the persistence stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetSubmissionStore() SubmissionStore
	GetConsensusStore() ConsensusStore
}

// SubmissionStore keeps evaluated expert submissions. Submissions are immutable,
// so there is no update operation.
type SubmissionStore interface {
	// Save persists a new submission. Saving an existing ID is an error.
	Save(ctx context.Context, sub schema.Submission) error

	// Get returns one submission or schema.ErrNotFound.
	Get(ctx context.Context, id string) (schema.Submission, error)

	// List returns summaries, newest first, optionally filtered by expert.
	List(ctx context.Context, expert string, limit int) ([]schema.SubmissionSummary, error)

	// LatestPerExpert returns the newest submission of every expert for a questionnaire.
	// This is the snapshot a consensus run aggregates.
	LatestPerExpert(ctx context.Context, questionnaire string) ([]schema.Submission, error)

	// Delete removes one submission or returns schema.ErrNotFound.
	Delete(ctx context.Context, id string) error

	// GetStatus returns status information about the submission store
	GetStatus() (schema.SubmissionStatus, error)

	// Close closes the underlying connection
	Close() error
}

// ConsensusStore tracks consensus runs and the global rankings they produced.
type ConsensusStore interface {
	// BeginRun creates a new consensus run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// RecordWeights stores the global ranking of one aggregation mode
	RecordWeights(runID int64, mode schema.AggregationMode, rows []schema.GlobalRow) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, expertCount int) error

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.ConsensusRunRecord, error)

	// GetAllWeights returns every recorded weight row
	GetAllWeights() ([]schema.ConsensusWeightRecord, error)

	// GetStatus returns status information about the consensus store
	GetStatus() (schema.ConsensusStatus, error)

	// Close closes the underlying connection
	Close() error
}

// Publisher announces domain events to interested services.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
	Close() error
}
