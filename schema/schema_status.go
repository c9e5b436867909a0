package schema

import "time"

// SubmissionStatus is the status of the submission store.
type SubmissionStatus struct {
	Backend              string
	Connected            bool
	TotalSubmissions     int64
	TotalExperts         int64
	LastSubmissionTime   time.Time
	OldestSubmissionTime time.Time
	TableSizes           map[string]int64
}

// ConsensusStatus is the status of the consensus run store.
type ConsensusStatus struct {
	Backend       string
	Connected     bool
	TotalRuns     int64
	LastRunID     int64
	LastRunTime   time.Time
	OldestRunTime time.Time
	TableSizes    map[string]int64
}
