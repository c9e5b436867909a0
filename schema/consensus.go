package schema

import "time"

// ExpertConsistency pairs an expert with the consistency of their main matrix.
type ExpertConsistency struct {
	Expert string      `json:"expert"`
	Cons   Consistency `json:"cons"`
}

// ConsensusDiagnostics summarizes how well the experts agree with themselves and each other.
type ConsensusDiagnostics struct {
	Experts             []ExpertConsistency `json:"experts"`
	DefinedCRCount      int                 `json:"defined_cr_count"`
	MeanCR              float64             `json:"mean_cr"`
	MedianCR            float64             `json:"median_cr"`
	MaxCR               float64             `json:"max_cr"`
	InconsistentExperts int                 `json:"inconsistent_experts"`
	CRThreshold         float64             `json:"cr_threshold"`
	ModeDistance        float64             `json:"aij_aip_distance"`
	Participation       map[string]int      `json:"participation"`
}

// Consensus holds both aggregation rules side by side. They are never interchangeable.
type Consensus struct {
	Questionnaire string               `json:"questionnaire"`
	ExpertCount   int                  `json:"expert_count"`
	ComputedAt    time.Time            `json:"computed_at"`
	AIJ           Result               `json:"aij"`
	AIP           Result               `json:"aip"`
	Diagnostics   ConsensusDiagnostics `json:"diagnostics"`
}

// ResultFor returns the result of one aggregation mode.
func (c Consensus) ResultFor(mode AggregationMode) Result {
	if mode == AIPMode {
		return c.AIP
	}
	return c.AIJ
}

// ConsensusRunRecord represents a consensus run row in the store.
type ConsensusRunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int64
	ExpertCount   *int64
	ConfigParams  *string
}

// ConsensusWeightRecord represents one persisted global ranking row of a consensus run.
type ConsensusWeightRecord struct {
	RunID        int64
	Mode         AggregationMode
	Criterion    string
	SubCriterion string
	LocalWeight  float64
	MainWeight   float64
	GlobalWeight float64
}
