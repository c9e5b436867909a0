package schema

import "time"

// Event subjects published on the message bus.
const (
	SubjectSubmissionCreated  = "ahp.submission.created"
	SubjectConsensusCompleted = "ahp.consensus.completed"
)

// SubmissionCreatedEvent announces a newly stored submission.
type SubmissionCreatedEvent struct {
	SubmissionID  string      `json:"submission_id"`
	Expert        string      `json:"expert"`
	Questionnaire string      `json:"questionnaire"`
	CreatedAt     time.Time   `json:"created_at"`
	MainCons      Consistency `json:"main_cons"`
}

// ConsensusCompletedEvent announces a finished consensus run.
type ConsensusCompletedEvent struct {
	RunID         int64       `json:"run_id,omitempty"`
	Questionnaire string      `json:"questionnaire"`
	ExpertCount   int         `json:"expert_count"`
	ComputedAt    time.Time   `json:"computed_at"`
	TopGlobal     []GlobalRow `json:"top_global"`
}
