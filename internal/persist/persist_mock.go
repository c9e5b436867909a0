package persist

import (
	"context"
	"time"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetSubmissionStore implements the StoreManager interface.
func (m *MockStoreManager) GetSubmissionStore() contract.SubmissionStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SubmissionStore)
	return store
}

// GetConsensusStore implements the StoreManager interface.
func (m *MockStoreManager) GetConsensusStore() contract.ConsensusStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ConsensusStore)
	return store
}

// MockSubmissionStore is a mock implementation of SubmissionStore for testing.
type MockSubmissionStore struct {
	mock.Mock
}

var _ contract.SubmissionStore = &MockSubmissionStore{} // Compile-time check

// Save implements the SubmissionStore interface.
func (m *MockSubmissionStore) Save(ctx context.Context, s schema.Submission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// Get implements the SubmissionStore interface.
func (m *MockSubmissionStore) Get(ctx context.Context, id string) (schema.Submission, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schema.Submission), args.Error(1)
}

// List implements the SubmissionStore interface.
func (m *MockSubmissionStore) List(ctx context.Context, expert string, limit int) ([]schema.SubmissionSummary, error) {
	args := m.Called(ctx, expert, limit)
	out, _ := args.Get(0).([]schema.SubmissionSummary)
	return out, args.Error(1)
}

// LatestPerExpert implements the SubmissionStore interface.
func (m *MockSubmissionStore) LatestPerExpert(ctx context.Context, questionnaire string) ([]schema.Submission, error) {
	args := m.Called(ctx, questionnaire)
	out, _ := args.Get(0).([]schema.Submission)
	return out, args.Error(1)
}

// Delete implements the SubmissionStore interface.
func (m *MockSubmissionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// GetStatus implements the SubmissionStore interface.
func (m *MockSubmissionStore) GetStatus() (schema.SubmissionStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SubmissionStatus), args.Error(1)
}

// Close implements the SubmissionStore interface.
func (m *MockSubmissionStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockConsensusStore is a mock implementation of ConsensusStore for testing.
type MockConsensusStore struct {
	mock.Mock
}

var _ contract.ConsensusStore = &MockConsensusStore{} // Compile-time check

// BeginRun implements the ConsensusStore interface.
func (m *MockConsensusStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordWeights implements the ConsensusStore interface.
func (m *MockConsensusStore) RecordWeights(runID int64, mode schema.AggregationMode, rows []schema.GlobalRow) error {
	args := m.Called(runID, mode, rows)
	return args.Error(0)
}

// EndRun implements the ConsensusStore interface.
func (m *MockConsensusStore) EndRun(runID int64, endTime time.Time, expertCount int) error {
	args := m.Called(runID, endTime, expertCount)
	return args.Error(0)
}

// GetAllRuns implements the ConsensusStore interface.
func (m *MockConsensusStore) GetAllRuns() ([]schema.ConsensusRunRecord, error) {
	args := m.Called()
	out, _ := args.Get(0).([]schema.ConsensusRunRecord)
	return out, args.Error(1)
}

// GetAllWeights implements the ConsensusStore interface.
func (m *MockConsensusStore) GetAllWeights() ([]schema.ConsensusWeightRecord, error) {
	args := m.Called()
	out, _ := args.Get(0).([]schema.ConsensusWeightRecord)
	return out, args.Error(1)
}

// GetStatus implements the ConsensusStore interface.
func (m *MockConsensusStore) GetStatus() (schema.ConsensusStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ConsensusStatus), args.Error(1)
}

// Close implements the ConsensusStore interface.
func (m *MockConsensusStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
