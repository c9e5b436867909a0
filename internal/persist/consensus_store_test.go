package persist

import (
	"testing"
	"time"

	"github.com/huangsam/ahp/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsensusStore_NoneBackend(t *testing.T) {
	store, err := NewConsensusStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), map[string]any{"mode": "both"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.RecordWeights(1, schema.AIJMode, []schema.GlobalRow{{Criterion: "A", SubCriterion: "A1"}}))
	assert.NoError(t, store.EndRun(1, time.Now(), 3))

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	assert.NoError(t, store.Close())
}

func TestConsensusStore_SQLite(t *testing.T) {
	store, err := NewConsensusStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, map[string]any{"mode": "both", "experts": 3})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	aij := []schema.GlobalRow{
		{Criterion: "A", SubCriterion: "A1", LocalWeight: 0.6, MainWeight: 0.5, GlobalWeight: 0.3},
		{Criterion: "A", SubCriterion: "A2", LocalWeight: 0.4, MainWeight: 0.5, GlobalWeight: 0.2},
		{Criterion: "B", SubCriterion: "B1", LocalWeight: 1, MainWeight: 0.5, GlobalWeight: 0.5},
	}
	require.NoError(t, store.RecordWeights(runID, schema.AIJMode, aij))
	require.NoError(t, store.RecordWeights(runID, schema.AIPMode, aij[:1]))
	require.NoError(t, store.RecordWeights(runID, schema.AIPMode, nil))

	// Same key twice violates the primary key and rolls back the batch
	assert.Error(t, store.RecordWeights(runID, schema.AIPMode, aij[:1]))

	require.NoError(t, store.EndRun(runID, start.Add(250*time.Millisecond), 3))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.True(t, start.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int64(250), *run.RunDurationMs)
	require.NotNil(t, run.ExpertCount)
	assert.Equal(t, int64(3), *run.ExpertCount)
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"mode":"both","experts":3}`, *run.ConfigParams)

	weights, err := store.GetAllWeights()
	require.NoError(t, err)
	require.Len(t, weights, 4)
	assert.Equal(t, schema.AIJMode, weights[0].Mode)
	assert.Equal(t, "B1", weights[0].SubCriterion)
	assert.Equal(t, schema.AIPMode, weights[3].Mode)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, int64(4), status.TableSizes[consensusWeightsTable])
}

func TestConsensusStore_EndRunUnknown(t *testing.T) {
	store, err := NewConsensusStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Error(t, store.EndRun(42, time.Now(), 1))
}

func TestConsensusStore_UnfinishedRun(t *testing.T) {
	store, err := NewConsensusStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.BeginRun(time.Now(), nil)
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].EndTime)
	assert.Nil(t, runs[0].ExpertCount)
}
