package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/internal/events"
	mcp_internal "github.com/huangsam/ahp/internal/mcp"
	"github.com/huangsam/ahp/internal/persist"
	"github.com/huangsam/ahp/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *contract.Config {
	return &contract.Config{
		Hierarchy: schema.Hierarchy{
			Name: "test",
			Criteria: []schema.Criterion{
				{Name: "Access", SubCriteria: []string{"Ramps", "Lifts"}},
				{Name: "Safety", SubCriteria: []string{"Lighting", "CCTV"}},
			},
		},
		ResultLimit: 20,
		Workers:     2,
		CRThreshold: 0.1,
		Mode:        schema.BothMode,
	}
}

func call(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "tool %s should exist", name)
	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestComputeWeights(t *testing.T) {
	s := mcp_internal.NewMCPServer(testConfig(), nil, nil)

	res := call(t, s, "compute_weights", map[string]any{
		"items":     []any{"A", "B", "C"},
		"judgments": map[string]any{"A ||| B": 2.0, "B ||| C": 2.0, "A ||| C": 4.0},
	})
	require.False(t, res.IsError, text(res))

	var out struct {
		Keys    []string           `json:"keys"`
		Weights []float64          `json:"weights"`
		Cons    schema.Consistency `json:"cons"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(res)), &out))
	assert.Equal(t, []string{"A", "B", "C"}, out.Keys)
	assert.InDeltaSlice(t, []float64{4.0 / 7, 2.0 / 7, 1.0 / 7}, out.Weights, 1e-9)
	assert.InDelta(t, 0, out.Cons.CR, 1e-9)

	res = call(t, s, "compute_weights", map[string]any{"judgments": map[string]any{}})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "items must list at least one label")
}

func TestEvaluateSubmission(t *testing.T) {
	t.Run("without saving", func(t *testing.T) {
		s := mcp_internal.NewMCPServer(testConfig(), nil, nil)
		res := call(t, s, "evaluate_submission", map[string]any{
			"expert": "alice",
			"main":   map[string]any{"Access ||| Safety": 3.0},
			"sub":    map[string]any{"Access": map[string]any{"Ramps ||| Lifts": 2.0}},
		})
		require.False(t, res.IsError, text(res))
		assert.Contains(t, text(res), `"Kriteria": "Access"`)
	})

	t.Run("missing expert", func(t *testing.T) {
		s := mcp_internal.NewMCPServer(testConfig(), nil, nil)
		res := call(t, s, "evaluate_submission", map[string]any{"main": map[string]any{}})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "expert is required")
	})

	t.Run("save without store", func(t *testing.T) {
		s := mcp_internal.NewMCPServer(testConfig(), nil, nil)
		res := call(t, s, "evaluate_submission", map[string]any{"expert": "a", "main": map[string]any{}, "save": true})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "submission store is not configured")
	})

	t.Run("save", func(t *testing.T) {
		store := &persist.MockSubmissionStore{}
		store.On("Save", mock.Anything, mock.MatchedBy(func(s schema.Submission) bool { return s.Expert == "alice" })).Return(nil)
		mgr := &persist.MockStoreManager{}
		mgr.On("GetSubmissionStore").Return(store)
		pub := &events.MockPublisher{}
		pub.On("Publish", mock.Anything, schema.SubjectSubmissionCreated, mock.Anything).Return(nil)

		s := mcp_internal.NewMCPServer(testConfig(), mgr, pub)
		res := call(t, s, "evaluate_submission", map[string]any{
			"expert": "alice",
			"main":   map[string]any{"Access ||| Safety": 3.0},
			"save":   true,
		})
		require.False(t, res.IsError, text(res))
		store.AssertExpectations(t)
		pub.AssertExpectations(t)
	})
}

func TestLintSubmission(t *testing.T) {
	s := mcp_internal.NewMCPServer(testConfig(), nil, nil)
	res := call(t, s, "lint_submission", map[string]any{
		"expert": "alice",
		"main":   map[string]any{"Acess ||| Safety": 3.0},
	})
	require.False(t, res.IsError)

	var issues []schema.LintIssue
	require.NoError(t, json.Unmarshal([]byte(text(res)), &issues))
	require.NotEmpty(t, issues)
	assert.Equal(t, "Access", issues[0].Suggestion)
}

func TestAggregateExperts(t *testing.T) {
	subs := []schema.Submission{
		{Expert: "alice", MainPairs: schema.Judgments{schema.NewPair("Access", "Safety"): 3}},
		{Expert: "bob", MainPairs: schema.Judgments{schema.NewPair("Access", "Safety"): 3}},
	}
	store := &persist.MockSubmissionStore{}
	store.On("LatestPerExpert", mock.Anything, "test").Return(subs, nil)
	mgr := &persist.MockStoreManager{}
	mgr.On("GetSubmissionStore").Return(store)
	mgr.On("GetConsensusStore").Return(nil)

	s := mcp_internal.NewMCPServer(testConfig(), mgr, nil)

	res := call(t, s, "aggregate_experts", map[string]any{"mode": "aij"})
	require.False(t, res.IsError, text(res))
	var out struct {
		Mode        schema.AggregationMode `json:"mode"`
		ExpertCount int                    `json:"expert_count"`
		Result      schema.Result          `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(res)), &out))
	assert.Equal(t, schema.AIJMode, out.Mode)
	assert.Equal(t, 2, out.ExpertCount)
	assert.InDeltaSlice(t, []float64{0.75, 0.25}, out.Result.Main.Weights, 1e-9)

	res = call(t, s, "aggregate_experts", map[string]any{"mode": "median"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "invalid mode")
}

func TestAggregateExperts_NoData(t *testing.T) {
	store := &persist.MockSubmissionStore{}
	store.On("LatestPerExpert", mock.Anything, "test").Return(nil, nil)
	mgr := &persist.MockStoreManager{}
	mgr.On("GetSubmissionStore").Return(store)
	mgr.On("GetConsensusStore").Return(nil)

	s := mcp_internal.NewMCPServer(testConfig(), mgr, nil)
	res := call(t, s, "aggregate_experts", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "no data")
}

func TestListSubmissions(t *testing.T) {
	store := &persist.MockSubmissionStore{}
	store.On("List", mock.Anything, "alice", 5).Return([]schema.SubmissionSummary{{ID: "s1", Expert: "alice"}}, nil)
	mgr := &persist.MockStoreManager{}
	mgr.On("GetSubmissionStore").Return(store)

	s := mcp_internal.NewMCPServer(testConfig(), mgr, nil)
	res := call(t, s, "list_submissions", map[string]any{"expert": "alice", "limit": 5.0})
	require.False(t, res.IsError, text(res))
	assert.Contains(t, text(res), `"s1"`)

	s = mcp_internal.NewMCPServer(testConfig(), nil, nil)
	res = call(t, s, "list_submissions", nil)
	assert.True(t, res.IsError)
}
