package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.FixedZone("WIB", 7*3600))

func testHierarchy() schema.Hierarchy {
	return schema.Hierarchy{
		Name: "test",
		Criteria: []schema.Criterion{
			{Name: "Access", SubCriteria: []string{"Ramps", "Lifts"}},
			{Name: "Safety", SubCriteria: []string{"Lighting", "CCTV"}},
			{Name: "Comfort", SubCriteria: []string{"Shade"}},
		},
	}
}

// consistentMain yields weights 4/7, 2/7, 1/7 with CR 0.
func consistentMain() map[string]any {
	return map[string]any{
		"Access ||| Safety":  2,
		"Safety ||| Comfort": 2,
		"Access ||| Comfort": 4,
	}
}

// cyclicMain is a preference cycle and therefore badly inconsistent.
func cyclicMain() map[string]any {
	return map[string]any{
		"Access ||| Safety":  9,
		"Safety ||| Comfort": 9,
		"Comfort ||| Access": 9,
	}
}

func testConfig(t *testing.T, output schema.OutputMode) *contract.Config {
	t.Helper()
	return &contract.Config{
		Hierarchy:    testHierarchy(),
		ResultLimit:  20,
		Workers:      2,
		Precision:    4,
		Output:       output,
		OutputFile:   filepath.Join(t.TempDir(), "out"),
		CRThreshold:  0.1,
		Mode:         schema.BothMode,
		StoreBackend: schema.NoneBackend,
	}
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEvaluate(t *testing.T) {
	in := schema.SubmissionInput{
		Expert: "  alice ",
		Main:   consistentMain(),
		Sub: map[string]any{
			"Access": map[string]any{"Ramps ||| Lifts": 3},
		},
	}

	ev, err := Evaluate(testHierarchy(), in, fixedNow)
	require.NoError(t, err)

	sub := ev.Submission
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "alice", sub.Expert)
	assert.Equal(t, "test", sub.Questionnaire)
	assert.Equal(t, fixedNow.UTC(), sub.CreatedAt)
	assert.Empty(t, ev.Warnings)

	main := sub.Result.Main
	assert.Equal(t, []string{"Access", "Safety", "Comfort"}, main.Keys)
	assert.InDeltaSlice(t, []float64{4.0 / 7, 2.0 / 7, 1.0 / 7}, main.Weights, 1e-9)
	assert.InDelta(t, 0, main.Cons.CR, 1e-9)

	assert.True(t, sub.HasGroup("Access"))
	assert.False(t, sub.HasGroup("Safety"))
	assert.InDeltaSlice(t, []float64{0.75, 0.25}, sub.Result.Local["Access"].Weights, 1e-9)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, sub.Result.Local["Safety"].Weights, 1e-9)

	global := sub.Result.Global
	require.Len(t, global, 5)
	assert.InDelta(t, 1, sub.Result.GlobalSum(), 1e-9)
	assert.Equal(t, "Ramps", global[0].SubCriterion)
	for i := 1; i < len(global); i++ {
		assert.GreaterOrEqual(t, global[i-1].GlobalWeight, global[i].GlobalWeight)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      schema.SubmissionInput
		wantErr error
		msg     string
	}{
		{"missing expert", schema.SubmissionInput{Expert: "  ", Main: consistentMain()}, nil, "expert is required"},
		{"other questionnaire", schema.SubmissionInput{Expert: "a", Questionnaire: "other", Main: consistentMain()}, schema.ErrHierarchyMismatch, "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(testHierarchy(), tt.in, fixedNow)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestEvaluate_Warnings(t *testing.T) {
	in := schema.SubmissionInput{
		Expert: "bob",
		Main:   consistentMain(),
		Sub: map[string]any{
			"Access": map[string]any{"Ramps ||| Lifts": 3, "Ramps Lifts": 2},
			"Parks":  map[string]any{"Trees ||| Benches": 5},
		},
	}

	ev, err := Evaluate(testHierarchy(), in, fixedNow)
	require.NoError(t, err)

	require.Len(t, ev.Warnings, 2)
	assert.Equal(t, `Access: skipped "Ramps Lifts" (malformed pair key)`, ev.Warnings[0])
	assert.Equal(t, "Parks: unknown criterion", ev.Warnings[1])
	assert.Len(t, ev.Skipped["Access"], 1)
	assert.NotContains(t, ev.Submission.SubPairs, "Parks")
	assert.True(t, ev.Submission.HasGroup("Access"))
}

func TestEvaluate_MergesNormalizedGroups(t *testing.T) {
	in := schema.SubmissionInput{
		Expert: "carol",
		Main:   consistentMain(),
		Sub: map[string]any{
			" Safety ": map[string]any{"Lighting ||| CCTV": 2},
			"Safety":   map[string]any{"CCTV ||| Lighting": 4},
		},
	}

	ev, err := Evaluate(testHierarchy(), in, fixedNow)
	require.NoError(t, err)
	assert.Len(t, ev.Submission.SubPairs["Safety"], 2)
}

func TestEvaluate_NoMainJudgments(t *testing.T) {
	ev, err := Evaluate(testHierarchy(), schema.SubmissionInput{Expert: "dave"}, fixedNow)
	require.NoError(t, err)

	// Missing judgments are neutral.
	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, ev.Submission.Result.Main.Weights, 1e-9)
	assert.Empty(t, ev.Submission.MainPairs)
}
