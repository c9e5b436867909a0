package core

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/huangsam/ahp/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCheckResult(t *testing.T) {
	good, err := Evaluate(testHierarchy(), schema.SubmissionInput{
		Expert: "alice",
		Main:   consistentMain(),
		Sub:    map[string]any{"Access": map[string]any{"Ramps ||| Lifts": 3}},
	}, fixedNow)
	require.NoError(t, err)
	good.Source = "alice.json"

	bad, err := Evaluate(testHierarchy(), schema.SubmissionInput{Expert: "bob", Main: cyclicMain()}, fixedNow)
	require.NoError(t, err)
	bad.Source = "bob.json"

	t.Run("all consistent", func(t *testing.T) {
		result := BuildCheckResult([]Evaluation{good}, 0.1)
		assert.True(t, result.Passed)
		assert.Equal(t, 1, result.Checked)
		assert.Equal(t, 2, result.Sets) // main + Access; unanswered groups are skipped
		assert.NotNil(t, result.Violations)
		assert.Empty(t, result.Violations)
	})

	t.Run("inconsistent main", func(t *testing.T) {
		result := BuildCheckResult([]Evaluation{good, bad}, 0.1)
		assert.False(t, result.Passed)
		assert.Equal(t, 3, result.Sets)
		require.Len(t, result.Violations, 1)

		v := result.Violations[0]
		assert.Equal(t, "bob", v.Expert)
		assert.Equal(t, "bob.json", v.Source)
		assert.Empty(t, v.Group)
		assert.Contains(t, v.Reason, "exceeds 0.1000")
	})

	t.Run("undefined consistency fails", func(t *testing.T) {
		ev := good
		ev.Submission.Result.Main.Cons = schema.UndefinedConsistency()
		result := BuildCheckResult([]Evaluation{ev}, 0.1)
		require.Len(t, result.Violations, 1)
		assert.Equal(t, "consistency is undefined", result.Violations[0].Reason)
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		cr := bad.Submission.Result.Main.Cons.CR
		result := BuildCheckResult([]Evaluation{bad}, cr)
		assert.True(t, result.Passed)
	})
}

func TestExecuteCheck(t *testing.T) {
	dir := t.TempDir()

	t.Run("pass", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		cfg.InputFiles = []string{writeInput(t, dir, "ok.json",
			`{"expert": "ok", "main": {"Access ||| Safety": 2, "Safety ||| Comfort": 2, "Access ||| Comfort": 4}}`)}
		require.NoError(t, ExecuteCheck(testContext(), cfg))
	})

	t.Run("fail", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		cfg.InputFiles = []string{writeInput(t, dir, "cycle.json",
			`{"expert": "cycle", "main": {"Access ||| Safety": 9, "Safety ||| Comfort": 9, "Comfort ||| Access": 9}}`)}

		err := ExecuteCheck(testContext(), cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPolicyViolation)

		data, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		var result schema.CheckResult
		require.NoError(t, json.Unmarshal(data, &result))
		assert.False(t, result.Passed)
		assert.Len(t, result.Violations, 1)
	})
}
