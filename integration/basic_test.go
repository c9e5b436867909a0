//go:build basic

package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteEnv(t *testing.T) map[string]string {
	return map[string]string{
		"AHP_STORE_BACKEND":    "sqlite",
		"AHP_STORE_DB_CONNECT": filepath.Join(t.TempDir(), "ahp.db"),
	}
}

func TestComputeJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "alice.json")
	_, err := runAHP(t, sqliteEnv(t), "compute", "alice.json", "--output", "json", "--output-file", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var subs []struct {
		Expert string `json:"expert"`
		Result struct {
			Main struct {
				Keys    []string  `json:"keys"`
				Weights []float64 `json:"weights"`
				Cons    struct {
					CR *float64 `json:"CR"`
				} `json:"cons"`
			} `json:"main"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, "alice", subs[0].Expert)
	assert.Equal(t, []string{"Access", "Safety", "Comfort"}, subs[0].Result.Main.Keys)
	assert.InDeltaSlice(t, []float64{4.0 / 7, 2.0 / 7, 1.0 / 7}, subs[0].Result.Main.Weights, 1e-6)
	require.NotNil(t, subs[0].Result.Main.Cons.CR)
	assert.InDelta(t, 0, *subs[0].Result.Main.Cons.CR, 1e-6)
}

func TestSaveAndAggregateFromStore(t *testing.T) {
	env := sqliteEnv(t)

	_, err := runAHP(t, env, "compute", "alice.json", "bob.yaml", "--save")
	require.NoError(t, err)

	out, err := runAHP(t, env, "submissions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")

	consensusFile := filepath.Join(t.TempDir(), "consensus.json")
	_, err = runAHP(t, env, "aggregate", "--from-store", "--mode", "aij", "--output", "json", "--output-file", consensusFile)
	require.NoError(t, err)

	data, err := os.ReadFile(consensusFile)
	require.NoError(t, err)
	var c struct {
		ExpertCount int    `json:"expert_count"`
		Mode        string `json:"mode"`
	}
	require.NoError(t, json.Unmarshal(data, &c))
	assert.Equal(t, 2, c.ExpertCount)
	assert.Equal(t, "aij", c.Mode)

	out, err = runAHP(t, env, "consensus", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 1")

	exportPrefix := filepath.Join(t.TempDir(), "export")
	_, err = runAHP(t, env, "consensus", "export", "--output-file", exportPrefix)
	require.NoError(t, err)
	assert.FileExists(t, exportPrefix+".consensus_weights.parquet")
}

func TestCheckFailsOnInconsistentAnswers(t *testing.T) {
	env := sqliteEnv(t)

	_, err := runAHP(t, env, "check", "alice.json")
	require.NoError(t, err)

	out, err := runAHP(t, env, "check", "cyclic.json")
	require.Error(t, err)
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, out, "carol")
}

func TestLintSuggestsLabels(t *testing.T) {
	out, err := runAHP(t, sqliteEnv(t), "lint", "typo.json")
	require.Error(t, err)
	assert.Contains(t, out, "Acess")
	assert.Contains(t, out, "Access")
	assert.Contains(t, out, "7 issue(s), 2 error(s)")
}

func TestMigrateAndClear(t *testing.T) {
	env := sqliteEnv(t)

	_, err := runAHP(t, env, "submissions", "migrate")
	require.NoError(t, err)

	out, err := runAHP(t, env, "submissions", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Submissions: 0")

	_, err = runAHP(t, env, "submissions", "clear")
	require.NoError(t, err)
	assert.NoFileExists(t, env["AHP_STORE_DB_CONNECT"])
}

func TestVersion(t *testing.T) {
	out, err := runAHP(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ahp CLI")
}
