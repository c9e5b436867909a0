package agg

import (
	"testing"

	"github.com/huangsam/ahp/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHierarchy() schema.Hierarchy {
	return schema.Hierarchy{
		Name: "test",
		Criteria: []schema.Criterion{
			{Name: "A", SubCriteria: []string{"A1", "A2"}},
			{Name: "B", SubCriteria: []string{"B1", "B2", "B3"}},
			{Name: "C", SubCriteria: []string{"C1", "C2"}},
		},
	}
}

func TestGlobalRanking(t *testing.T) {
	main := schema.GroupResult{Keys: []string{"A", "B", "C"}, Weights: []float64{0.5, 0.3, 0.2}}
	local := map[string]schema.GroupResult{
		"A": {Keys: []string{"A1", "A2"}, Weights: []float64{0.6, 0.4}},
		"B": {Keys: []string{"B1", "B2", "B3"}, Weights: []float64{2, 1, 1}}, // not normalized
	}

	rows := GlobalRanking(main, local)
	require.Len(t, rows, 5)

	assert.Equal(t, schema.GlobalRow{Criterion: "A", SubCriterion: "A1", LocalWeight: 0.6, MainWeight: 0.5, GlobalWeight: 0.3}, rows[0])
	assert.Equal(t, "B1", rows[2].SubCriterion)
	assert.InDelta(t, 0.5, rows[2].LocalWeight, 1e-12)
	assert.InDelta(t, 0.15, rows[2].GlobalWeight, 1e-12)
	assert.InDelta(t, 0.075, rows[4].GlobalWeight, 1e-12)

	// C has no local group and contributes nothing.
	for _, r := range rows {
		assert.NotEqual(t, "C", r.Criterion)
	}
}

func TestGlobalRanking_OrderIndependent(t *testing.T) {
	main := schema.GroupResult{Keys: []string{"A", "B"}, Weights: []float64{0.25, 0.75}}
	local := map[string]schema.GroupResult{
		"A": {Keys: []string{"A1", "A2"}, Weights: []float64{0.5, 0.5}},
		"B": {Keys: []string{"B1"}, Weights: []float64{1}},
	}
	first := GlobalRanking(main, local)
	for range 10 {
		assert.Equal(t, first, GlobalRanking(main, local))
	}
}

func TestGlobalRanking_EmptyGroups(t *testing.T) {
	main := schema.GroupResult{Keys: []string{"A"}, Weights: []float64{1}}
	assert.Empty(t, GlobalRanking(main, map[string]schema.GroupResult{"A": {}}))
	assert.Empty(t, GlobalRanking(main, nil))
}

func TestEvaluateHierarchy(t *testing.T) {
	h := testHierarchy()
	main := schema.Judgments{
		{A: "A", B: "B"}: 3,
		{A: "A", B: "C"}: 5,
		{A: "B", B: "C"}: 2,
	}
	sub := map[string]schema.Judgments{
		"A": {{A: "A1", B: "A2"}: 4},
		"B": {{A: "B1", B: "B2"}: 1.0 / 3, {A: "B2", B: "B3"}: 2},
	}

	res := EvaluateHierarchy(h, main, sub)

	assert.Equal(t, []string{"A", "B", "C"}, res.Main.Keys)
	assert.NotEmpty(t, res.Main.Matrix)
	require.Len(t, res.Local, 3)
	assert.InDelta(t, 0.8, res.Local["A"].Weights[0], 1e-12)
	assert.Nil(t, res.Local["A"].Matrix)

	// C had no judgments and stays neutral.
	assert.InDelta(t, 0.5, res.Local["C"].Weights[0], 1e-12)

	assert.Len(t, res.Global, 7)
	assert.InDelta(t, 1.0, res.GlobalSum(), 1e-9)
	for _, row := range res.Global {
		assert.InDelta(t, row.LocalWeight*row.MainWeight, row.GlobalWeight, 1e-15)
	}
}

func TestEvaluateHierarchy_CriterionWithoutSubCriteria(t *testing.T) {
	h := testHierarchy()
	h.Criteria = append(h.Criteria, schema.Criterion{Name: "D"})

	res := EvaluateHierarchy(h, schema.Judgments{{A: "A", B: "D"}: 2}, nil)
	assert.Len(t, res.Main.Keys, 4)
	assert.NotContains(t, res.Local, "D")
	for _, row := range res.Global {
		assert.NotEqual(t, "D", row.Criterion)
	}
	d, _ := res.Main.WeightOf("D")
	assert.InDelta(t, 1.0-d, res.GlobalSum(), 1e-9)
}

func TestEvaluateHierarchy_DefaultQuestionnaire(t *testing.T) {
	h, err := schema.DefaultHierarchy()
	require.NoError(t, err)

	keys := h.CriteriaKeys()
	main := schema.Judgments{
		{A: keys[0], B: keys[1]}: 3,
		{A: keys[2], B: keys[0]}: 1.0 / 5,
	}
	res := EvaluateHierarchy(h, main, nil)
	assert.Len(t, res.Local, len(h.Criteria))
	assert.InDelta(t, 1.0, res.GlobalSum(), 1e-9)
}
