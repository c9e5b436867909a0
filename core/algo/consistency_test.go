package algo

import (
	"math"
	"testing"

	"github.com/huangsam/ahp/schema"
	"github.com/stretchr/testify/assert"
)

func TestConsistency_Scenarios(t *testing.T) {
	t.Run("single item", func(t *testing.T) {
		m := BuildMatrix([]string{"A"}, nil)
		w, _ := Weights(m)
		c := Consistency(m, w)
		assert.Equal(t, []float64{1}, w)
		assert.Equal(t, 0.0, c.CI)
		assert.Equal(t, 0.0, c.CR)
		assert.InDelta(t, 1.0, c.LambdaMax, 1e-12)
	})

	t.Run("all neutral", func(t *testing.T) {
		m := BuildMatrix([]string{"A", "B", "C"}, schema.Judgments{
			{A: "A", B: "B"}: 1,
			{A: "A", B: "C"}: 1,
			{A: "B", B: "C"}: 1,
		})
		w, _ := Weights(m)
		c := Consistency(m, w)
		assert.InDelta(t, 3.0, c.LambdaMax, 1e-12)
		assert.InDelta(t, 0.0, c.CI, 1e-12)
		assert.InDelta(t, 0.0, c.CR, 1e-12)
	})

	t.Run("two items always consistent", func(t *testing.T) {
		m := BuildMatrix([]string{"A", "B"}, schema.Judgments{{A: "A", B: "B"}: 9})
		w, _ := Weights(m)
		c := Consistency(m, w)
		assert.InDelta(t, 0.0, c.CI, 1e-12)
		assert.Equal(t, 0.0, c.CR, "RI is 0 for n=2")
	})

	t.Run("consistent ratio scale", func(t *testing.T) {
		items := []string{"A", "B", "C"}
		m := BuildMatrix(items, ratioJudgments(items, []float64{0.5, 0.3, 0.2}))
		w, _ := Weights(m)
		c := Consistency(m, w)
		assert.InDelta(t, 0.0, c.CI, 1e-9)
		assert.InDelta(t, 0.0, c.CR, 1e-9)
		assert.True(t, c.Acceptable(schema.DefaultCRThreshold))
	})

	t.Run("intransitive judgments", func(t *testing.T) {
		m := BuildMatrix([]string{"A", "B", "C"}, schema.Judgments{
			{A: "A", B: "B"}: 9,
			{A: "B", B: "C"}: 9,
			{A: "C", B: "A"}: 9,
		})
		w, _ := Weights(m)
		c := Consistency(m, w)
		assert.Greater(t, c.CR, schema.DefaultCRThreshold)
		assert.False(t, c.Acceptable(schema.DefaultCRThreshold))
		assert.True(t, c.Defined())
	})
}

func TestConsistency_ZeroWeightIsUndefined(t *testing.T) {
	m := NeutralMatrix(3)
	c := Consistency(m, []float64{0.5, 0.5, 0})
	assert.True(t, math.IsNaN(c.LambdaMax))
	assert.True(t, math.IsNaN(c.CI))
	assert.True(t, math.IsNaN(c.CR))
	assert.False(t, c.Defined())
	assert.False(t, c.Acceptable(1))
}

func TestConsistency_MismatchedLengthIsUndefined(t *testing.T) {
	c := Consistency(NeutralMatrix(3), []float64{0.5, 0.5})
	assert.False(t, c.Defined())
}

func TestRandomIndex(t *testing.T) {
	tests := []struct {
		n        int
		expected float64
	}{
		{0, 0},
		{1, 0},
		{2, 0},
		{3, 0.58},
		{4, 0.90},
		{5, 1.12},
		{6, 1.24},
		{7, 1.32},
		{8, 1.41},
		{9, 1.45},
		{10, 1.49},
		{11, 1.49},
		{25, 1.49},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, RandomIndex(tt.n), "n=%d", tt.n)
	}
}
