// Package algo has the numeric building blocks of the AHP engine.
// Every function here is pure: it owns its inputs for the duration of the call
// and never touches shared state.
package algo

import (
	"math"

	"github.com/huangsam/ahp/schema"
)

// BuildMatrix turns ordered items and pairwise judgments into a reciprocal comparison matrix.
//
// Judgments referencing unknown items, self-comparisons, zero ratios and ratios
// that are non-finite or whose reciprocal overflows are skipped. Unsupplied pairs stay at the neutral value 1. Judgments are
// applied in sorted pair order, so when both orientations of a pair are present the
// result is deterministic. The mirrored entry is always derived as 1/r and never
// read from input.
func BuildMatrix(items []string, judgments schema.Judgments) [][]float64 {
	n := len(items)
	m := NeutralMatrix(n)

	idx := make(map[string]int, n)
	for i, it := range items {
		idx[schema.NormalizeLabel(it)] = i
	}

	for _, p := range judgments.SortedPairs() {
		r := judgments[p]
		i, okA := idx[p.A]
		j, okB := idx[p.B]
		if !okA || !okB || i == j {
			continue
		}
		if r == 0 || math.IsNaN(r) || math.IsInf(r, 0) || math.IsInf(1/r, 0) {
			continue
		}
		m[i][j] = r
		m[j][i] = 1.0 / r
	}
	return m
}

// NeutralMatrix returns the n×n comparison matrix where every judgment is 1.
func NeutralMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			m[i][j] = 1
		}
	}
	return m
}

// flatten packs a square matrix into row-major order for gonum.
func flatten(m [][]float64) []float64 {
	n := len(m)
	data := make([]float64, 0, n*n)
	for _, row := range m {
		data = append(data, row...)
	}
	return data
}
