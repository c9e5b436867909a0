package algo

import (
	"sort"

	"github.com/huangsam/ahp/schema"
)

// RankGlobal returns a copy of rows sorted by global weight in descending order
// and truncated to limit. Ties are broken by criterion, then sub-criterion.
// A limit <= 0 keeps every row.
func RankGlobal(rows []schema.GlobalRow, limit int) []schema.GlobalRow {
	ranked := make([]schema.GlobalRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].GlobalWeight != ranked[j].GlobalWeight {
			return ranked[i].GlobalWeight > ranked[j].GlobalWeight
		}
		if ranked[i].Criterion != ranked[j].Criterion {
			return ranked[i].Criterion < ranked[j].Criterion
		}
		return ranked[i].SubCriterion < ranked[j].SubCriterion
	})
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

// RankKeys returns the indices of weights ordered from heaviest to lightest.
func RankKeys(weights []float64) []int {
	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return weights[order[a]] > weights[order[b]]
	})
	return order
}
