// Package agg composes per-group weightings into hierarchy results and
// combines several experts into consensus results.
package agg

import (
	"github.com/huangsam/ahp/core/algo"
	"github.com/huangsam/ahp/schema"
)

// EvaluateHierarchy computes the full result for one expert: the main criteria
// weighting, one local weighting per criterion that has sub-criteria, and the
// flattened global ranking. Groups without judgments fall back to neutral
// comparisons, so every group of the hierarchy is present in the result.
func EvaluateHierarchy(h schema.Hierarchy, main schema.Judgments, sub map[string]schema.Judgments) schema.Result {
	mainGroup := algo.EvaluateGroup(h.CriteriaKeys(), main)

	local := make(map[string]schema.GroupResult, len(h.Criteria))
	for _, criterion := range mainGroup.Keys {
		items, _ := h.SubCriteria(criterion)
		if len(items) == 0 {
			continue
		}
		g := algo.EvaluateGroup(items, sub[criterion])
		g.Matrix = nil
		local[criterion] = g
	}

	return schema.Result{
		Main:   mainGroup,
		Local:  local,
		Global: GlobalRanking(mainGroup, local),
	}
}

// GlobalRanking flattens a main weighting and its local weightings into rows
// where GlobalWeight = LocalWeight × MainWeight.
//
// Rows follow the criteria order of main and the sub-criteria order of each
// group; sorting is left to the presentation layer. Criteria without a local
// group, or whose group has no sub-criteria, contribute nothing. Local weights
// are renormalized to sum to 1 before they are combined.
func GlobalRanking(main schema.GroupResult, local map[string]schema.GroupResult) []schema.GlobalRow {
	var rows []schema.GlobalRow
	for i, criterion := range main.Keys {
		if i >= len(main.Weights) {
			break
		}
		g, ok := local[criterion]
		if !ok || len(g.Keys) == 0 || len(g.Weights) != len(g.Keys) {
			continue
		}
		lw, ok := algo.Normalize(g.Weights)
		if !ok {
			lw = algo.Uniform(len(g.Keys))
		}
		mw := main.Weights[i]
		for j, sub := range g.Keys {
			rows = append(rows, schema.GlobalRow{
				Criterion:    criterion,
				SubCriterion: sub,
				LocalWeight:  lw[j],
				MainWeight:   mw,
				GlobalWeight: lw[j] * mw,
			})
		}
	}
	return rows
}
