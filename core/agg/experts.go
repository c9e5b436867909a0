package agg

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"

	"github.com/huangsam/ahp/core/algo"
	"github.com/huangsam/ahp/schema"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Options tunes a consensus run.
type Options struct {
	Workers     int     // concurrent groups; runtime.NumCPU() when <= 0
	CRThreshold float64 // schema.DefaultCRThreshold when <= 0
}

// AggregateMatrices returns the element-wise geometric mean of same-sized
// comparison matrices. Only the upper triangle is averaged; the lower triangle
// is its reciprocal. A cell that is non-positive or non-finite in one matrix is
// left out for that cell only, and a cell nobody supplied a usable value for
// stays at the neutral 1.
func AggregateMatrices(matrices [][][]float64) [][]float64 {
	if len(matrices) == 0 {
		return nil
	}
	n := len(matrices[0])
	out := algo.NeutralMatrix(n)
	column := make([]float64, 0, len(matrices))
	for i := range n {
		for j := i + 1; j < n; j++ {
			column = column[:0]
			for _, m := range matrices {
				if usableCell(m[i][j]) && usableCell(m[j][i]) {
					column = append(column, m[i][j])
				}
			}
			if len(column) == 0 {
				continue
			}
			gm := stat.GeometricMean(column, nil)
			if !usableCell(gm) || !usableCell(1/gm) {
				continue
			}
			out[i][j] = gm
			out[j][i] = 1 / gm
		}
	}
	return out
}

func usableCell(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// AggregateJudgments applies AIJ to one comparison set: every expert's
// judgments become a matrix, the matrices are combined element-wise by
// geometric mean, and weights and consistency are derived from the result.
func AggregateJudgments(items []string, sets []schema.Judgments) schema.GroupResult {
	matrices := make([][][]float64, len(sets))
	for e, j := range sets {
		matrices[e] = algo.BuildMatrix(items, j)
	}
	if len(matrices) == 0 {
		return algo.EvaluateMatrix(items, algo.NeutralMatrix(len(items)))
	}
	return algo.EvaluateMatrix(items, AggregateMatrices(matrices))
}

// AggregatePriorities applies AIP: the element-wise geometric mean of already
// derived priority vectors, renormalized to sum to 1. Vectors must share a length.
func AggregatePriorities(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return []float64{}
	}
	n := len(vectors[0])
	gm := make([]float64, n)
	column := make([]float64, len(vectors))
	for i := range n {
		for e, v := range vectors {
			column[e] = v[i]
		}
		gm[i] = stat.GeometricMean(column, nil)
	}
	if w, ok := algo.Normalize(gm); ok {
		return w
	}
	return algo.Uniform(n)
}

// group is one comparison set of the hierarchy processed during consensus.
type group struct {
	name  string // empty for the main criteria set
	items []string
}

type groupOutcome struct {
	name         string
	aij          schema.GroupResult
	aip          schema.GroupResult
	participants int
	experts      []schema.ExpertConsistency
}

// BuildConsensus aggregates a read-only snapshot of submissions that share the
// hierarchy h. Both AIJ and AIP results are computed and returned side by side.
//
// Experts without main judgments are left out of the consensus entirely; an
// expert without judgments for a sub-criteria group is left out of that group
// only. A group nobody answered is omitted from the local results. When no
// expert has main judgments, schema.ErrNoData is returned.
func BuildConsensus(ctx context.Context, h schema.Hierarchy, subs []schema.Submission, opts Options) (schema.Consensus, error) {
	participants := make([]schema.Submission, 0, len(subs))
	for _, s := range subs {
		if len(s.MainPairs) > 0 {
			participants = append(participants, s)
		}
	}
	if len(participants) == 0 {
		return schema.Consensus{}, fmt.Errorf("consensus for %q: %w", h.Name, schema.ErrNoData)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	threshold := opts.CRThreshold
	if threshold <= 0 {
		threshold = schema.DefaultCRThreshold
	}

	groups := []group{{items: h.CriteriaKeys()}}
	for _, criterion := range h.CriteriaKeys() {
		if items, _ := h.SubCriteria(criterion); len(items) > 0 {
			groups = append(groups, group{name: criterion, items: items})
		}
	}

	outcomes := make([]groupOutcome, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, grp := range groups {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := aggregateGroup(grp, participants)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return schema.Consensus{}, err
	}

	mainOut := outcomes[0]
	aijLocal := make(map[string]schema.GroupResult, len(groups)-1)
	aipLocal := make(map[string]schema.GroupResult, len(groups)-1)
	participation := make(map[string]int, len(groups)-1)
	for _, out := range outcomes[1:] {
		participation[out.name] = out.participants
		if out.participants == 0 {
			continue
		}
		aijLocal[out.name] = out.aij
		aipLocal[out.name] = out.aip
	}

	aij := schema.Result{Main: mainOut.aij, Local: aijLocal, Global: GlobalRanking(mainOut.aij, aijLocal)}
	aip := schema.Result{Main: mainOut.aip, Local: aipLocal, Global: GlobalRanking(mainOut.aip, aipLocal)}

	return schema.Consensus{
		Questionnaire: h.Name,
		ExpertCount:   len(participants),
		AIJ:           aij,
		AIP:           aip,
		Diagnostics:   diagnose(mainOut.experts, threshold, aij.Main.Weights, aip.Main.Weights, participation),
	}, nil
}

// aggregateGroup runs AIJ and AIP for one comparison set over the experts
// that answered it.
func aggregateGroup(grp group, subs []schema.Submission) (groupOutcome, error) {
	var (
		sets    []schema.Judgments
		vectors [][]float64
		experts []schema.ExpertConsistency
	)
	for _, s := range subs {
		judgments, stored, hasStored := groupInput(s, grp.name)
		if len(judgments) == 0 {
			continue
		}
		individual, err := resolveIndividual(grp.items, judgments, stored, hasStored)
		if err != nil {
			return groupOutcome{}, fmt.Errorf("expert %q: %w", s.Expert, err)
		}
		sets = append(sets, judgments)
		vectors = append(vectors, individual.Weights)
		if grp.name == "" {
			experts = append(experts, schema.ExpertConsistency{Expert: s.Expert, Cons: individual.Cons})
		}
	}

	keys := normalized(grp.items)
	out := groupOutcome{name: grp.name, participants: len(sets), experts: experts}
	if len(sets) == 0 {
		out.aij = schema.GroupResult{Keys: keys}
		return out, nil
	}

	out.aij = AggregateJudgments(grp.items, sets)
	if grp.name != "" {
		out.aij.Matrix = nil
	}
	out.aip = schema.GroupResult{
		Keys:    keys,
		Weights: AggregatePriorities(vectors),
		Cons:    schema.UndefinedConsistency(),
		Method:  schema.GeometricMeanMethod,
	}
	return out, nil
}

// groupInput picks the judgments and the stored individual weighting of one
// group from a submission. An empty name selects the main criteria set.
func groupInput(s schema.Submission, name string) (schema.Judgments, schema.GroupResult, bool) {
	if name == "" {
		return s.MainPairs, s.Result.Main, len(s.Result.Main.Keys) > 0
	}
	stored, ok := s.Result.Local[name]
	return s.SubPairs[name], stored, ok && len(stored.Keys) > 0
}

// resolveIndividual returns the expert's own weighting of a group. A stored
// weighting is reused when it matches the hierarchy; a submission without a
// stored result is evaluated from its judgments.
func resolveIndividual(items []string, judgments schema.Judgments, stored schema.GroupResult, hasStored bool) (schema.GroupResult, error) {
	if !hasStored {
		return algo.EvaluateGroup(items, judgments), nil
	}
	if !slices.Equal(stored.Keys, normalized(items)) || len(stored.Weights) != len(stored.Keys) {
		return schema.GroupResult{}, fmt.Errorf("stored keys %v do not match %v: %w", stored.Keys, items, schema.ErrHierarchyMismatch)
	}
	return stored, nil
}

func normalized(items []string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = schema.NormalizeLabel(it)
	}
	return out
}
