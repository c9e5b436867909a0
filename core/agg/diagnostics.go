package agg

import (
	"github.com/huangsam/ahp/schema"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

// diagnose summarizes expert consistency and how far the two aggregation
// rules drifted apart on the main criteria.
func diagnose(experts []schema.ExpertConsistency, threshold float64, aij, aip []float64, participation map[string]int) schema.ConsensusDiagnostics {
	d := schema.ConsensusDiagnostics{
		Experts:       experts,
		CRThreshold:   threshold,
		Participation: participation,
	}

	var crs stats.Float64Data
	for _, e := range experts {
		if !e.Cons.Defined() {
			d.InconsistentExperts++
			continue
		}
		crs = append(crs, e.Cons.CR)
		if e.Cons.CR > threshold {
			d.InconsistentExperts++
		}
	}
	d.DefinedCRCount = len(crs)
	if len(crs) > 0 {
		d.MeanCR, _ = crs.Mean()
		d.MedianCR, _ = crs.Median()
		d.MaxCR, _ = crs.Max()
	}

	if len(aij) == len(aip) && len(aij) > 0 {
		d.ModeDistance = floats.Distance(aij, aip, 2)
	}
	return d
}
