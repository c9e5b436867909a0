package schema

import (
	"encoding/json"
	"math"
)

// Consistency holds the principal eigenvalue estimate, consistency index and ratio
// for one comparison matrix. All three fields are NaN when consistency is undefined.
type Consistency struct {
	LambdaMax float64
	CI        float64
	CR        float64
}

// UndefinedConsistency returns the NaN-bearing result used when a weight is zero.
func UndefinedConsistency() Consistency {
	return Consistency{LambdaMax: math.NaN(), CI: math.NaN(), CR: math.NaN()}
}

// Defined reports whether all metrics are finite.
func (c Consistency) Defined() bool {
	return isFinite(c.LambdaMax) && isFinite(c.CI) && isFinite(c.CR)
}

// Acceptable reports whether CR is defined and does not exceed threshold.
func (c Consistency) Acceptable(threshold float64) bool {
	return c.Defined() && c.CR <= threshold
}

type consistencyJSON struct {
	LambdaMax *float64 `json:"lambda_max"`
	CI        *float64 `json:"CI"`
	CR        *float64 `json:"CR"`
}

// MarshalJSON writes undefined metrics as null because JSON has no NaN.
func (c Consistency) MarshalJSON() ([]byte, error) {
	return json.Marshal(consistencyJSON{
		LambdaMax: finitePtr(c.LambdaMax),
		CI:        finitePtr(c.CI),
		CR:        finitePtr(c.CR),
	})
}

// UnmarshalJSON reads null or missing metrics back as NaN.
func (c *Consistency) UnmarshalJSON(data []byte) error {
	var raw consistencyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.LambdaMax = derefNaN(raw.LambdaMax)
	c.CI = derefNaN(raw.CI)
	c.CR = derefNaN(raw.CR)
	return nil
}

// GroupResult is the weighting of one comparison set.
type GroupResult struct {
	Keys    []string       `json:"keys"`
	Weights []float64      `json:"weights"`
	Cons    Consistency    `json:"cons"`
	Matrix  [][]float64    `json:"mat,omitempty"`
	Method  WeightMethod   `json:"-"`
	Skipped []SkippedEntry `json:"-"`
}

// WeightOf returns the weight for key and whether it exists.
func (g GroupResult) WeightOf(key string) (float64, bool) {
	for i, k := range g.Keys {
		if k == key && i < len(g.Weights) {
			return g.Weights[i], true
		}
	}
	return 0, false
}

// GlobalRow is one sub-criterion in the flattened ranking.
// JSON field names are part of the persisted result contract.
type GlobalRow struct {
	Criterion    string  `json:"Kriteria"`
	SubCriterion string  `json:"SubKriteria"`
	LocalWeight  float64 `json:"LocalWeight"`
	MainWeight   float64 `json:"MainWeight"`
	GlobalWeight float64 `json:"GlobalWeight"`
}

// Result is the complete weighting of a hierarchy for one expert or one consensus.
type Result struct {
	Main   GroupResult            `json:"main"`
	Local  map[string]GroupResult `json:"local"`
	Global []GlobalRow            `json:"global"`
}

// GlobalSum returns the sum of all global weights.
func (r Result) GlobalSum() float64 {
	var sum float64
	for _, row := range r.Global {
		sum += row.GlobalWeight
	}
	return sum
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finitePtr(f float64) *float64 {
	if !isFinite(f) {
		return nil
	}
	return &f
}

func derefNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
