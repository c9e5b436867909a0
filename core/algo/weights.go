package algo

import (
	"math"
	"math/cmplx"

	"github.com/huangsam/ahp/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Weights derives a normalized priority vector from a comparison matrix.
//
// The row geometric mean is tried first. If it produces any non-finite
// intermediate (row mean, sum or normalized weight) the dominant eigenvector
// is used instead. A uniform vector is the last resort when the eigen
// decomposition itself fails. The returned method names the branch taken.
func Weights(m [][]float64) ([]float64, schema.WeightMethod) {
	n := len(m)
	switch n {
	case 0:
		return []float64{}, schema.TrivialMethod
	case 1:
		return []float64{1.0}, schema.TrivialMethod
	}

	if w, ok := GeometricMeanWeights(m); ok {
		return w, schema.GeometricMeanMethod
	}
	if w, ok := EigenvectorWeights(m); ok {
		return w, schema.EigenvectorMethod
	}
	return Uniform(n), schema.UniformMethod
}

// GeometricMeanWeights computes the normalized row geometric means.
// It reports false when any intermediate value is non-finite.
func GeometricMeanWeights(m [][]float64) ([]float64, bool) {
	n := len(m)
	if n == 0 {
		return nil, false
	}
	gm := make([]float64, n)
	for i, row := range m {
		gm[i] = stat.GeometricMean(row, nil)
		if !finite(gm[i]) {
			return nil, false
		}
	}
	return Normalize(gm)
}

// EigenvectorWeights returns the absolute, normalized eigenvector of the
// eigenvalue with the largest real part.
func EigenvectorWeights(m [][]float64) ([]float64, bool) {
	n := len(m)
	if n == 0 {
		return nil, false
	}
	for _, row := range m {
		for _, v := range row {
			if !finite(v) {
				return nil, false
			}
		}
	}

	var eig mat.Eigen
	if ok := eig.Factorize(mat.NewDense(n, n, flatten(m)), mat.EigenRight); !ok {
		return nil, false
	}
	values := eig.Values(nil)
	best := 0
	for i := range values {
		if real(values[i]) > real(values[best]) {
			best = i
		}
	}

	var vecs mat.CDense
	eig.VectorsTo(&vecs)
	w := make([]float64, n)
	for i := range n {
		w[i] = cmplx.Abs(vecs.At(i, best))
	}
	return Normalize(w)
}

// Normalize scales v so it sums to 1. It reports false when the sum is not
// positive or any result is non-finite. v is not modified.
func Normalize(v []float64) ([]float64, bool) {
	if len(v) == 0 {
		return []float64{}, true
	}
	sum := floats.Sum(v)
	if !finite(sum) || sum <= 0 {
		return nil, false
	}
	out := make([]float64, len(v))
	copy(out, v)
	floats.Scale(1/sum, out)
	for _, x := range out {
		if !finite(x) || x < 0 {
			return nil, false
		}
	}
	return out, true
}

// Uniform returns n equal weights summing to 1.
func Uniform(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return w
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
