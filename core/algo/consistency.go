package algo

import (
	"github.com/huangsam/ahp/schema"
	"gonum.org/v1/gonum/mat"
)

// Consistency computes lambda_max, CI and CR for a matrix and its priority vector.
// A zero or non-finite weight makes the ratio Aw[i]/w[i] meaningless, so the
// undefined (NaN) result is returned instead.
func Consistency(m [][]float64, w []float64) schema.Consistency {
	n := len(m)
	if n == 0 || len(w) != n {
		return schema.UndefinedConsistency()
	}
	for _, wi := range w {
		if wi == 0 || !finite(wi) {
			return schema.UndefinedConsistency()
		}
	}

	var aw mat.VecDense
	aw.MulVec(mat.NewDense(n, n, flatten(m)), mat.NewVecDense(n, append([]float64(nil), w...)))

	var sum float64
	for i := range n {
		sum += aw.AtVec(i) / w[i]
	}
	lambdaMax := sum / float64(n)
	if !finite(lambdaMax) {
		return schema.UndefinedConsistency()
	}

	ci := 0.0
	if n > 1 {
		ci = (lambdaMax - float64(n)) / float64(n-1)
	}
	cr := 0.0
	if ri := RandomIndex(n); ri != 0 {
		cr = ci / ri
	}
	return schema.Consistency{LambdaMax: lambdaMax, CI: ci, CR: cr}
}

// RandomIndex returns Saaty's RI for a matrix of order n.
func RandomIndex(n int) float64 {
	if ri, ok := schema.RandomIndex[n]; ok {
		return ri
	}
	if n > 10 {
		return schema.DefaultRandomIndex
	}
	return 0
}
