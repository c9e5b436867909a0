package algo

import "github.com/huangsam/ahp/schema"

// EvaluateGroup runs the full single-set pipeline: matrix, weights, consistency.
func EvaluateGroup(items []string, judgments schema.Judgments) schema.GroupResult {
	m := BuildMatrix(items, judgments)
	return EvaluateMatrix(items, m)
}

// EvaluateMatrix derives weights and consistency for an already built matrix.
func EvaluateMatrix(items []string, m [][]float64) schema.GroupResult {
	w, method := Weights(m)
	return schema.GroupResult{
		Keys:    normalizedKeys(items),
		Weights: w,
		Cons:    Consistency(m, w),
		Matrix:  m,
		Method:  method,
	}
}

func normalizedKeys(items []string) []string {
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = schema.NormalizeLabel(it)
	}
	return keys
}
