// Package encoding turns IntermediateFeatures into the classifier's input
// vector using the transformers fitted at training time.
package encoding

import "talentflow/internal/types"

// Transformer encodes one aspect of the feature record into a fixed number
// of dense columns.
type Transformer interface {
	// Width is the number of columns the transformer writes.
	Width() int
	// FeatureNames names each column in output order.
	FeatureNames() []string
	// Transform writes exactly Width values into dst, which is zeroed.
	Transform(f *types.IntermediateFeatures, dst []float64)
}

func indexOf(values []string) map[string]int {
	idx := make(map[string]int, len(values))
	for i, v := range values {
		idx[v] = i
	}
	return idx
}
