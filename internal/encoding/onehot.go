package encoding

import (
	"fmt"

	"talentflow/internal/types"
)

// OneHotEncoder encodes the highest education level against a closed,
// ordered category list. Unknown levels go through the fallback table
// first; a value still unknown afterwards yields an all-zero block.
type OneHotEncoder struct {
	categories []string
	index      map[string]int
	fallback   FallbackTable
}

// NewOneHotEncoder rejects duplicate categories and fallback rules whose
// replacement is not a known category.
func NewOneHotEncoder(categories []string, fallback FallbackTable) (*OneHotEncoder, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("encoder has no categories")
	}
	index := indexOf(categories)
	if len(index) != len(categories) {
		return nil, fmt.Errorf("encoder categories contain duplicates")
	}
	for _, rule := range fallback {
		if _, ok := index[rule.Replacement]; !ok {
			return nil, fmt.Errorf("fallback rule %s targets unknown category", rule.Description)
		}
	}
	return &OneHotEncoder{
		categories: append([]string(nil), categories...),
		index:      index,
		fallback:   fallback,
	}, nil
}

// Resolve maps value onto a known category, applying the fallback table to
// unseen values.
func (e *OneHotEncoder) Resolve(value string) (string, bool) {
	if _, ok := e.index[value]; ok {
		return value, true
	}
	return e.fallback.Resolve(value)
}

func (e *OneHotEncoder) Categories() []string {
	return append([]string(nil), e.categories...)
}

func (e *OneHotEncoder) Fallback() FallbackTable { return e.fallback }

func (e *OneHotEncoder) Width() int { return len(e.categories) }

func (e *OneHotEncoder) FeatureNames() []string {
	names := make([]string, len(e.categories))
	for i, c := range e.categories {
		names[i] = "highestEducationLevel_" + c
	}
	return names
}

func (e *OneHotEncoder) Transform(f *types.IntermediateFeatures, dst []float64) {
	level, ok := e.Resolve(f.HighestEducationLevel)
	if !ok {
		return
	}
	dst[e.index[level]] = 1
}
